package webhook

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edumart/server-go/pkg/metrics"
	"github.com/edumart/server-go/pkg/response"
)

// MercadoPago handles Mercado Pago notification deliveries. The payment id
// arrives as a query parameter; the outcome itself has to be looked up at
// the payments API because the notification body carries no status.
func (h *Handler) MercadoPago(c *gin.Context) {
	dataID := c.Query("data.id")
	if dataID == "" {
		dataID = c.Query("id")
	}

	if err := h.mercadopago.VerifySignature(
		c.GetHeader("x-signature"),
		c.GetHeader("x-request-id"),
		dataID,
	); err != nil {
		metrics.ObserveWebhook(h.mercadopago.Name(), "invalid_signature")
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid signature", err)
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "failed to read request body", err)
		return
	}

	topic := c.Query("type")
	if topic == "" {
		topic = c.Query("topic")
	}

	if topic != "payment" {
		metrics.ObserveWebhook(h.mercadopago.Name(), "ignored")
		h.recordAndAck(c, Event{
			Provider:  h.mercadopago.Name(),
			EventType: topic,
			Payload:   payload,
		})
		return
	}

	outcome, err := h.mercadopago.LookupOutcome(c.Request.Context(), dataID)
	if err != nil {
		metrics.ObserveWebhook(h.mercadopago.Name(), "lookup_error")
		h.logger.ErrorContext(c.Request.Context(), "failed to look up mercado pago payment",
			slog.String("dataId", dataID),
			slog.String("error", err.Error()),
		)
		h.recordAndAck(c, Event{
			Provider:  h.mercadopago.Name(),
			EventType: topic,
			Payload:   payload,
			Error:     err.Error(),
		})
		return
	}

	h.settle(c, h.mercadopago.Name(), outcome, payload)
}
