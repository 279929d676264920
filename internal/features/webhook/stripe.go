package webhook

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edumart/server-go/internal/features/purchase"
	"github.com/edumart/server-go/pkg/metrics"
	"github.com/edumart/server-go/pkg/payments"
	"github.com/edumart/server-go/pkg/response"
)

// Stripe handles Stripe event deliveries. The raw body is read before any
// parsing because the signature covers the exact bytes on the wire.
func (h *Handler) Stripe(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "failed to read request body", err)
		return
	}

	event, err := h.stripe.VerifyEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		metrics.ObserveWebhook(h.stripe.Name(), "invalid_signature")
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid signature", err)
		return
	}

	outcome, err := h.stripe.DecodeOutcome(c.Request.Context(), event)
	if err != nil {
		metrics.ObserveWebhook(h.stripe.Name(), "decode_error")
		h.logger.ErrorContext(c.Request.Context(), "failed to decode stripe event",
			slog.String("eventType", string(event.Type)),
			slog.String("error", err.Error()),
		)
		h.recordAndAck(c, Event{
			Provider:  h.stripe.Name(),
			EventType: string(event.Type),
			Payload:   payload,
			Error:     err.Error(),
		})
		return
	}

	h.settle(c, h.stripe.Name(), outcome, payload)
}

// settle applies a verified payment outcome and writes the audit record.
// Once a delivery is verified the provider always gets a 2xx: surfacing an
// internal failure would trigger retries, so failures go to the log and the
// event record instead.
func (h *Handler) settle(c *gin.Context, provider string, outcome payments.Outcome, payload []byte) {
	record := Event{
		Provider:    provider,
		EventType:   outcome.EventType,
		PurchaseRef: outcome.PurchaseRef,
		Payload:     payload,
	}

	if outcome.Kind == payments.OutcomeOther {
		metrics.ObserveWebhook(provider, "ignored")
		h.recordAndAck(c, record)
		return
	}

	approved := outcome.Kind == payments.OutcomeApproved

	_, changed, err := purchase.ReconcileByRef(h.db, outcome.PurchaseRef, approved)
	switch {
	case errors.Is(err, purchase.ErrPurchaseNotFound), errors.Is(err, purchase.ErrInvalidPurchaseRef):
		metrics.ObserveWebhook(provider, "unmatched")
		record.Error = err.Error()
		h.recordAndAck(c, record)
		return
	case err != nil:
		metrics.ObserveWebhook(provider, "error")
		h.logger.ErrorContext(c.Request.Context(), "failed to reconcile purchase",
			slog.String("provider", provider),
			slog.String("purchaseRef", outcome.PurchaseRef),
			slog.String("error", err.Error()),
		)
		record.Error = err.Error()
		h.recordAndAck(c, record)
		return
	}

	if !changed {
		metrics.ObserveWebhook(provider, "replay")
	} else if approved {
		metrics.ObserveWebhook(provider, "approved")
	} else {
		metrics.ObserveWebhook(provider, "rejected")
	}

	record.Processed = changed
	h.recordAndAck(c, record)
}

func (h *Handler) recordAndAck(c *gin.Context, record Event) {
	if err := recordEvent(h.db, record); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "failed to record webhook event",
			slog.String("provider", record.Provider),
			slog.String("eventType", record.EventType),
			slog.String("error", err.Error()),
		)
	}

	response.OK(c, "", nil)
}
