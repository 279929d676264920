package webhook

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/edumart/server-go/pkg/payments"
)

func newPaymentWebhookRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stripeClient := payments.NewStripeClient("sk_test_key", "whsec_test")
	mpClient, err := payments.NewMercadoPagoClient("TEST-access-token", "mp_secret")
	if err != nil {
		t.Fatalf("NewMercadoPagoClient: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(nil, logger, stripeClient, mpClient, nil)

	router := gin.New()
	RegisterRoutes(router, handler)
	return router
}

func TestStripeRejectsUnsignedDelivery(t *testing.T) {
	router := newPaymentWebhookRouter(t)

	body := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{}}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", "t=0,v1=deadbeef")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for forged signature", rec.Code)
	}
}

func TestMercadoPagoRejectsUnsignedDelivery(t *testing.T) {
	router := newPaymentWebhookRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/mercadopago?type=payment&data.id=123", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("x-signature", "ts=1704908010,v1=deadbeef")
	req.Header.Set("x-request-id", "req-1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for forged signature", rec.Code)
	}
}

func TestUnconfiguredProvidersAreNotMounted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(nil, logger, nil, nil, nil)

	router := gin.New()
	RegisterRoutes(router, handler)

	for _, path := range []string{"/webhooks/clerk", "/webhooks/stripe", "/webhooks/mercadopago"} {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404 when provider is not configured", path, rec.Code)
		}
	}
}
