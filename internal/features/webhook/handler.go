package webhook

import (
	"log/slog"

	svix "github.com/svix/svix-webhooks/go"
	"gorm.io/gorm"

	"github.com/edumart/server-go/pkg/payments"
)

// Handler processes provider webhook deliveries. Webhook endpoints sit
// outside the authenticated API: callers prove themselves with payload
// signatures instead of session tokens.
type Handler struct {
	db            *gorm.DB
	logger        *slog.Logger
	stripe        *payments.StripeClient
	mercadopago   *payments.MercadoPagoClient
	clerkVerifier *svix.Webhook
}

// NewHandler constructs a webhook handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, stripeClient *payments.StripeClient, mpClient *payments.MercadoPagoClient, clerkVerifier *svix.Webhook) *Handler {
	return &Handler{
		db:            db,
		logger:        logger,
		stripe:        stripeClient,
		mercadopago:   mpClient,
		clerkVerifier: clerkVerifier,
	}
}
