// Package payments wraps the checkout providers (Stripe, Mercado Pago) behind
// a common interface. Provider callbacks are decoded at the boundary into the
// closed Outcome variant so reconciliation never branches on raw provider
// strings.
package payments

import (
	"context"

	"github.com/edumart/server-go/pkg/types"
)

// OutcomeKind is the closed set of payment outcomes reconciliation acts on.
type OutcomeKind string

const (
	OutcomeApproved OutcomeKind = "approved"
	OutcomeRejected OutcomeKind = "rejected"
	// OutcomeOther covers every event type that carries no payment outcome;
	// such deliveries are acknowledged and ignored.
	OutcomeOther OutcomeKind = "other"
)

// Outcome is the decoded result of a provider callback.
type Outcome struct {
	Kind OutcomeKind
	// PurchaseRef is the correlation token embedded at checkout time (the
	// purchase id). Empty when the callback could not be correlated.
	PurchaseRef string
	// EventType is the provider's original event or status string, kept for
	// logging and the webhook event record.
	EventType string
}

// CheckoutInput carries everything a provider needs to create a session.
type CheckoutInput struct {
	PurchaseID  string
	CourseID    string
	CourseTitle string
	Amount      types.Money
	Currency    types.Currency
	PayerName   string
	PayerEmail  string
	SuccessURL  string
	FailureURL  string
}

// Provider creates checkout sessions. The purchase id travels as the
// session's external reference and comes back in the outcome callback.
type Provider interface {
	Name() string
	CreateCheckoutSession(ctx context.Context, in CheckoutInput) (redirectURL string, err error)
}
