package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// purchaseRefKey is the metadata key carrying the correlation token.
const purchaseRefKey = "purchaseId"

// StripeClient wraps the Stripe API for checkout and webhook handling.
type StripeClient struct {
	api           *client.API
	webhookSecret string
}

// NewStripeClient constructs a Stripe client from API credentials.
func NewStripeClient(secretKey, webhookSecret string) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeClient{api: api, webhookSecret: webhookSecret}
}

// Name identifies the provider in logs, metrics and event records.
func (s *StripeClient) Name() string { return "stripe" }

// CreateCheckoutSession creates a hosted checkout session and returns its URL.
func (s *StripeClient) CreateCheckoutSession(ctx context.Context, in CheckoutInput) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(in.SuccessURL),
		CancelURL:     stripe.String(in.FailureURL),
		CustomerEmail: stripe.String(in.PayerEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(string(in.Currency))),
					UnitAmount: stripe.Int64(in.Amount.Cents()),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.CourseTitle),
					},
				},
			},
		},
	}
	params.Context = ctx
	params.AddMetadata(purchaseRefKey, in.PurchaseID)

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create stripe checkout session: %w", err)
	}

	return session.URL, nil
}

// VerifyEvent checks the Stripe-Signature header against the raw payload and
// returns the parsed event. Unverified payloads never reach dispatch.
func (s *StripeClient) VerifyEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

// DecodeOutcome maps a verified Stripe event onto the outcome variant.
// Failed payment intents carry no session metadata, so correlation goes
// through the checkout-session list lookup.
func (s *StripeClient) DecodeOutcome(ctx context.Context, event stripe.Event) (Outcome, error) {
	out := Outcome{Kind: OutcomeOther, EventType: string(event.Type)}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionExpired:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return out, fmt.Errorf("decode checkout session payload: %w", err)
		}

		out.PurchaseRef = session.Metadata[purchaseRefKey]
		if event.Type == stripe.EventTypeCheckoutSessionCompleted {
			out.Kind = OutcomeApproved
		} else {
			out.Kind = OutcomeRejected
		}

	case stripe.EventTypePaymentIntentPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return out, fmt.Errorf("decode payment intent payload: %w", err)
		}

		ref, err := s.purchaseRefByIntent(ctx, intent.ID)
		if err != nil {
			return out, err
		}

		out.Kind = OutcomeRejected
		out.PurchaseRef = ref
	}

	return out, nil
}

func (s *StripeClient) purchaseRefByIntent(ctx context.Context, intentID string) (string, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: stripe.String(intentID),
	}
	params.Context = ctx

	iter := s.api.CheckoutSessions.List(params)
	for iter.Next() {
		if ref := iter.CheckoutSession().Metadata[purchaseRefKey]; ref != "" {
			return ref, nil
		}
	}
	if err := iter.Err(); err != nil {
		return "", fmt.Errorf("list checkout sessions for intent %s: %w", intentID, err)
	}

	return "", nil
}
