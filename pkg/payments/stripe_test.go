package payments

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

const stripeTestSecret = "whsec_test_secret"

func signedStripeHeader(t *testing.T, payload []byte) string {
	t.Helper()
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, stripeTestSecret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

func TestStripeVerifyEvent(t *testing.T) {
	client := NewStripeClient("sk_test_key", stripeTestSecret)

	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`)

	event, err := client.VerifyEvent(payload, signedStripeHeader(t, payload))
	if err != nil {
		t.Fatalf("VerifyEvent with valid signature: %v", err)
	}
	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		t.Errorf("event type = %s, want checkout.session.completed", event.Type)
	}

	tampered := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.expired","data":{"object":{"id":"cs_1"}}}`)
	if _, err := client.VerifyEvent(tampered, signedStripeHeader(t, payload)); err == nil {
		t.Error("VerifyEvent must reject a payload that does not match its signature")
	}

	if _, err := client.VerifyEvent(payload, "t=0,v1=deadbeef"); err == nil {
		t.Error("VerifyEvent must reject a forged signature")
	}
}

func stripeEvent(t *testing.T, eventType stripe.EventType, object interface{}) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(object)
	if err != nil {
		t.Fatalf("marshal event object: %v", err)
	}
	return stripe.Event{
		Type: eventType,
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestStripeDecodeOutcome(t *testing.T) {
	client := NewStripeClient("sk_test_key", stripeTestSecret)
	session := map[string]interface{}{
		"id":       "cs_1",
		"metadata": map[string]string{"purchaseId": "7b7577a4-5f1c-4f9e-9b57-0df9a4f0f3c2"},
	}

	t.Run("completed session approves", func(t *testing.T) {
		event := stripeEvent(t, stripe.EventTypeCheckoutSessionCompleted, session)
		outcome, err := client.DecodeOutcome(context.Background(), event)
		if err != nil {
			t.Fatalf("DecodeOutcome: %v", err)
		}
		if outcome.Kind != OutcomeApproved {
			t.Errorf("kind = %s, want approved", outcome.Kind)
		}
		if outcome.PurchaseRef != "7b7577a4-5f1c-4f9e-9b57-0df9a4f0f3c2" {
			t.Errorf("purchase ref = %q", outcome.PurchaseRef)
		}
	})

	t.Run("expired session rejects", func(t *testing.T) {
		event := stripeEvent(t, stripe.EventTypeCheckoutSessionExpired, session)
		outcome, err := client.DecodeOutcome(context.Background(), event)
		if err != nil {
			t.Fatalf("DecodeOutcome: %v", err)
		}
		if outcome.Kind != OutcomeRejected {
			t.Errorf("kind = %s, want rejected", outcome.Kind)
		}
	})

	t.Run("unrelated event is ignored", func(t *testing.T) {
		event := stripeEvent(t, "invoice.paid", map[string]interface{}{"id": "in_1"})
		outcome, err := client.DecodeOutcome(context.Background(), event)
		if err != nil {
			t.Fatalf("DecodeOutcome: %v", err)
		}
		if outcome.Kind != OutcomeOther {
			t.Errorf("kind = %s, want other", outcome.Kind)
		}
		if outcome.PurchaseRef != "" {
			t.Errorf("purchase ref = %q, want empty", outcome.PurchaseRef)
		}
		if outcome.EventType != "invoice.paid" {
			t.Errorf("event type = %q", outcome.EventType)
		}
	})
}
