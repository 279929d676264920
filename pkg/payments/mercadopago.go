package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	mppreference "github.com/mercadopago/sdk-go/pkg/preference"
)

// ErrInvalidSignature is returned when the x-signature check fails.
var ErrInvalidSignature = errors.New("invalid mercado pago signature")

// MercadoPagoClient wraps the Mercado Pago SDK for checkout preferences,
// payment lookups and webhook signature verification.
type MercadoPagoClient struct {
	preferences   mppreference.Client
	payments      mppayment.Client
	webhookSecret string
}

// NewMercadoPagoClient constructs a client from the account access token.
func NewMercadoPagoClient(accessToken, webhookSecret string) (*MercadoPagoClient, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("init mercado pago config: %w", err)
	}

	return &MercadoPagoClient{
		preferences:   mppreference.NewClient(cfg),
		payments:      mppayment.NewClient(cfg),
		webhookSecret: webhookSecret,
	}, nil
}

// Name identifies the provider in logs, metrics and event records.
func (m *MercadoPagoClient) Name() string { return "mercadopago" }

// CreateCheckoutSession creates a checkout preference and returns its
// init-point URL. The purchase id travels as the external reference.
func (m *MercadoPagoClient) CreateCheckoutSession(ctx context.Context, in CheckoutInput) (string, error) {
	request := mppreference.Request{
		Items: []mppreference.ItemRequest{
			{
				ID:         in.CourseID,
				Title:      in.CourseTitle,
				Quantity:   1,
				CurrencyID: string(in.Currency),
				UnitPrice:  in.Amount.Float64(),
			},
		},
		Payer: &mppreference.PayerRequest{
			Name:  in.PayerName,
			Email: in.PayerEmail,
		},
		BackURLs: &mppreference.BackURLsRequest{
			Success: in.SuccessURL,
			Pending: in.SuccessURL,
			Failure: in.FailureURL,
		},
		AutoReturn:        "approved",
		ExternalReference: in.PurchaseID,
	}

	resp, err := m.preferences.Create(ctx, request)
	if err != nil {
		return "", fmt.Errorf("create mercado pago preference: %w", err)
	}

	return resp.InitPoint, nil
}

// VerifySignature validates the x-signature header using the notification
// manifest scheme: HMAC-SHA256 over "id:<data.id>;request-id:<id>;ts:<ts>;".
func (m *MercadoPagoClient) VerifySignature(signatureHeader, requestID, dataID string) error {
	ts, received := parseSignatureHeader(signatureHeader)
	if ts == "" || received == "" {
		return ErrInvalidSignature
	}

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", strings.ToLower(dataID), requestID, ts)

	mac := hmac.New(sha256.New, []byte(m.webhookSecret))
	mac.Write([]byte(manifest))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(received)) {
		return ErrInvalidSignature
	}

	return nil
}

// LookupOutcome resolves a notification's payment id into an outcome. The
// callback only carries the payment id, so correlation requires fetching the
// payment and reading its external reference.
func (m *MercadoPagoClient) LookupOutcome(ctx context.Context, dataID string) (Outcome, error) {
	paymentID, err := strconv.Atoi(dataID)
	if err != nil {
		return Outcome{Kind: OutcomeOther}, fmt.Errorf("invalid payment id %q: %w", dataID, err)
	}

	resp, err := m.payments.Get(ctx, paymentID)
	if err != nil {
		return Outcome{Kind: OutcomeOther}, fmt.Errorf("fetch payment %d: %w", paymentID, err)
	}

	return Outcome{
		Kind:        outcomeFromStatus(resp.Status),
		PurchaseRef: resp.ExternalReference,
		EventType:   resp.Status,
	}, nil
}

func outcomeFromStatus(status string) OutcomeKind {
	switch status {
	case "approved":
		return OutcomeApproved
	case "rejected", "cancelled":
		return OutcomeRejected
	default:
		return OutcomeOther
	}
}

func parseSignatureHeader(header string) (ts, v1 string) {
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "ts":
			ts = kv[1]
		case "v1":
			v1 = kv[1]
		}
	}
	return ts, v1
}
