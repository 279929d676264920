package webhook

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"
)

func TestClerkUserDataEmail(t *testing.T) {
	data := clerkUserData{
		PrimaryEmailAddressID: "idn_2",
		EmailAddresses: []struct {
			ID           string `json:"id"`
			EmailAddress string `json:"email_address"`
		}{
			{ID: "idn_1", EmailAddress: "old@example.com"},
			{ID: "idn_2", EmailAddress: "primary@example.com"},
		},
	}

	if got := data.email(); got != "primary@example.com" {
		t.Errorf("email() = %q, want primary address", got)
	}

	data.PrimaryEmailAddressID = "idn_unknown"
	if got := data.email(); got != "old@example.com" {
		t.Errorf("email() = %q, want first address as fallback", got)
	}

	data.EmailAddresses = nil
	if got := data.email(); got != "" {
		t.Errorf("email() = %q, want empty", got)
	}
}

func TestClerkUserDataFullName(t *testing.T) {
	tests := []struct {
		first, last, username, want string
	}{
		{"Ada", "Lovelace", "ada", "Ada Lovelace"},
		{"Ada", "", "", "Ada"},
		{"", "Lovelace", "", "Lovelace"},
		{"", "", "ada_l", "ada_l"},
		{"", "", "", "New User"},
	}

	for _, tt := range tests {
		data := clerkUserData{FirstName: tt.first, LastName: tt.last, Username: tt.username}
		if got := data.fullName(); got != tt.want {
			t.Errorf("fullName(%q, %q, %q) = %q, want %q", tt.first, tt.last, tt.username, got, tt.want)
		}
	}
}

func TestClerkRejectsUnsignedDelivery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	verifier, err := svix.NewWebhook("whsec_C2FVsBQIhrscChlQIMV+b5sSYspob7oD")
	if err != nil {
		t.Fatalf("svix.NewWebhook: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(nil, logger, nil, nil, verifier)

	router := gin.New()
	RegisterRoutes(router, handler)

	body := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unsigned delivery", rec.Code)
	}
}
