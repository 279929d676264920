package purchase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edumart/server-go/internal/features/course"
	"github.com/edumart/server-go/internal/features/user"
	"github.com/edumart/server-go/pkg/payments"
	"github.com/edumart/server-go/pkg/types"
)

type stubProvider struct {
	url  string
	err  error
	last payments.CheckoutInput
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) CreateCheckoutSession(_ context.Context, in payments.CheckoutInput) (string, error) {
	s.last = in
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

func newCheckoutRouter(t *testing.T, db *gorm.DB, provider payments.Provider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(db, logger, provider, types.CurrencyUSD, "https://app.example.com")

	router := gin.New()
	router.POST("/api/user/purchase", func(c *gin.Context) {
		c.Set("userId", "user_1")
	}, handler.Create)
	return router
}

func seedBuyer(t *testing.T, db *gorm.DB) {
	t.Helper()

	if err := user.Upsert(db, user.User{
		ID:    "user_1",
		Email: "buyer@example.com",
		Name:  "Buyer One",
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func postPurchase(router *gin.Engine, courseID string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"courseId": courseID})
	req := httptest.NewRequest(http.MethodPost, "/api/user/purchase", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateCheckoutReturnsURL(t *testing.T) {
	db := newTestDB(t)
	seedBuyer(t, db)
	c := seedCourse(t, db)

	provider := &stubProvider{url: "https://pay.example.com/session/cs_1"}
	router := newCheckoutRouter(t, db, provider)

	rec := postPurchase(router, c.ID.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got := resp["checkoutUrl"]; got != provider.url {
		t.Errorf("checkoutUrl = %v, want %q", got, provider.url)
	}

	// 100 at 25% off.
	if got := provider.last.Amount.String(); got != "75" {
		t.Errorf("charged amount = %s, want 75", got)
	}

	purchaseID, err := uuid.Parse(provider.last.PurchaseID)
	if err != nil {
		t.Fatalf("provider received purchase ref %q: %v", provider.last.PurchaseID, err)
	}
	p, err := Get(db, purchaseID)
	if err != nil {
		t.Fatalf("load purchase: %v", err)
	}
	if p.Status != types.PurchaseStatusPending {
		t.Errorf("purchase status = %q, want pending until the webhook settles it", p.Status)
	}
}

func TestCreateCheckoutAlreadyEnrolled(t *testing.T) {
	db := newTestDB(t)
	seedBuyer(t, db)
	c := seedCourse(t, db)
	if err := course.Enroll(db, c.ID, "user_1"); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	router := newCheckoutRouter(t, db, &stubProvider{url: "https://pay.example.com/s"})

	rec := postPurchase(router, c.ID.String())
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for an already enrolled buyer", rec.Code)
	}
}

func TestCreateCheckoutUnpublishedCourse(t *testing.T) {
	db := newTestDB(t)
	seedBuyer(t, db)
	c := seedCourse(t, db)
	if err := db.Model(&course.Course{}).
		Where("id = ?", c.ID).
		Update("is_published", false).Error; err != nil {
		t.Fatalf("unpublish: %v", err)
	}

	router := newCheckoutRouter(t, db, &stubProvider{url: "https://pay.example.com/s"})

	rec := postPurchase(router, c.ID.String())
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for an unpublished course", rec.Code)
	}
}

func TestCreateCheckoutUnknownCourse(t *testing.T) {
	db := newTestDB(t)
	seedBuyer(t, db)

	router := newCheckoutRouter(t, db, &stubProvider{url: "https://pay.example.com/s"})

	rec := postPurchase(router, uuid.NewString())
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCreateCheckoutProviderFailure(t *testing.T) {
	db := newTestDB(t)
	seedBuyer(t, db)
	c := seedCourse(t, db)

	provider := &stubProvider{err: errors.New("gateway unavailable")}
	router := newCheckoutRouter(t, db, provider)

	rec := postPurchase(router, c.ID.String())
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 on provider failure", rec.Code)
	}

	// The dangling pending row must be closed out.
	var purchases []Purchase
	if err := db.Find(&purchases).Error; err != nil {
		t.Fatalf("list purchases: %v", err)
	}
	if len(purchases) != 1 {
		t.Fatalf("purchase rows = %d, want 1", len(purchases))
	}
	if purchases[0].Status != types.PurchaseStatusFailed {
		t.Errorf("purchase status = %q, want failed", purchases[0].Status)
	}
}
