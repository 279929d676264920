package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/edumart/server-go/pkg/identity"
)

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.GET("/protected",
		AuthMiddleware(identity.New("sk_test_key"), logger),
		func(c *gin.Context) {
			userID, _ := GetUserID(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID})
		},
	)
	return router
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	router := newAuthTestRouter()

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"empty bearer", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestAuthMiddlewareRejectsMalformedToken(t *testing.T) {
	router := newAuthTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, ok := GetUserID(c); ok {
		t.Error("expected no user id on a fresh context")
	}

	c.Set("userId", "user_2abc")
	id, ok := GetUserID(c)
	if !ok || id != "user_2abc" {
		t.Errorf("GetUserID = %q, %v", id, ok)
	}
}
