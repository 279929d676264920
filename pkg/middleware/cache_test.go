package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"

	"github.com/edumart/server-go/pkg/cache"
)

func newCacheTestRouter(t *testing.T, hits *int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client, err := cache.New(mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	router := gin.New()
	router.Use(ResponseCache(client, time.Minute))
	handler := func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusOK, gin.H{"hits": *hits})
	}
	router.GET("/api/course", handler)
	router.POST("/api/course", handler)
	return router
}

func TestResponseCacheServesRepeatReads(t *testing.T) {
	var hits int
	router := newCacheTestRouter(t, &hits)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/course", nil))
	if first.Header().Get("X-Cache") != "MISS" {
		t.Errorf("first request X-Cache = %q, want MISS", first.Header().Get("X-Cache"))
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/course", nil))
	if second.Header().Get("X-Cache") != "HIT" {
		t.Errorf("second request X-Cache = %q, want HIT", second.Header().Get("X-Cache"))
	}

	if hits != 1 {
		t.Errorf("handler ran %d times, want 1", hits)
	}

	if first.Body.String() != second.Body.String() {
		t.Errorf("cached body differs: %q vs %q", first.Body.String(), second.Body.String())
	}
}

func TestResponseCacheKeysIncludeQuery(t *testing.T) {
	var hits int
	router := newCacheTestRouter(t, &hits)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/course?page=1", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/course?page=2", nil))

	if hits != 2 {
		t.Errorf("handler ran %d times, want 2 (distinct queries must not share entries)", hits)
	}
}

func TestResponseCacheIgnoresWrites(t *testing.T) {
	var hits int
	router := newCacheTestRouter(t, &hits)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/course", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/course", nil))

	if hits != 2 {
		t.Errorf("handler ran %d times, want 2 (POST must never be cached)", hits)
	}
}
