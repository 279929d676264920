package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edumart/server-go/pkg/cache"
)

// CatalogCacheKeyPrefix namespaces cached catalog responses so writes can
// invalidate them as a group.
const CatalogCacheKeyPrefix = "catalog:"

type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache serves GET responses from redis for the configured TTL.
// Only 200 responses are stored; with caching disabled it is a pass-through.
func ResponseCache(client *cache.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || !client.Enabled() {
			c.Next()
			return
		}

		key := CatalogCacheKeyPrefix + c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			key += "?" + raw
		}

		if cached, err := client.Get(c.Request.Context(), key); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			c.Abort()
			return
		}

		writer := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		c.Next()

		if c.Writer.Status() == http.StatusOK && writer.body.Len() > 0 {
			_ = client.Set(c.Request.Context(), key, writer.body.String(), ttl)
		}
	}
}
