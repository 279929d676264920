package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Payload carries the endpoint-specific keys merged into the response envelope.
type Payload map[string]interface{}

// Success writes the standard `{success: true, message?, ...payload}` envelope.
func Success(c *gin.Context, status int, message string, payload Payload) {
	out := gin.H{"success": true}
	if message != "" {
		out["message"] = message
	}
	for key, value := range payload {
		out[key] = value
	}
	c.JSON(status, out)
}

// OK is a convenience helper for 200 responses.
func OK(c *gin.Context, message string, payload Payload) {
	Success(c, http.StatusOK, message, payload)
}

// Created is a convenience helper for POST 201 responses.
func Created(c *gin.Context, message string, payload Payload) {
	Success(c, http.StatusCreated, message, payload)
}

// Error writes the `{success: false, message}` envelope.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// ErrorWithLog writes an error response and logs the underlying error via slog.
func ErrorWithLog(logger *slog.Logger, c *gin.Context, status int, message string, err error) {
	if logger != nil && err != nil {
		logger.ErrorContext(c.Request.Context(), message,
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}

	Error(c, status, message)
}
