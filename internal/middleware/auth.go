package middleware

import (
	"errors"
	"net/http"
	"strings"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/edumart/server-go/pkg/apperrors"
	"github.com/edumart/server-go/pkg/identity"
	"github.com/edumart/server-go/pkg/response"
)

const userIDKey = "userId"

// AuthMiddleware validates the Bearer session token against the identity
// provider and stores the caller's user id in the context. The header is
// checked before anything else runs, so unauthenticated requests never
// touch the identity provider or the store.
func AuthMiddleware(verifier *identity.Client, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.ErrorWithLog(logger, c, http.StatusUnauthorized, "No token provided", nil)
			c.Abort()
			return
		}

		userID, err := verifier.VerifySessionToken(c.Request.Context(), token)
		if err != nil {
			status, message := http.StatusUnauthorized, "Invalid token"
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				status, message = appErr.StatusCode(), appErr.Message()
			}
			response.ErrorWithLog(logger, c, status, message, err)
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// RequireEducator authorizes the caller by role. It must run after
// AuthMiddleware.
func RequireEducator(verifier *identity.Client, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.ErrorWithLog(logger, c, http.StatusUnauthorized, "Authentication required.", nil)
			c.Abort()
			return
		}

		role, err := verifier.Role(c.Request.Context(), userID)
		if err != nil {
			response.ErrorWithLog(logger, c, http.StatusInternalServerError, "failed to resolve user role", err)
			c.Abort()
			return
		}

		if role != identity.RoleEducator {
			response.ErrorWithLog(logger, c, http.StatusForbidden, "Access denied: Educator role required.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserID retrieves the authenticated user id from the Gin context.
func GetUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}

	id, ok := value.(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}

	return token, true
}
