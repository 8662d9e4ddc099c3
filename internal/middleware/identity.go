package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// userIDKey is the key used to store the caller's user ID in the context.
const userIDKey = contextKey("userID")

// userIDHeader is set by the authentication gateway in front of this
// service. Authentication itself happens outside this core; we only trust
// the propagated identity.
const userIDHeader = "X-User-ID"

// GatewayIdentity creates a Gin middleware that requires the gateway
// identity header and stores it in the request context.
func GatewayIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			logger.Warn("Identity header missing", slog.String("header", userIDHeader))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "caller identity required"})
			return
		}

		// Store the user ID and an enriched logger in the standard context
		ctxWithUser := context.WithValue(c.Request.Context(), userIDKey, userID)
		enrichedLogger := logger.With(slog.String("user_id", userID))
		ctxWithLoggerAndUser := context.WithValue(ctxWithUser, loggerCtxKey, enrichedLogger)

		c.Request = c.Request.WithContext(ctxWithLoggerAndUser)
		c.Next()
	}
}

// GetUserIDFromContext retrieves the caller's user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal := c.Request.Context().Value(userIDKey)
	if userIDVal == nil {
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}
