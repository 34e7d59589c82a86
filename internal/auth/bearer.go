// Package auth provides the static bearer-token middleware guarding the API.
package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Returns "" when the header is absent or not a bearer scheme.
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// TokenMiddleware rejects requests whose bearer token does not match the
// server-configured secret. Failed attempts are logged with request metadata
// for audit.
func TokenMiddleware(apiToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Unauthenticated. API token is required.",
			})
			return
		}

		if apiToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(apiToken)) != 1 {
			slog.Warn("API authentication failed: invalid token",
				"ip", c.ClientIP(),
				"url", c.Request.URL.String(),
				"method", c.Request.Method,
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Unauthenticated. Invalid API token.",
			})
			return
		}

		c.Next()
	}
}
