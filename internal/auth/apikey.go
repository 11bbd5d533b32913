// Package auth guards the webhook surface with the single shared API key
// the voice-agent tooling is configured with.
package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const apiKeyHeader = "X-API-Key"
const bearerPrefix = "Bearer "

// RequireAPIKey accepts the key from either "Authorization: Bearer <key>"
// or "X-API-Key: <key>". An empty configured key is a deployment fault and
// reads as 500, never 401.
func RequireAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "API_KEY not configured"})
			return
		}
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if strings.HasPrefix(raw, bearerPrefix) && strings.TrimPrefix(raw, bearerPrefix) == key {
			c.Next()
			return
		}
		if c.GetHeader(apiKeyHeader) == key {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
	}
}
