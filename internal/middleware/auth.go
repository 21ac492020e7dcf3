package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/masteryhouse/mastery-house-api/pkg/logger"
)

// AdminAuthMiddleware guards the admin listing endpoints with a single shared
// bearer token. With no token configured every request is rejected, which is
// the safe failure mode for a misconfigured deployment.
func AdminAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

		if apiKey == "" || token == "" || !timingSafeCompare(token, apiKey) {
			logger.Warn("Admin authorization failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// timingSafeCompare compares two secrets in constant time. Hashing first
// keeps the comparison length-independent.
func timingSafeCompare(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}
