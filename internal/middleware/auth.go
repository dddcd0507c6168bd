// Package middleware provides shared HTTP middleware.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stream-new/clip-moderation-go/pkg/logger"
)

const headerModeratorSecret = "X-Moderator-Secret"

// ModeratorAuth guards moderator-only endpoints (asset deletion, playback
// disable) with an out-of-band shared secret.
type ModeratorAuth struct {
	secret string
}

// NewModeratorAuth creates the middleware. With an empty secret every
// request is rejected: an unconfigured deployment must fail closed.
func NewModeratorAuth(secret string) *ModeratorAuth {
	return &ModeratorAuth{secret: secret}
}

// Middleware validates the shared secret header with a constant-time
// comparison and aborts with 401 when absent or mismatched.
func (a *ModeratorAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(headerModeratorSecret)

		if !a.isValid(provided) {
			logger.Log.Warn("unauthorized moderator request",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.String("remote_addr", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}

func (a *ModeratorAuth) isValid(provided string) bool {
	if a.secret == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(a.secret)) == 1
}
