package middleware

import (
	"crypto/subtle"

	"courtyard/internal/api/config"
	"courtyard/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// JobSecretMiddleware guards the scheduled-job and reporting surfaces. Two
// credential styles are accepted: a normal bearer session (handled by the
// auth middleware upstream) or, when enabled in config, the shared secret
// in the X-Job-Secret header for headless schedulers.
func JobSecretMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// A logged-in session already passed the auth middleware.
		if uid, ok := c.Get("user_id"); ok {
			if id, ok := uid.(uint64); ok && id != 0 {
				c.Next()
				return
			}
		}

		cfg := config.Cfg
		if cfg == nil || !cfg.Auth.AllowJobSecret || cfg.Auth.JobSecret == "" {
			response.Fail(c, response.Unauthorized, "missing or malformed token")
			c.Abort()
			return
		}

		secret := c.GetHeader("X-Job-Secret")
		if subtle.ConstantTimeCompare([]byte(secret), []byte(cfg.Auth.JobSecret)) != 1 {
			response.Fail(c, response.Unauthorized, "missing or malformed token")
			c.Abort()
			return
		}

		c.Next()
	}
}
