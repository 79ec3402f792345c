package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-wardlow/tt/internal/infrastructure/ratelimit"
	"github.com/noah-wardlow/tt/pkg/response"
)

// RateLimit throttles by client IP. A limiter error fails open: throttling
// is protection, not a dependency.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		allowed, err := limiter.Allow(c.Request.Context(), "ip:"+c.ClientIP())
		if err == nil && !allowed {
			response.TooManyRequests(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
