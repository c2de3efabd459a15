package middleware

import (
	"github.com/gin-gonic/gin"

	"agenthub/internal/ratelimit"
	"agenthub/internal/transport/http/response"
)

// RateLimit rejects requests over quota, keyed by client IP.
func RateLimit(limiter *ratelimit.FixedWindowLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			response.Error(c, 429, response.CodeTooManyRequests, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
