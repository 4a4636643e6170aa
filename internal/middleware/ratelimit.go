package middleware

import (
	"log"
	"net/http"
	"strconv"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/limiter"
	"github.com/gin-gonic/gin"
)

// RateLimit rejects a client that exceeded its budget for action. When the
// limiter itself fails the request goes through.
func RateLimit(l *limiter.Limiter, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		result, err := l.Check(c.Request.Context(), c.ClientIP(), action)
		if err != nil {
			log.Printf("Warning: rate limit check failed for %s: %v", action, err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "Rate limit exceeded. Please try again later.",
				"code":    "RATE_LIMIT_EXCEEDED",
				"resetAt": result.ResetAt,
			})
			return
		}

		c.Next()
	}
}
