package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// DefaultRequestTimeout applies when Timeout is given a non-positive duration.
const DefaultRequestTimeout = 10 * time.Second

// Timeout bounds every request context by d. Upstream calls and db queries
// made with c.Request.Context() give up when it expires; the api layer maps
// the resulting context.DeadlineExceeded to 504.
func Timeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		d = DefaultRequestTimeout
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
