package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nfsindex/internal/metrics"
)

// Metrics records request count and latency per matched route. Unmatched
// requests are grouped under "unmatched" to keep label cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
