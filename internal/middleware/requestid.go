package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// RequestID tags every request with a UUID, stored in the gin context under
// RequestIDKey and echoed in the X-Request-ID response header. A well-formed
// UUID supplied by the caller is kept so ids can be correlated across the
// dashboard client and this service; anything else is replaced.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDFrom returns the id set by RequestID, or "" when the middleware
// did not run.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
