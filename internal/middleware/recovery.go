package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nfsindex/internal/domain/dto"
	"github.com/guttosm/nfsindex/internal/logger"
	"github.com/guttosm/nfsindex/internal/metrics"
)

// RecoveryMiddleware turns a panic in a later handler into a 500 with a
// standard ErrorResponse. The panic value and stack are logged under the
// request id and the panic is counted in nfsindex_panics_recovered_total.
// The panic value is not echoed to the client.
//
// Example:
//
//	router := gin.New()
//	router.Use(middleware.RequestID(), middleware.RecoveryMiddleware())
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				recovered(c, r)
			}
		}()

		c.Next()
	}
}

func recovered(c *gin.Context, r any) {
	metrics.PanicsRecoveredTotal.Inc()

	log := logger.Component("http")
	log.Error().
		Str("request_id", RequestIDFrom(c)).
		Str("method", c.Request.Method).
		Str("route", c.FullPath()).
		Str("panic", fmt.Sprint(r)).
		Bytes("stack", debug.Stack()).
		Msg("panic recovered")

	if c.Writer.Written() {
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", nil))
}
