package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nfsindex/internal/logger"
	"github.com/rs/zerolog"
)

// RequestLogger emits one "http_request" line per request on the "http"
// component logger. 5xx responses log at error level and 4xx at warn. Errors
// attached with c.Error are carried in the "errors" field.
//
// Register it after RequestID so request_id is populated:
//
//	router.Use(middleware.RequestID(), middleware.RequestLogger())
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		ev := levelFor(logger.Component("http"), status)
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("request_id", RequestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("route", c.FullPath()).
			Int("status", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("http_request")
	}
}

func levelFor(log zerolog.Logger, status int) *zerolog.Event {
	switch {
	case status >= 500:
		return log.Error()
	case status >= 400:
		return log.Warn()
	default:
		return log.Info()
	}
}
