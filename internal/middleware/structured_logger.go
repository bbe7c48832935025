// Package middleware provides HTTP middleware for Sentra's analysis API.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AccessLog returns a Gin middleware that writes one structured access-log
// line per request via the given zerolog logger, tagging it with the
// caller's correlation id and request duration.
func AccessLog(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}

		event = event.
			Str("correlation_id", GetCorrelationID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Int64("duration_ms", duration.Milliseconds()).
			Str("client_ip", c.ClientIP())

		if raw != "" {
			event = event.Str("query", raw)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.Msg("request handled")
	}
}
