// Package middleware provides HTTP middleware for Sentra's analysis API.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CorrelationIDHeader is echoed from the caller and attached to every
	// decision record (spec.md §3 EvaluationContext, §6 telemetry schema).
	CorrelationIDHeader = "x-ms-correlation-id"

	// CorrelationIDKey is the Gin context key the correlation id is stored
	// under for downstream handlers.
	CorrelationIDKey = "correlation_id"
)

// CorrelationID middleware extracts the caller-supplied correlation id, if
// any, and stores it for the handler and access logger. Unlike a
// request-tracing id, an absent header means an empty correlationId on the
// decision record (spec.md §3) — Sentra never fabricates one.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		c.Set(CorrelationIDKey, id)
		if id != "" {
			c.Header(CorrelationIDHeader, id)
		}
		c.Next()
	}
}

// GetCorrelationID retrieves the correlation id stored by CorrelationID.
func GetCorrelationID(c *gin.Context) string {
	if v, exists := c.Get(CorrelationIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// internalRequestID is used only to correlate access-log lines for a
// single process; it is independent of the caller-supplied correlation id.
func internalRequestID() string {
	return uuid.New().String()
}
