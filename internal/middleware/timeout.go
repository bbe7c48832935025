package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Timeout aborts a request with 408 if it runs longer than d. This is
// independent of the pipeline's own soft pluginBudgetMs (spec.md §4.2): it
// bounds the whole HTTP round trip, including middleware and the telemetry
// write.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		finished := make(chan struct{})
		go func() {
			c.Next()
			close(finished)
		}()

		select {
		case <-finished:
		case <-ctx.Done():
			c.AbortWithStatusJSON(http.StatusRequestTimeout, gin.H{
				"error":   "request timeout",
				"timeout": d.String(),
			})
		}
	}
}
