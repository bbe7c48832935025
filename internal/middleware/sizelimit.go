package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/N3mes1s/sentra/internal/apierrors"
)

// RequestSizeLimiter enforces maxRequestBytes (spec.md §6 configuration
// record): a Content-Length above the ceiling is rejected immediately with
// errorCode 4001, and the body is additionally wrapped in a LimitReader so
// a lying or absent Content-Length cannot bypass the check. A request
// exactly at the ceiling is accepted; one byte over is rejected, matching
// the boundary test in spec.md §8.
func RequestSizeLimiter(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxSize {
			apierrors.Abort(c, apierrors.PayloadTooLarge(maxSize))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
