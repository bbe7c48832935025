package apierrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Abort writes the AppError as the response body and aborts the gin chain.
func Abort(c *gin.Context, err *AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
}

// Recovery converts a panic anywhere downstream into a 500 AppError instead
// of letting it escape as a raw 5xx. Sentra's pipeline already converts
// plugin panics to an Allow outcome (spec.md §4.6); this middleware is the
// last-resort net around the HTTP layer itself (request decoding, routing).
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", c.Request.URL.Path).Msg("panic recovered in http layer")
				c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
					ErrorCode:  5000,
					Message:    "internal server error",
					HTTPStatus: http.StatusInternalServerError,
				})
			}
		}()
		c.Next()
	}
}
