// Package middleware provides HTTP middleware for Sentra's analysis API.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/N3mes1s/sentra/internal/apierrors"
)

// StrictAuth enforces the bearer-token allowlist described in spec.md §6
// (errorCode 2001): when enabled, a caller must present
// "Authorization: Bearer <token>" with a token present in allowedTokens.
// When disabled (the non-strict default), the middleware is a no-op — the
// collaborator is trusted to have already authenticated the caller.
func StrictAuth(enabled bool, allowedTokens []string) gin.HandlerFunc {
	allow := make(map[string]bool, len(allowedTokens))
	for _, t := range allowedTokens {
		allow[t] = true
	}

	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" || !allow[token] {
			apierrors.Abort(c, apierrors.UnauthorizedBearer())
			return
		}
		c.Next()
	}
}
