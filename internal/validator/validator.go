// Package validator binds and validates incoming analyze-tool-execution
// requests, translating the first validation failure into Sentra's fixed
// errorCode=4002 contract (spec.md §6, §8 "empty userMessage").
package validator

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/N3mes1s/sentra/internal/apierrors"
)

var validate = validator.New()

// BindAndValidate decodes the request body into req and validates its
// struct tags. On failure it writes the 4001 or 4002 error response and
// returns false; callers must return immediately when false is returned.
func BindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.Abort(c, apierrors.PayloadTooLarge(tooLarge.Limit))
			return false
		}
		apierrors.Abort(c, apierrors.MissingField(firstFieldFromBindError(err)))
		return false
	}

	if err := validate.Struct(req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok && len(validationErrs) > 0 {
			apierrors.Abort(c, apierrors.MissingField(strings.ToLower(validationErrs[0].Field())))
			return false
		}
		apierrors.Abort(c, apierrors.MissingField("body"))
		return false
	}

	return true
}

// firstFieldFromBindError has no structured field to report for a
// malformed JSON body; "body" is the closest stand-in for errorCode 4002's
// documented "required field missing" trigger.
func firstFieldFromBindError(err error) string {
	return "body"
}
