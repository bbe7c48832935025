// Package apierrors provides the fixed error taxonomy for Sentra's HTTP
// surface.
//
// Errors Structure:
//   - ErrorCode: stable numeric identifier (e.g. 4000, 2001)
//   - Message: human-readable description
//   - HTTPStatus: status code to write on the response
//   - Diagnostics: optional structured context
//
// Only four error codes exist; they are fixed by the analyze-tool-execution
// contract and never extended per request:
//
//	4000  400  missing api-version query param
//	4001  413  request body exceeds configured limit
//	4002  400  required field missing
//	2001  401  strict-auth mode and bearer token not in allowlist
package apierrors

import "net/http"

// AppError is the wire-level error returned by the HTTP surface.
type AppError struct {
	ErrorCode   int            `json:"errorCode"`
	Message     string         `json:"message"`
	HTTPStatus  int            `json:"httpStatus"`
	Diagnostics map[string]any `json:"diagnostics,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Response is the JSON shape written to the client.
type Response struct {
	ErrorCode   int            `json:"errorCode"`
	Message     string         `json:"message"`
	HTTPStatus  int            `json:"httpStatus"`
	Diagnostics map[string]any `json:"diagnostics,omitempty"`
}

func (e *AppError) ToResponse() Response {
	return Response{
		ErrorCode:   e.ErrorCode,
		Message:     e.Message,
		HTTPStatus:  e.HTTPStatus,
		Diagnostics: e.Diagnostics,
	}
}

const (
	CodeMissingAPIVersion  = 4000
	CodePayloadTooLarge    = 4001
	CodeMissingField       = 4002
	CodeUnauthorizedBearer = 2001
)

// MissingAPIVersion builds the 4000/400 error.
func MissingAPIVersion() *AppError {
	return &AppError{
		ErrorCode:  CodeMissingAPIVersion,
		Message:    "missing required api-version query parameter",
		HTTPStatus: http.StatusBadRequest,
	}
}

// PayloadTooLarge builds the 4001/413 error.
func PayloadTooLarge(maxBytes int64) *AppError {
	return &AppError{
		ErrorCode:  CodePayloadTooLarge,
		Message:    "request body exceeds the configured size limit",
		HTTPStatus: http.StatusRequestEntityTooLarge,
		Diagnostics: map[string]any{
			"maxRequestBytes": maxBytes,
		},
	}
}

// MissingField builds the 4002/400 error for an empty required field.
func MissingField(field string) *AppError {
	return &AppError{
		ErrorCode:  CodeMissingField,
		Message:    field + " is required",
		HTTPStatus: http.StatusBadRequest,
		Diagnostics: map[string]any{
			"field": field,
		},
	}
}

// UnauthorizedBearer builds the 2001/401 error.
func UnauthorizedBearer() *AppError {
	return &AppError{
		ErrorCode:  CodeUnauthorizedBearer,
		Message:    "bearer token is not in the strict-auth allowlist",
		HTTPStatus: http.StatusUnauthorized,
	}
}
