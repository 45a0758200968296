// Package errors defines the error taxonomy every handler renders. Services
// return *AppError values; anything else reaching a handler is treated as an
// internal failure whose cause is logged but never shown to the client.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeTooLarge         = "REQUEST_TOO_LARGE"
	CodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL_ERROR"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
	CodeTimeout          = "TIMEOUT"
)

var statusByCode = map[string]int{
	CodeValidation:       http.StatusUnprocessableEntity,
	CodeInvalidInput:     http.StatusBadRequest,
	CodeUnauthorized:     http.StatusUnauthorized,
	CodeForbidden:        http.StatusForbidden,
	CodeNotFound:         http.StatusNotFound,
	CodeConflict:         http.StatusConflict,
	CodeTooLarge:         http.StatusRequestEntityTooLarge,
	CodeUnsupportedMedia: http.StatusUnsupportedMediaType,
	CodeRateLimited:      http.StatusTooManyRequests,
	CodeInternal:         http.StatusInternalServerError,
	CodeUnavailable:      http.StatusServiceUnavailable,
	CodeTimeout:          http.StatusGatewayTimeout,
}

// AppError carries a code, an English fallback message and optionally a
// locale key. Message is for logs; clients see the localized key when set.
type AppError struct {
	Code       string
	Message    string
	MessageKey string
	Args       []any
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func newError(code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: statusByCode[code]}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

// WithKey selects the localized message and its format arguments.
func (e *AppError) WithKey(key string, args ...any) *AppError {
	e.MessageKey = key
	e.Args = args
	return e
}

func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// Validation is a form-level refusal; details usually echo the form back.
func Validation(message string, details map[string]any) *AppError {
	e := newError(CodeValidation, message)
	e.Details = details
	return e
}

// InvalidInput covers malformed bodies, query parameters and IDs.
func InvalidInput(message string) *AppError {
	return newError(CodeInvalidInput, message)
}

func Unauthorized(message string) *AppError {
	return newError(CodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return newError(CodeForbidden, message)
}

func NotFound(resource string) *AppError {
	return newError(CodeNotFound, resource+" not found")
}

func NotFoundWithID(resource, id string) *AppError {
	return NotFound(resource).WithDetail("id", id)
}

// Conflict refuses a request the current state does not allow: a duplicate
// student ID, outstanding overdue days, or an invalid status transition.
func Conflict(message string) *AppError {
	return newError(CodeConflict, message)
}

func TooLarge(limit int64) *AppError {
	return newError(CodeTooLarge, fmt.Sprintf("request body exceeds %d bytes", limit))
}

func UnsupportedMediaType(contentType string) *AppError {
	return newError(CodeUnsupportedMedia, fmt.Sprintf("unsupported content type %q", contentType))
}

func RateLimited(message string) *AppError {
	return newError(CodeRateLimited, message)
}

func Internal(message string, err error) *AppError {
	e := newError(CodeInternal, message)
	e.Err = err
	return e
}

func Unavailable(service string) *AppError {
	return newError(CodeUnavailable, service+" is temporarily unavailable")
}

func Timeout(message string) *AppError {
	return newError(CodeTimeout, message)
}

// AsAppError finds the AppError in err's chain. Any other error becomes an
// Internal error so its cause stays server-side.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal("unexpected error", err)
}
