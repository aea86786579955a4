package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError describes one invalid request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors groups field errors of one request
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// New creates a new APIError
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeMissingParameter = "MISSING_PARAMETER"
	CodeNotFound         = "NOT_FOUND"
	CodeParseError       = "PARSE_ERROR"
	CodeMissingColumn    = "MISSING_COLUMN"
	CodeNoDataLoaded     = "NO_DATA_LOADED"
	CodeNonNumericColumn = "NON_NUMERIC_COLUMN"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// Predefined errors
var (
	ErrInvalidRequest     = New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")
	ErrValidationFailed   = New(http.StatusBadRequest, CodeValidationFailed, "Request validation failed")
	ErrMissingParameter   = New(http.StatusBadRequest, CodeMissingParameter, "Required parameter is missing")
	ErrNotFound           = New(http.StatusNotFound, CodeNotFound, "Resource not found")
	ErrRateLimitExceeded  = New(http.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded")
	ErrPayloadTooLarge    = New(http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "The uploaded file exceeds the maximum allowed size")
	ErrInternalServer     = New(http.StatusInternalServerError, CodeInternal, "Internal server error")
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeUnavailable, "Service temporarily unavailable")
)

// InvalidRequestWithError creates an invalid request error carrying err's text
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation creates a validation error for a single field
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// NewValidationErrors creates a validation error for several fields
func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errs},
	)
}

// MissingParameter creates an error naming the absent parameter
func MissingParameter(name string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeMissingParameter,
		fmt.Sprintf("Required parameter %q is missing", name), name)
}

// NotFoundError creates a not found error for resource
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource), resource)
}

// PanicRecovery carries recovered panic information
type PanicRecovery struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// ErrPanic creates an internal error for a recovered panic
func ErrPanic(rec interface{}) *APIError {
	return NewWithDetails(
		http.StatusInternalServerError,
		CodeInternal,
		"Internal server error",
		PanicRecovery{Message: fmt.Sprintf("%v", rec)},
	)
}
