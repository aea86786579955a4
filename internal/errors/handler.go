package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/dataprocessing"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/forecast"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/services"
)

// Problem types following RFC 7807
const (
	TypeValidation      = "/errors/validation"
	TypeNotFound        = "/errors/not-found"
	TypeRateLimit       = "/errors/rate-limit"
	TypeInternal        = "/errors/internal"
	TypeServiceDown     = "/errors/service-unavailable"
	TypeTimeout         = "/errors/timeout"
	TypeMethod          = "/errors/method-not-allowed"
	TypePayloadTooLarge = "/errors/payload-too-large"
)

// Dashboard problem types
const (
	TypeParse         = "/errors/data/parse"
	TypeMissingColumn = "/errors/data/missing-column"
	TypeNotLoaded     = "/errors/data/not-loaded"
)

// ErrorHandler converts errors into problem responses and logs them
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	h.HandleErrorWithExtensions(w, r, err, nil)
}

// HandleErrorWithExtensions responds like HandleError and adds ext to the
// problem body. trace_id and stack are set last and cannot be overridden.
func (h *ErrorHandler) HandleErrorWithExtensions(w http.ResponseWriter, r *http.Request, err error, ext map[string]interface{}) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	problem := h.ErrorToProblem(err, r)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	for k, v := range ext {
		problem.WithExtension(k, v)
	}
	problem.WithExtension("trace_id", reqID)
	if h.includeStack && problem.Status >= http.StatusInternalServerError {
		problem.WithExtension("stack", getStackTrace())
	}

	writeProblem(w, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	path := r.URL.Path

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			path,
		)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, r)
	}

	if problem := domainProblem(err, path); problem != nil {
		return problem
	}

	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing your request",
		path,
	)
}

// domainProblem maps dashboard errors, or returns nil for unknown errors
func domainProblem(err error, path string) *ProblemDetails {
	var (
		parseErr   *dataprocessing.ParseError
		missingErr *dataprocessing.MissingColumnError
		maxErr     *http.MaxBytesError
	)

	switch {
	case errors.As(err, &maxErr):
		return NewProblemDetails(
			http.StatusRequestEntityTooLarge,
			TypePayloadTooLarge,
			"Payload Too Large",
			fmt.Sprintf("The uploaded file exceeds the maximum allowed size of %d bytes", maxErr.Limit),
			path,
		).WithExtension("error_code", CodePayloadTooLarge)

	case errors.As(err, &parseErr):
		problem := NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeParse,
			"Unreadable CSV",
			parseErr.Error(),
			path,
		).WithExtension("error_code", CodeParseError)
		if parseErr.Line > 0 {
			problem.WithExtension("line", parseErr.Line)
		}
		return problem

	case errors.Is(err, services.ErrNoDataLoaded):
		return NewProblemDetails(
			http.StatusConflict,
			TypeNotLoaded,
			"No Data Loaded",
			"Please upload Bitcoin data first on the 'Upload Data' page.",
			path,
		).WithExtension("error_code", CodeNoDataLoaded)

	case errors.Is(err, forecast.ErrNoDateColumn) && errors.As(err, &missingErr):
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeMissingColumn,
			"Missing Column",
			fmt.Sprintf("No '%s' column found in the dataset.", missingErr.Column),
			path,
		).WithExtension("error_code", CodeMissingColumn).
			WithExtension("column", missingErr.Column)

	case errors.As(err, &missingErr):
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeMissingColumn,
			"Missing Column",
			fmt.Sprintf("Column '%s' not found in the dataset.", missingErr.Column),
			path,
		).WithExtension("error_code", CodeMissingColumn).
			WithExtension("column", missingErr.Column)

	case errors.Is(err, forecast.ErrNonNumericColumn):
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeValidation,
			"Non-numeric Column",
			err.Error(),
			path,
		).WithExtension("error_code", CodeNonNumericColumn)

	case errors.Is(err, forecast.ErrInvalidInput):
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeValidation,
			"Validation Failed",
			err.Error(),
			path,
		).WithExtension("error_code", CodeValidationFailed)

	case errors.Is(err, services.ErrUnknownDataset),
		errors.Is(err, services.ErrUnsupportedFormat),
		errors.Is(err, services.ErrNoFiles):
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeValidation,
			"Bad Request",
			err.Error(),
			path,
		).WithExtension("error_code", CodeInvalidRequest)
	}

	return nil
}

// apiErrorToProblem converts APIError to ProblemDetails
func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case CodeInvalidRequest, CodeValidationFailed, CodeMissingParameter, CodeNonNumericColumn:
		problemType = TypeValidation
	case CodeNotFound:
		problemType = TypeNotFound
	case CodeParseError:
		problemType = TypeParse
	case CodeMissingColumn:
		problemType = TypeMissingColumn
	case CodeNoDataLoaded:
		problemType = TypeNotLoaded
	case CodePayloadTooLarge:
		problemType = TypePayloadTooLarge
	case CodeRateLimited:
		problemType = TypeRateLimit
	case CodeUnavailable:
		problemType = TypeServiceDown
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		r.URL.Path,
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}

	return problem
}

// HandlePanic logs a recovered panic and responds with a 500 problem
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	).WithExtension("trace_id", reqID)

	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", getStackTrace())
	}

	writeProblem(w, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeNotFound,
		"Not Found",
		"The requested resource was not found",
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	writeProblem(w, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeMethod,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	writeProblem(w, problem)
}

func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
