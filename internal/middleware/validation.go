package middleware

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/errors"
)

// Validator decodes request payloads and checks their struct tags
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a validator that reports fields by their JSON names
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{
		validate: v,
		logger:   logger.With(slog.String("component", "validator")),
	}
}

// ValidateStruct validates v and returns an *apierrors.APIError listing every
// failed field
func (m *Validator) ValidateStruct(v interface{}) error {
	err := m.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// DecodeJSON reads a JSON body into v and validates it
func (m *Validator) DecodeJSON(r *http.Request, v interface{}) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return apierrors.New(http.StatusBadRequest, apierrors.CodeInvalidRequest, "Request body is empty")
		}
		m.logger.DebugContext(r.Context(), "malformed JSON body", slog.String("error", err.Error()))
		return apierrors.InvalidRequestWithError(err)
	}
	return m.ValidateStruct(v)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// ContentTypeValidator ensures request bodies declare one of contentTypes
func ContentTypeValidator(errorHandler *apierrors.ErrorHandler, contentTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodDelete || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			for _, allowed := range contentTypes {
				if strings.HasPrefix(contentType, allowed) {
					next.ServeHTTP(w, r)
					return
				}
			}

			errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusUnsupportedMediaType,
				apierrors.CodeInvalidRequest,
				"Unsupported content type",
				map[string]interface{}{
					"content_type": contentType,
					"allowed":      contentTypes,
				},
			))
		})
	}
}

// QueryInt parses an integer query parameter bounded by [min, max]
func QueryInt(r *http.Request, param string, min, max, defaultValue int) (int, error) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, apierrors.ErrValidation(param, fmt.Sprintf("%s must be a valid integer", param))
	}
	if n < min || n > max {
		return 0, apierrors.ErrValidation(param, fmt.Sprintf("%s must be between %d and %d", param, min, max))
	}
	return n, nil
}

// QueryEnum returns a query parameter constrained to allowed values
func QueryEnum(r *http.Request, param string, allowed []string, defaultValue string) (string, error) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue, nil
	}
	for _, a := range allowed {
		if value == a {
			return value, nil
		}
	}
	return "", apierrors.ErrValidation(param, fmt.Sprintf("%s must be one of: %s", param, strings.Join(allowed, ", ")))
}
