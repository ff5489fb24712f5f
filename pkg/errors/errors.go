// Package errors provides structured error handling for the application
// following enterprise patterns for error management and observability.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents an error code
type ErrorCode string

// Common error codes following RESTful API conventions
const (
	// Client errors (4xx)
	CodeBadRequest           ErrorCode = "BAD_REQUEST"
	CodeNotFound             ErrorCode = "NOT_FOUND"
	CodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	CodeUnsupportedMediaType ErrorCode = "UNSUPPORTED_MEDIA_TYPE"

	// Server errors (5xx)
	CodeInternal            ErrorCode = "INTERNAL_ERROR"
	CodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	CodeDatabaseError       ErrorCode = "DATABASE_ERROR"

	// Business logic errors
	CodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	CodeReportNotFound       ErrorCode = "REPORT_NOT_FOUND"
	CodePlanNotFound         ErrorCode = "PLAN_NOT_FOUND"
	CodeModelOutputMalformed ErrorCode = "MODEL_OUTPUT_MALFORMED"
)

// AppError represents an application error with structured information
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeNotFound, CodeUserNotFound, CodeReportNotFound, CodePlanNotFound:
		return http.StatusNotFound
	case CodeUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case CodeUpstreamUnavailable:
		return http.StatusBadGateway
	case CodeModelOutputMalformed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Predefined error constructors for common scenarios

// NewUserNotFoundError creates a user not found error
func NewUserNotFoundError(userID string) *AppError {
	return NewAppError(CodeUserNotFound, "user not found", "").
		WithMetadata("user_id", userID)
}

// NewReportNotFoundError creates a health report not found error
func NewReportNotFoundError(userID string) *AppError {
	return NewAppError(CodeReportNotFound, "health report not found", "").
		WithMetadata("user_id", userID)
}

// NewPlanNotFoundError creates a meal plan not found error
func NewPlanNotFoundError(userID string) *AppError {
	return NewAppError(CodePlanNotFound, "meal plan not found", "").
		WithMetadata("user_id", userID)
}

// NewUpstreamUnavailableError wraps a transport failure against an AI endpoint
func NewUpstreamUnavailableError(service string, cause error) *AppError {
	return NewAppError(CodeUpstreamUnavailable, service+" unavailable", "").
		WithCause(cause)
}

// NewModelOutputMalformedError wraps an unparseable model completion
func NewModelOutputMalformedError(cause error) *AppError {
	return NewAppError(CodeModelOutputMalformed, "model output is not valid JSON", "").
		WithCause(cause)
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "validation failed", details)
}

// NewUnsupportedMediaTypeError creates an unsupported media type error
func NewUnsupportedMediaTypeError(mimeType string) *AppError {
	return NewAppError(CodeUnsupportedMediaType, "unsupported file type", mimeType)
}

// IsCode reports whether err is an AppError carrying the given code
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromError converts any error to an AppError
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewAppError(CodeInternal, "internal error", err.Error()).WithCause(err)
}
