// Package errors provides standardized error handling for backend calls and the prediction workflow.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Transport / backend errors
const (
	ErrCodeBackendUnavailable  ErrorCode = "BACKEND_UNAVAILABLE"
	ErrCodeBackendStatus       ErrorCode = "BACKEND_STATUS"
	ErrCodeBackendDecodeFailed ErrorCode = "BACKEND_DECODE_FAILED"
)

// Workflow errors (missing required fields between steps)
const (
	ErrCodeMissingUserID        ErrorCode = "MISSING_USER_ID"
	ErrCodeMissingApplicationID ErrorCode = "MISSING_APPLICATION_ID"
	ErrCodeMissingRunID         ErrorCode = "MISSING_RUN_ID"
)

// Validation / auth errors
const (
	ErrCodeInvalidApplicationInput ErrorCode = "INVALID_APPLICATION_INPUT"
	ErrCodeAuthenticationFailed    ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeInvalidRequest          ErrorCode = "INVALID_REQUEST"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Operation  string                 `json:"operation,omitempty"`
	StatusCode int                    `json:"statusCode,omitempty"`
	Retryable  bool                   `json:"retryable"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("StandardError[%s] %s: %s", e.Code, e.Operation, e.Message)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying transport error, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value to the error and returns it.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewBackendUnavailableError wraps a transport failure (connection refused, timeout, ...).
func NewBackendUnavailableError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBackendUnavailable,
		Message:   "Backend request failed",
		Details:   err.Error(),
		Operation: operation,
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewBackendStatusError reports a non-2xx response with its status and reason phrase.
func NewBackendStatusError(operation string, statusCode int, reason string) *StandardError {
	if reason == "" {
		reason = http.StatusText(statusCode)
	}
	return &StandardError{
		Code:       ErrCodeBackendStatus,
		Message:    fmt.Sprintf("API Error: %d - %s", statusCode, reason),
		Details:    reason,
		Operation:  operation,
		StatusCode: statusCode,
		Retryable:  statusCode >= http.StatusInternalServerError,
		Timestamp:  time.Now().UTC(),
	}
}

// NewBackendDecodeError reports a 2xx response whose body could not be decoded.
func NewBackendDecodeError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBackendDecodeFailed,
		Message:   "Backend response could not be decoded",
		Details:   err.Error(),
		Operation: operation,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewMissingUserIDError is raised before any backend call when no signed-in user id exists.
func NewMissingUserIDError() *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingUserID,
		Message:   "missing user id",
		Details:   "a signed-in user with a numeric id is required",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingApplicationIDError is raised when create-application returns no id.
func NewMissingApplicationIDError() *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingApplicationID,
		Message:   "missing applicationId",
		Details:   "create-application response did not contain an id",
		Operation: "createApplication",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingRunIDError is raised when run-inference returns no runId.
func NewMissingRunIDError(applicationID int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingRunID,
		Message:   "missing runId",
		Details:   fmt.Sprintf("applicationId: %d", applicationID),
		Operation: "runInference",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidApplicationInputError reports form data rejected before submission.
func NewInvalidApplicationInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidApplicationInput,
		Message:   "Application data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError reports a console request whose body or parameters could not be used.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthenticationFailed,
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// As returns the StandardError in err's chain, if any.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Code == code
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "BACKEND"):
		return "TRANSPORT"
	case strings.HasPrefix(codeStr, "MISSING"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "AUTHENTICATION"):
		return "AUTH"
	default:
		return "OTHER"
	}
}

// HTTPStatus maps an error to the status the console reports to its own callers.
func HTTPStatus(err error) int {
	stdErr, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch stdErr.Code {
	case ErrCodeInvalidApplicationInput, ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeAuthenticationFailed:
		return http.StatusUnauthorized
	case ErrCodeMissingUserID:
		return http.StatusUnauthorized
	case ErrCodeBackendStatus:
		// Client errors from the backend pass through; anything else is a gateway failure.
		if stdErr.StatusCode >= 400 && stdErr.StatusCode < 500 {
			return stdErr.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}
