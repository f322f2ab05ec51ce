// Package errors provides standardized error handling for the registration service.
package errors

import (
	"errors"
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

const (
	ErrCodeValidationFailed        ErrorCode = "VALIDATION_FAILED"
	ErrCodeDraftCorrupt            ErrorCode = "DRAFT_CORRUPT"
	ErrCodeDraftStorageUnavailable ErrorCode = "DRAFT_STORAGE_UNAVAILABLE"

	ErrCodeSubmissionNetworkFailed ErrorCode = "SUBMISSION_NETWORK_FAILED"
	ErrCodeSubmissionRejected      ErrorCode = "SUBMISSION_REJECTED"
	ErrCodeProxyForwardFailed      ErrorCode = "PROXY_FORWARD_FAILED"

	ErrCodeImageRejected     ErrorCode = "IMAGE_REJECTED"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// GenericSubmitFailure is the message shown whenever a submission fails
// without a server-provided reason.
const GenericSubmitFailure = "Failed to submit form"

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns e with key set in its metadata.
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

// NewValidationFailedError creates a non-retryable step validation error.
func NewValidationFailedError(step int, fieldCount int) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Step validation failed",
		Details:   fmt.Sprintf("step: %d, fields: %d", step, fieldCount),
		Retryable: false,
		Metadata:  map[string]interface{}{"step": step},
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftCorruptError is logged when a stored draft cannot be decoded.
func NewDraftCorruptError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftCorrupt,
		Message:   "Stored draft is corrupt and was discarded",
		Details:   fmt.Sprintf("key: %s, error: %v", key, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDraftStorageUnavailableError creates a retryable storage error.
func NewDraftStorageUnavailableError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftStorageUnavailable,
		Message:   "Draft storage unavailable",
		Details:   fmt.Sprintf("op: %s, error: %v", op, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSubmissionNetworkFailedError creates a retryable connectivity error.
func NewSubmissionNetworkFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionNetworkFailed,
		Message:   GenericSubmitFailure,
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSubmissionRejectedError carries the server's message when it gave one.
func NewSubmissionRejectedError(status int, serverMessage string) *StandardError {
	msg := serverMessage
	if strings.TrimSpace(msg) == "" {
		msg = GenericSubmitFailure
	}
	return &StandardError{
		Code:      ErrCodeSubmissionRejected,
		Message:   msg,
		Details:   fmt.Sprintf("status: %d", status),
		Retryable: true,
		Metadata:  map[string]interface{}{"status": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewProxyForwardFailedError wraps a local failure at the proxy boundary.
func NewProxyForwardFailedError(stage string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProxyForwardFailed,
		Message:   GenericSubmitFailure,
		Details:   fmt.Sprintf("stage: %s, error: %v", stage, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewImageRejectedError creates a user-facing image error.
func NewImageRejectedError(message string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeImageRejected,
		Message:   message,
		Details:   fmt.Sprint(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInvalidTransitionError reports an operation not allowed in the current state.
func NewInvalidTransitionError(op, state string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   fmt.Sprintf("Cannot %s from %s", op, state),
		Details:   fmt.Sprintf("op: %s, state: %s", op, state),
		Retryable: false,
		Metadata:  map[string]interface{}{"state": state},
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError creates a non-retryable lookup error.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Registration session not found",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %v", channel, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   fmt.Sprint(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandard extracts a StandardError from err's chain, or wraps err as INTERNAL_ERROR.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return errors.As(err, &stdErr) && stdErr.Code == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeDraftStorageUnavailable,
		ErrCodeSubmissionNetworkFailed,
		ErrCodeSubmissionRejected,
		ErrCodeProxyForwardFailed,
		ErrCodeNotificationSendFailed:
		return true
	default:
		return false
	}
}

// HTTPStatus maps an error code to the status the API answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeImageRejected:
		return http.StatusBadRequest
	case ErrCodeInvalidTransition:
		return http.StatusConflict
	case ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeSubmissionNetworkFailed, ErrCodeDraftStorageUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeSubmissionRejected:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "DRAFT"):
		return "STORAGE"
	case strings.HasPrefix(codeStr, "SUBMISSION"), strings.HasPrefix(codeStr, "PROXY"):
		return "SUBMISSION"
	case strings.Contains(codeStr, "VALIDATION"), strings.Contains(codeStr, "IMAGE"):
		return "VALIDATION"
	case strings.Contains(codeStr, "TRANSITION"), strings.Contains(codeStr, "SESSION"):
		return "WIZARD"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
