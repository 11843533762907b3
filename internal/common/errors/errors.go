// Package errors provides the structured error type shared by the gateway, the auth client
// and the listing core.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode is a stable, machine-readable failure kind.
type ErrorCode string

const (
	// Transport: the collaborator could not be reached or the call timed out.
	ErrCodeNetworkFailure ErrorCode = "NETWORK_FAILURE"
	// The collaborator answered with a non-2xx status.
	ErrCodeRemoteStatus ErrorCode = "REMOTE_STATUS"
	// The response body did not match its contract.
	ErrCodeContractViolation ErrorCode = "CONTRACT_VIOLATION"
	ErrCodeDecodeFailed      ErrorCode = "DECODE_FAILED"
	ErrCodeEncodeFailed      ErrorCode = "ENCODE_FAILED"

	ErrCodeNotAuthenticated ErrorCode = "NOT_AUTHENTICATED"
	ErrCodeAuthFailed       ErrorCode = "AUTH_FAILED"
	ErrCodeSessionStore     ErrorCode = "SESSION_STORE_FAILED"

	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured client error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error { return e.cause }

// WithMetadata sets a metadata key and returns the receiver for chaining.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewNetworkFailureError wraps a transport failure for the named operation.
func NewNetworkFailureError(operation string, err error) *StandardError {
	return newError(ErrCodeNetworkFailure, "Collaborator unreachable", fmt.Sprintf("operation: %s, error: %v", operation, err), true, err).
		WithMetadata("operation", operation)
}

// NewRemoteStatusError reports a non-2xx answer. detail is the server's message, if any.
func NewRemoteStatusError(operation string, status int, detail string) *StandardError {
	if detail == "" {
		detail = fmt.Sprintf("API Error: %d", status)
	}
	return newError(ErrCodeRemoteStatus, detail, fmt.Sprintf("operation: %s, status: %d", operation, status), status >= 500, nil).
		WithMetadata("operation", operation).
		WithMetadata("status", status)
}

// NewContractViolationError reports a response that failed schema validation.
func NewContractViolationError(operation string, violations []string) *StandardError {
	return newError(ErrCodeContractViolation, "Response does not match contract", fmt.Sprintf("operation: %s, violations: %v", operation, violations), false, nil).
		WithMetadata("operation", operation).
		WithMetadata("violations", violations)
}

func NewDecodeFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeDecodeFailed, "Failed to decode response", fmt.Sprintf("operation: %s, error: %v", operation, err), false, err).
		WithMetadata("operation", operation)
}

func NewEncodeFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeEncodeFailed, "Failed to encode request", fmt.Sprintf("operation: %s, error: %v", operation, err), false, err).
		WithMetadata("operation", operation)
}

// NewNotAuthenticatedError is returned when an operation needs a signed-in user and there is none.
func NewNotAuthenticatedError() *StandardError {
	return newError(ErrCodeNotAuthenticated, "No signed-in user", "", false, nil)
}

func NewAuthFailedError(details string, err error) *StandardError {
	return newError(ErrCodeAuthFailed, "Authentication failed", details, false, err)
}

func NewSessionStoreError(operation string, err error) *StandardError {
	return newError(ErrCodeSessionStore, "Session store error", fmt.Sprintf("operation: %s, error: %v", operation, err), true, err)
}

func NewValidationError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Validation failed", details, false, nil)
}

func NewConfigInvalidError(details string) *StandardError {
	return newError(ErrCodeConfigInvalid, "Invalid configuration", details, false, nil)
}

// CodeOf returns the code of the first StandardError in err's chain, or INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// IsRetryable reports whether a StandardError in the chain is marked retryable.
func IsRetryable(err error) bool {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeNetworkFailure:
		return "transport"
	case ErrCodeRemoteStatus:
		return "remote"
	case ErrCodeContractViolation, ErrCodeDecodeFailed, ErrCodeEncodeFailed:
		return "contract"
	case ErrCodeNotAuthenticated, ErrCodeAuthFailed, ErrCodeSessionStore:
		return "auth"
	case ErrCodeValidationFailed, ErrCodeConfigInvalid:
		return "validation"
	default:
		return "internal"
	}
}
