package errors

import (
	stderrors "errors"
	"time"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Handler absorbs failures at the core boundary: it normalizes them, logs them and lets
// the caller continue. Nothing it handles reaches the rendering layer.
type Handler struct {
	logger Logger
	onFail func(op string, code ErrorCode)
}

// NewErrorHandler returns a Handler. onFail, when non-nil, observes every absorbed failure.
func NewErrorHandler(logger Logger, onFail func(op string, code ErrorCode)) *Handler {
	return &Handler{logger: logger, onFail: onFail}
}

// Absorb logs err for operation op and swallows it. Remote mutation failures and membership
// read failures go through here.
func (h *Handler) Absorb(op string, err error, fields map[string]interface{}) {
	if err == nil {
		return
	}
	stdErr := Normalize(err)

	logFields := map[string]interface{}{
		"operation":     op,
		"errorCode":     string(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
	}
	for k, v := range fields {
		logFields[k] = v
	}

	if stdErr.Code == ErrCodeInternal {
		h.logger.Error("operation failed", logFields)
	} else {
		h.logger.Warn("operation failed", logFields)
	}

	if h.onFail != nil {
		h.onFail(op, stdErr.Code)
	}
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}
