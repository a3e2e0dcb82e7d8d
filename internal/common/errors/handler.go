// internal/common/errors/handler.go
package errors

import (
	"context"
	stderrors "errors"
	"time"
)

// ResponseBody is the JSON error shape returned by the API.
type ResponseBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// ErrorHandler turns errors into API responses and logs them once.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle normalizes err and returns the status code and body to send.
// Client errors (4xx) carry only the message; server errors attach the
// original error text for diagnostics.
func (h *ErrorHandler) Handle(route string, err error) (int, ResponseBody) {
	stdErr := Normalize(err)
	status := stdErr.HTTPStatus()

	h.logError(route, status, stdErr)

	body := ResponseBody{Message: stdErr.Message}
	if status >= 500 {
		body.Error = stdErr.Details
		if body.Error == "" {
			body.Error = stdErr.Message
		}
	}
	return status, body
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := As(err); ok {
		return stdErr
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return NewQueryTimeoutError("request")
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Something broke!",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func (h *ErrorHandler) logError(route string, status int, stdErr *StandardError) {
	fields := map[string]interface{}{
		"route":     route,
		"status":    status,
		"errorCode": stdErr.Code,
		"category":  GetErrorCategory(stdErr.Code),
		"retryable": stdErr.Retryable,
		"details":   stdErr.Details,
	}
	if status >= 500 {
		h.logger.Error(stdErr.Message, fields)
		return
	}
	h.logger.Warn(stdErr.Message, fields)
}
