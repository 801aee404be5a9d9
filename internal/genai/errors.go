package genai

import "fmt"

// ErrorCode identifies a class of generation failure.
type ErrorCode string

const (
	ErrTransport     ErrorCode = "TRANSPORT"
	ErrRateLimited   ErrorCode = "RATE_LIMITED"
	ErrUpstream      ErrorCode = "UPSTREAM"
	ErrBadRequest    ErrorCode = "BAD_REQUEST"
	ErrEmptyResponse ErrorCode = "EMPTY_RESPONSE"
)

// GenError is a structured error for model invocation failures.
type GenError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

func (e *GenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *GenError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether this error is retryable.
func (e *GenError) IsRetryable() bool {
	return e.Retryable
}
