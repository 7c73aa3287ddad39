package chatbot

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageUnavailable indicates the conversation store could not
	// be reached. Callers surface it as a non-fatal notice; the chat
	// turn is still shown in-session.
	ErrStorageUnavailable = errors.New("conversation store unavailable")

	// ErrInvalidPage indicates a page request with pageNumber < 1 or
	// pageSize < 1.
	ErrInvalidPage = errors.New("invalid page request")

	// ErrUpstreamTimeout indicates the inference call exceeded its deadline.
	ErrUpstreamTimeout = errors.New("inference request timed out")
)

// Error codes carried by ChatError.
const (
	ErrCodeValidation      = "validation"
	ErrCodeNotFound        = "not_found"
	ErrCodeStorage         = "storage"
	ErrCodeUpstream        = "upstream"
	ErrCodeUpstreamTimeout = "upstream_timeout"
	ErrCodeInternal        = "internal"
)

// ChatError is a tagged failure from one of the I/O collaborators.
// The pure processing components never produce one.
type ChatError struct {
	Code    string
	Message string
	Err     error
}

func (e *ChatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ChatError) Unwrap() error {
	return e.Err
}

// NewChatError creates a ChatError with the given code.
func NewChatError(code, message string, err error) *ChatError {
	return &ChatError{Code: code, Message: message, Err: err}
}

// NewStorageError wraps a store failure so callers can treat
// persistence problems as non-fatal.
func NewStorageError(message string, err error) *ChatError {
	if err == nil {
		err = ErrStorageUnavailable
	}
	return &ChatError{Code: ErrCodeStorage, Message: message, Err: err}
}

// NewUpstreamError wraps a non-200 response from the inference backend.
func NewUpstreamError(status int) *ChatError {
	return &ChatError{
		Code:    ErrCodeUpstream,
		Message: fmt.Sprintf("API Error: %d", status),
	}
}

// NewUpstreamTimeoutError wraps an inference deadline or transport failure.
func NewUpstreamTimeoutError(err error) *ChatError {
	return &ChatError{
		Code:    ErrCodeUpstreamTimeout,
		Message: "inference backend did not respond in time",
		Err:     errors.Join(ErrUpstreamTimeout, err),
	}
}

// NewConnectionError wraps a transport failure reaching the inference backend.
func NewConnectionError(err error) *ChatError {
	return &ChatError{
		Code:    ErrCodeUpstream,
		Message: fmt.Sprintf("Connection error: %v", err),
		Err:     err,
	}
}

// ErrorCode extracts the ChatError code from an error chain, or
// ErrCodeInternal when the error is untagged.
func ErrorCode(err error) string {
	var ce *ChatError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrCodeInternal
}
