package airquality

import (
	"fmt"
)

// Kind is a classification of error type.
type Kind string

const (
	InvalidInput Kind = "invalid_input"
	Transport    Kind = "transport"
	StatusCode   Kind = "status_code"
	Decode       Kind = "decode"
)

// ClientError represents errors from the Air Quality API client layer.
type ClientError struct {
	Kind    Kind
	Message string
	Err     error
	// The status for the StatusCode error kind
	Status int
	// The server-provided detail message, when the error body carried one
	Detail string
}

func (e *ClientError) Error() string {
	switch e.Kind {
	case InvalidInput:
		return fmt.Sprintf("invalid input: %s", e.Message)
	case Transport:
		return fmt.Sprintf("transport error: %s", e.Err)
	case StatusCode:
		if e.Detail != "" {
			return fmt.Sprintf("status error: %s (status %d)", e.Detail, e.Status)
		}
		return fmt.Sprintf("status error: unexpected response (status %d)", e.Status)
	case Decode:
		return fmt.Sprintf("decode error: %s", e.Err)
	default:
		return e.Message
	}
}

// Unwrap allows errors.Is / errors.As to work with wrapped errors.
func (e *ClientError) Unwrap() error {
	return e.Err
}

// Helper constructors
func NewInvalidInputError(msg string) *ClientError {
	return &ClientError{Kind: InvalidInput, Message: msg}
}

func NewTransportError(err error) *ClientError {
	return &ClientError{Kind: Transport, Err: err}
}

func NewStatusCodeError(status int, detail string) *ClientError {
	return &ClientError{Kind: StatusCode, Status: status, Detail: detail}
}

func NewDecodeError(err error) *ClientError {
	return &ClientError{Kind: Decode, Err: err}
}
