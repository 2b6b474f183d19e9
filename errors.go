package sazito

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed call.
type ErrorKind string

const (
	// KindNetwork covers transport failures, cancellation and timeouts.
	KindNetwork ErrorKind = "network"
	// KindAPI covers non-2xx responses.
	KindAPI ErrorKind = "api"
	// KindValidation covers local precondition failures. No request is sent.
	KindValidation ErrorKind = "validation"
)

// Sentinel errors for errors.Is matching against *Error values.
var (
	ErrNetwork    = errors.New("sazito: network error")
	ErrAPI        = errors.New("sazito: api error")
	ErrValidation = errors.New("sazito: validation error")
	ErrTimeout    = errors.New("sazito: request timeout")

	// ErrCircuitOpen is the cause of calls rejected by an open circuit breaker.
	ErrCircuitOpen = errors.New("sazito: circuit breaker is open")
)

// Error is the error half of a Response. Status is zero unless Kind is
// KindAPI.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Details any
	Cause   error

	RequestID string
	Method    string
	URL       string
	Attempts  int

	timeout bool
	// aborted marks failures caused by the caller's own context ending.
	aborted bool
}

// Error implements error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches the kind sentinels, ErrTimeout and other *Error values of the
// same kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrAPI:
		return e.Kind == KindAPI
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrTimeout:
		return e.timeout
	}
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Timeout reports whether the call exceeded its deadline.
func (e *Error) Timeout() bool {
	return e != nil && e.timeout
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *Error) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Kind: %s\n", e.Kind)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.RequestID != "" {
		info += fmt.Sprintf("Request ID: %s\n", e.RequestID)
	}
	if e.Method != "" {
		info += fmt.Sprintf("Method: %s\n", e.Method)
	}
	if e.URL != "" {
		info += fmt.Sprintf("URL: %s\n", e.URL)
	}
	if e.Status > 0 {
		info += fmt.Sprintf("Status Code: %d\n", e.Status)
	}
	if e.Attempts > 0 {
		info += fmt.Sprintf("Attempts: %d\n", e.Attempts)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}

// IsTransient reports whether err is worth retrying by the caller: network
// failures and 5xx api errors.
func IsTransient(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindNetwork:
		return true
	case KindAPI:
		return e.Status >= http.StatusInternalServerError && e.Status < 600
	default:
		return false
	}
}

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func failure(err *Error) *Response {
	return &Response{Err: err, Status: err.Status}
}

func invalid(message string) *Response {
	return failure(validationError(message))
}
