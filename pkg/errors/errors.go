package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents the kinds of request failure the timeline API can produce
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

var (
	// ErrMalformedItem is returned when a timeline item has no usable id or timestamp
	ErrMalformedItem = stderrors.New("malformed item: missing id or created_at")

	// ErrSerialization marks a record that could not be encoded as a JSON line
	ErrSerialization = stderrors.New("record could not be serialized")

	// ErrInterrupted is returned by a run that was stopped by the operator
	ErrInterrupted = stderrors.New("run interrupted")
)

// Error is a request failure raised while talking to the timeline API
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// Unwrap exposes the transport error, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// FromStatus maps a non-2xx HTTP status to a typed request failure
func FromStatus(code int, message string) *Error {
	var t ErrorType
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		t = ErrorTypeAuth
	case code == http.StatusNotFound:
		t = ErrorTypeNotFound
	case code == http.StatusTooManyRequests:
		t = ErrorTypeRateLimit
	case code >= 500:
		t = ErrorTypeServerError
	default:
		t = ErrorTypeUnknown
	}
	if message == "" {
		message = http.StatusText(code)
	}
	return &Error{Type: t, Message: message, Code: code}
}

// IsRequestFailure reports whether err came from the upstream API call.
// These are the only failures the run controller backs off on.
func IsRequestFailure(err error) bool {
	var apiErr *Error
	return stderrors.As(err, &apiErr)
}
