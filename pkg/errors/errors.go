package errors

import (
	"errors"
	"fmt"
)

// Kind represents different kinds of errors that can occur in the pipeline
type Kind string

const (
	KindAuth         Kind = "auth"
	KindRateLimit    Kind = "rate_limit"
	KindNetwork      Kind = "network"
	KindServerError  Kind = "server_error"
	KindEmptyResult  Kind = "empty_result"
	KindInputFormat  Kind = "input_format"
	KindMissingField Kind = "missing_field"
	KindNotFound     Kind = "not_found"
	KindUnknown      Kind = "unknown"
)

// Error represents a pipeline error with kind information
type Error struct {
	Kind    Kind
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// New creates an Error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error of the given kind with a formatted message
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithCode attaches an HTTP status code to the error
func (e *Error) WithCode(code int) *Error {
	e.Code = code
	return e
}

// IsKind reports whether err is (or wraps) an Error of the given kind
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsRetryable checks if an error kind should be retried
func IsRetryable(kind Kind) bool {
	switch kind {
	case KindNetwork, KindRateLimit, KindServerError:
		return true
	case KindAuth, KindNotFound, KindInputFormat, KindMissingField, KindEmptyResult:
		return false
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 500, 502, 503, 504: // Server errors
		return true
	case 401, 403, 404: // Client errors that won't change
		return false
	default:
		return statusCode >= 500 // Retry all 5xx errors
	}
}

// KindFromStatusCode maps an HTTP status code to an error kind
func KindFromStatusCode(statusCode int) Kind {
	switch {
	case statusCode == 401 || statusCode == 403:
		return KindAuth
	case statusCode == 404:
		return KindNotFound
	case statusCode == 429:
		return KindRateLimit
	case statusCode >= 500:
		return KindServerError
	default:
		return KindUnknown
	}
}
