package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error represents a typed console error with HTTP awareness.
type Error struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Status  int               `json:"status"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so clones compare equal to their template.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors. Validation never leaves the form layer; the rest
// originate from the backend collaborators.
var (
	ErrValidation         = New("VALIDATION_ERROR", http.StatusUnprocessableEntity, "validation failed")
	ErrBadRequest         = New("BAD_REQUEST", http.StatusBadRequest, "bad request. please check your input")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict. the resource already exists")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized. please login again")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden. you do not have permission to perform this action")
	ErrServer             = New("SERVER_ERROR", http.StatusBadGateway, "server error. please try again later")
	ErrNetworkUnreachable = New("NETWORK_UNREACHABLE", http.StatusServiceUnavailable, "cannot connect to server. please check your connection and ensure the backend is running")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrDisposed           = New("DISPOSED", http.StatusGone, "controller disposed")
	ErrConfirmation       = New("CONFIRMATION_REQUIRED", http.StatusPreconditionRequired, "confirmation required")
	ErrCancelled          = New("CANCELLED", 499, "operation cancelled")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.Canceled) {
		return Wrap(err, ErrCancelled.Code, ErrCancelled.Status, ErrCancelled.Message)
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// FromStatus maps an upstream HTTP status into the console taxonomy.
// A zero status means the backend was never reached.
func FromStatus(status int, message string) *Error {
	message = strings.TrimSpace(message)
	var base *Error
	switch {
	case status == 0:
		base = ErrNetworkUnreachable
		message = ""
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		base = ErrBadRequest
	case status == http.StatusUnauthorized:
		base = ErrUnauthorized
		message = ""
	case status == http.StatusForbidden:
		base = ErrForbidden
		message = ""
	case status == http.StatusNotFound:
		base = ErrNotFound
	case status == http.StatusConflict:
		base = ErrConflict
	case status >= 500:
		base = ErrServer
		message = ""
	default:
		clone := Clone(ErrServer, fmt.Sprintf("error %d: %s", status, http.StatusText(status)))
		return clone
	}
	return Clone(base, message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	if err.Fields != nil {
		clone.Fields = make(map[string]string, len(err.Fields))
		for k, v := range err.Fields {
			clone.Fields[k] = v
		}
	}
	return &clone
}

// WithFields returns a clone carrying per-field messages.
func WithFields(err *Error, fields map[string]string) *Error {
	clone := Clone(err, "")
	if clone == nil {
		return nil
	}
	clone.Fields = fields
	return clone
}

// Retryable reports whether an explicit user retry could plausibly succeed.
func Retryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == ErrNetworkUnreachable.Code || e.Code == ErrServer.Code
}
