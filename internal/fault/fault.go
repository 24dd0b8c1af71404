// Package fault classifies service errors so transports can map them to status codes.
package fault

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrUniqueViolation = errors.New("unique violation")
)

type ErrorType int

const (
	ErrClient ErrorType = iota
	ErrInternal
	ErrMissing
	ErrConflict
	ErrUnauthorized
	ErrUpstream
)

type Fault struct {
	Type    ErrorType
	Message string
	Field   string // offending input field, client errors only
	Reason  string // upstream rejection reason
	Err     error
}

func (e *Fault) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.typeString(), e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.typeString(), e.Message)
}

// Unwrap allows errors.Is and errors.As to work.
func (e *Fault) Unwrap() error {
	return e.Err
}

func (e *Fault) typeString() string {
	switch e.Type {
	case ErrClient:
		return "ClientError"
	case ErrInternal:
		return "InternalError"
	case ErrMissing:
		return "NotFound"
	case ErrConflict:
		return "Conflict"
	case ErrUnauthorized:
		return "Unauthorized"
	case ErrUpstream:
		return "UpstreamError"
	default:
		return "UnknownError"
	}
}

// NewClientError creates a new client error.
func NewClientError(msg string, err error) error {
	return &Fault{Type: ErrClient, Message: msg, Err: err}
}

// NewFieldError creates a client error tied to one input field.
func NewFieldError(field, msg string, err error) error {
	return &Fault{Type: ErrClient, Message: msg, Field: field, Err: err}
}

// NewInternalError creates a new internal server error.
func NewInternalError(msg string, err error) error {
	return &Fault{Type: ErrInternal, Message: msg, Err: err}
}

func NewNotFoundError(msg string, err error) error {
	return &Fault{Type: ErrMissing, Message: msg, Err: err}
}

func NewConflictError(msg string, err error) error {
	return &Fault{Type: ErrConflict, Message: msg, Err: err}
}

func NewUnauthorizedError(msg string, err error) error {
	return &Fault{Type: ErrUnauthorized, Message: msg, Err: err}
}

// NewUpstreamError reports that a downstream delivery rejected the request.
func NewUpstreamError(msg, reason string, err error) error {
	return &Fault{Type: ErrUpstream, Message: msg, Reason: reason, Err: err}
}

// IsClientError checks if an error is a client error.
func IsClientError(err error) bool {
	return typeOf(err) == ErrClient
}

// IsInternalError checks if an error is an internal error.
func IsInternalError(err error) bool {
	return typeOf(err) == ErrInternal
}

func typeOf(err error) ErrorType {
	var f *Fault
	if errors.As(err, &f) {
		return f.Type
	}
	return -1
}

// As returns the outermost Fault in err's chain.
func As(err error) (*Fault, bool) {
	var f *Fault
	ok := errors.As(err, &f)
	return f, ok
}

// HTTPStatus maps err onto a response status. Unclassified errors are 500.
func HTTPStatus(err error) int {
	switch typeOf(err) {
	case ErrClient:
		return http.StatusBadRequest
	case ErrMissing:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrUpstream:
		return http.StatusBadGateway
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
