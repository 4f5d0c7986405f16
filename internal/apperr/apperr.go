package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindNotFound
	KindUnprocessable
	KindMethodNotAllowed
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the stable client-facing message for the kind.
func (k Kind) Message() string {
	switch k {
	case KindBadRequest:
		return "bad request"
	case KindNotFound:
		return "resource not found"
	case KindUnprocessable:
		return "unprocessable"
	case KindMethodNotAllowed:
		return "method not allowed"
	default:
		return "internal server error"
	}
}

func (k Kind) String() string {
	return k.Message()
}

// Error is a service failure tagged with a Kind
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Message()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Op, e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func BadRequest(op, msg string) *Error {
	return &Error{Kind: KindBadRequest, Op: op, Message: msg}
}

func NotFound(op, msg string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: msg}
}

func Unprocessable(op string, err error) *Error {
	return &Error{Kind: KindUnprocessable, Op: op, Err: err}
}

func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Op: op, Err: err}
}

// KindOf reports the Kind carried by err, KindInternal when err is untagged.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
