// Package errs is the domain error taxonomy. Services return these, handlers
// map them to HTTP statuses in one place instead of string-matching err.Error().
package errs

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

type Kind int

const (
	KindUnauthenticated Kind = iota + 1
	KindNotFound
	KindForbidden
	KindInvalidArgument
	KindNoPartner
	KindInternal
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Msg: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

func InvalidArgument(msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Msg: msg}
}

// NoPartner maps to 404 with a distinguishing body rather than 400: the
// caller did nothing wrong, the counterpart simply does not exist yet.
func NoPartner() *Error {
	return &Error{Kind: KindNoPartner, Msg: "no partner linked"}
}

// Is lets errors.Is match on kind, so tests can assert taxonomy rather than
// message text.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HTTPStatus maps a service error to its response status. Unknown errors,
// including raw store failures, surface as 500.
func HTTPStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		switch e.Kind {
		case KindUnauthenticated:
			return http.StatusUnauthorized
		case KindNotFound, KindNoPartner:
			return http.StatusNotFound
		case KindForbidden:
			return http.StatusForbidden
		case KindInvalidArgument:
			return http.StatusBadRequest
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Message returns the client-facing error string. Internal errors are not
// leaked verbatim.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "record not found"
	}
	return "internal server error"
}
