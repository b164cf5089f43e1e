package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error raised by the domain and service layers matches
// exactly one of these with errors.Is.
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden is returned when a user is not allowed to perform an action
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned when a value fails its invariant or an operation
	// would break one (e.g. insufficient funds)
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict is returned when an operation clashes with existing state
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized is returned when credentials cannot be verified
	ErrUnauthorized = errors.New("unauthorized")
)

// Error carries a kind sentinel together with a message naming the offending
// id or constraint.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the kind so errors.Is(err, ErrNotFound) works.
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds an ErrNotFound kind error.
func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

// Forbidden builds an ErrForbidden kind error.
func Forbidden(format string, args ...any) error {
	return newError(ErrForbidden, format, args...)
}

// InvalidInput builds an ErrInvalidInput kind error.
func InvalidInput(format string, args ...any) error {
	return newError(ErrInvalidInput, format, args...)
}

// Conflict builds an ErrConflict kind error.
func Conflict(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}

// Unauthorized builds an ErrUnauthorized kind error.
func Unauthorized(format string, args ...any) error {
	return newError(ErrUnauthorized, format, args...)
}

// KindOf returns the kind sentinel of err, or nil when err is not a domain error.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrForbidden, ErrInvalidInput, ErrConflict, ErrUnauthorized} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
