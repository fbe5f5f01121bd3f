package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind classifies a service failure. Handlers map kinds to HTTP statuses; the
// message is safe to show to the operator, the wrapped error is for logs only.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindDuplicateLicense  Kind = "duplicate_license"
	KindDuplicateUsername Kind = "duplicate_username"
	KindInvalidAmount     Kind = "invalid_amount"
	KindAlreadyUsed       Kind = "already_used"
	KindInvalidInput      Kind = "invalid_input"
	KindUnauthorized      Kind = "unauthorized"
)

// Error is the structured error returned by every service operation.
type Error struct {
	Kind    Kind
	Mensaje string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Mensaje, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Mensaje)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, ErrNotFound) works
// regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrDuplicateLicense  = &Error{Kind: KindDuplicateLicense}
	ErrDuplicateUsername = &Error{Kind: KindDuplicateUsername}
	ErrInvalidAmount     = &Error{Kind: KindInvalidAmount}
	ErrAlreadyUsed       = &Error{Kind: KindAlreadyUsed}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
)

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Mensaje: msg, Err: cause}
}

// KindOf returns the Kind of err, or "" for errors that did not originate here.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// notFoundOr turns gorm.ErrRecordNotFound into a NotFound error and wraps anything else.
func notFoundOr(err error, msg, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newError(KindNotFound, msg, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
