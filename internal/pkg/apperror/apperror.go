// Package apperror defines the error kinds shared by every domain package.
// Domain sentinels wrap exactly one kind so callers can branch on either the
// specific sentinel or its kind with errors.Is.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvariantViolation = errors.New("invariant violation")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// New returns a sentinel carrying msg that matches kind under errors.Is.
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Invariant reports a state that earlier validation should have made impossible.
func Invariant(format string, args ...any) error {
	return &kindError{kind: ErrInvariantViolation, msg: "invariant violation: " + fmt.Sprintf(format, args...)}
}

// Kind returns the kind err belongs to, or nil when it has none.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrInvariantViolation} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
