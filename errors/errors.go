// Package errors lets packages declare sentinel errors as constants and attach a cause to them
// while keeping errors.Is matching on the sentinel.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSeparator separates the sentinel message from the cause in a wrapped error message.
const ErrSeparator = " -- "

// Error is a sentinel error that can be declared as a constant.
type Error string

func (s Error) Error() string {
	return string(s)
}

// Is reports whether target is s, either bare or carrying a cause.
func (s Error) Is(target error) bool {
	msg := target.Error()
	return msg == string(s) || strings.HasPrefix(msg, string(s)+ErrSeparator)
}

// As stores s in target when target is a *Error.
func (s Error) As(target any) bool {
	p, ok := target.(*Error)
	if ok {
		*p = s
	}
	return ok
}

// Wrap returns s with err as its cause.
func (s Error) Wrap(err error) error {
	return &causedError{sentinel: s, cause: err}
}

// Wrapf returns s with a formatted cause.
func (s Error) Wrapf(format string, args ...any) error {
	return s.Wrap(fmt.Errorf(format, args...))
}

type causedError struct {
	sentinel Error
	cause    error
}

func (e *causedError) Error() string {
	if e.cause == nil {
		return string(e.sentinel)
	}
	return string(e.sentinel) + ErrSeparator + e.cause.Error()
}

func (e *causedError) Is(target error) bool {
	return e.sentinel.Is(target)
}

func (e *causedError) As(target any) bool {
	return e.sentinel.As(target)
}

func (e *causedError) Unwrap() error {
	return e.cause
}

// Is is errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New is errors.New.
func New(message string) error {
	return errors.New(message)
}
