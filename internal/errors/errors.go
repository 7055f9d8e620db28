package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInternal     = errors.New("internal error")
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("resource already exists")
	ErrInvalidInput = errors.New("invalid input")
)

// appError carries a user-facing message while keeping the sentinel kind
// reachable through errors.Is.
type appError struct {
	kind error
	msg  string
}

func (e *appError) Error() string { return e.msg }

func (e *appError) Unwrap() error { return e.kind }

func newError(kind error, format string, a ...interface{}) error {
	return &appError{kind: kind, msg: fmt.Sprintf(format, a...)}
}

func NewInternal(format string, a ...interface{}) error {
	return newError(ErrInternal, format, a...)
}

func NewNotFound(format string, a ...interface{}) error {
	return newError(ErrNotFound, format, a...)
}

func NewConflict(format string, a ...interface{}) error {
	return newError(ErrConflict, format, a...)
}

func NewUnauthorized(format string, a ...interface{}) error {
	return newError(ErrUnauthorized, format, a...)
}

func NewInvalidInput(format string, a ...interface{}) error {
	return newError(ErrInvalidInput, format, a...)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsInternal(err error) bool {
	return err != nil && !IsNotFound(err) && !IsConflict(err) && !IsUnauthorized(err) && !IsInvalidInput(err)
}
