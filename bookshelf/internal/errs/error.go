package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrBadRequest    = errors.New("bad request")
	ErrUnprocessable = errors.New("unprocessable entity")
	ErrUnavailable   = errors.New("store unavailable")
)

// PersistenceError is a failed store operation. Kind is ErrUnprocessable,
// ErrUnavailable or nil when the failure could not be classified.
type PersistenceError struct {
	Op   string
	Kind error
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// ValidationError lists request fields that are missing or invalid.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrUnprocessable
}
