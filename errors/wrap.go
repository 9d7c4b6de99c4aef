package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Wrap returns err extended with a description. The kind of err is kept,
// so the result Is the same root error. A nil err gives nil.
//
// A stack trace is attached by the innermost wrap only.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if deepestStack(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{parent: err, msg: description}
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// causer is implemented by errors that wrap another error.
type causer interface {
	Cause() error
}
