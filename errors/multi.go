package errors

import (
	"fmt"
	"strings"
)

// Append collects every non-nil error into one. It returns nil when
// nothing failed and the error itself when exactly one did. Groups passed
// in are flattened.
func Append(errs ...error) error {
	var collected []error
	for _, err := range errs {
		switch e := err.(type) {
		case nil:
		case *multiErr:
			if e != nil {
				collected = append(collected, e.errors...)
			}
		default:
			if !errIsNil(err) {
				collected = append(collected, err)
			}
		}
	}
	if len(collected) == 0 {
		return nil
	}
	if len(collected) == 1 {
		return collected[0]
	}
	return &multiErr{errors: collected}
}

// AppendField appends err to errs, prefixed with the name of the field
// that failed validation.
func AppendField(errs error, field string, err error) error {
	if errIsNil(err) {
		return errs
	}
	return Append(errs, Wrap(err, field))
}

// multiErr is a group of failures. It is of the kind of each member.
type multiErr struct {
	errors []error
}

func (me *multiErr) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors occurred:", len(me.errors))
	for _, err := range me.errors {
		fmt.Fprintf(&b, "\n\t* %s", err)
	}
	b.WriteString("\n")
	return b.String()
}

// Code reports the first member's code.
func (me *multiErr) Code() uint32 {
	return errCode(me.errors[0])
}
