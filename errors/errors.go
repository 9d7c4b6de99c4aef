package errors

import "fmt"

// Root errors shared by all packages. Extensions register their own codes
// starting from 200.
var (
	// ErrUnauthorized is returned when the call is not signed by a party
	// allowed to perform it.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned when a message cannot be routed or decoded.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned when a stored entity is malformed or of an
	// unexpected kind.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when a unique key or index is already in
	// use.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is returned when a code path that must never be reached is
	// reached.
	ErrHuman = Register(7, "coding error")

	// ErrEmpty is returned when a required value is missing.
	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when an operation is not allowed in the current
	// state.
	ErrState = Register(10, "invalid state")

	// ErrType is returned when a value is not of the expected type.
	ErrType = Register(11, "invalid type")

	// ErrInsufficientAmount is returned when an amount does not cover what
	// is required.
	ErrInsufficientAmount = Register(12, "insufficient amount")

	// ErrAmount is returned for a malformed or zero amount.
	ErrAmount = Register(13, "invalid amount")

	// ErrInput is returned for malformed input.
	ErrInput = Register(14, "invalid input")

	// ErrOverflow is returned when an arithmetic result does not fit its
	// type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrDatabase is returned when the storage fails.
	ErrDatabase = Register(17, "database error")

	// ErrIteratorDone is returned by an iterator with no more entries.
	ErrIteratorDone = Register(18, "iterator done")

	// ErrMetadata is returned when a model carries invalid metadata.
	ErrMetadata = Register(19, "invalid metadata")

	// ErrPanic is set for a recovered panic. Its details are never
	// exposed to a client.
	ErrPanic = Register(111222, "panic")
)

// Error is a root error. Every error created at runtime wraps one of them
// so that its kind can be tested and reported as a code.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the registered code of this error.
func (e Error) Code() uint32 {
	return e.code
}

// New returns an error of this kind with given description.
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with formatting.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is returns true if err is of this kind. Wrapped errors are unwrapped
// and a multi error is of this kind if any of its members is. A nil kind
// matches only a nil error.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return errIsNil(err)
	}
	for err != nil {
		if err == error(kind) {
			return true
		}
		if m, ok := err.(*multiErr); ok {
			for _, e := range m.errors {
				if kind.Is(e) {
					return true
				}
			}
			return false
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Recover stops a panic and assigns it to err as an ErrPanic. It must be
// called using defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}
