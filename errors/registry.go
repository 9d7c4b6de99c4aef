package errors

import (
	"fmt"
	"sort"
)

// usedCodes holds all registered errors by code.
var usedCodes = map[uint32]*Error{}

// Register returns a new root error with given code. Codes are unique and
// registering a code twice panics, so this must be called only during the
// program initialization, usually in a package level var block.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{code: code, desc: description}
	usedCodes[code] = err
	return err
}

// Lookup returns the root error registered with given code.
func Lookup(code uint32) (*Error, bool) {
	e, ok := usedCodes[code]
	return e, ok
}

// Codes returns all registered codes in ascending order.
func Codes() []uint32 {
	codes := make([]uint32, 0, len(usedCodes))
	for c := range usedCodes {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
