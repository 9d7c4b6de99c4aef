package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestKinds(t *testing.T) {
	std := stdlib.New("disk full")

	cases := map[string]struct {
		Kind      *Error
		Err       error
		WantIs    bool
		WantCause error
	}{
		"registered error": {
			Kind:      ErrNotFound,
			Err:       ErrNotFound,
			WantIs:    true,
			WantCause: ErrNotFound,
		},
		"wrapped twice": {
			Kind:      ErrAmount,
			Err:       Wrap(Wrapf(ErrAmount, "principal %d", 0), "request"),
			WantIs:    true,
			WantCause: ErrAmount,
		},
		"wrapped with pkg/errors": {
			Kind:      ErrNotFound,
			Err:       errors.Wrap(ErrNotFound, "loan"),
			WantIs:    true,
			WantCause: ErrNotFound,
		},
		"other kind": {
			Kind:      ErrNotFound,
			Err:       Wrap(ErrOverflow, "collateral"),
			WantCause: ErrOverflow,
		},
		"plain error": {
			Kind:      ErrDatabase,
			Err:       Wrap(std, "write"),
			WantCause: std,
		},
		"unregistered formatted error": {
			Kind: ErrNotFound,
			Err:  fmt.Errorf("no loan"),
		},
		"nil kind matches nil": {
			WantIs: true,
		},
		"nil kind matches a typed nil": {
			Err:    (*customError)(nil),
			WantIs: true,
		},
		"nil kind does not match an error": {
			Err:       ErrState,
			WantCause: ErrState,
		},
		"group holding the kind": {
			Kind:   ErrAmount,
			Err:    Append(ErrEmpty, Wrap(ErrAmount, "zero")),
			WantIs: true,
		},
		"group without the kind": {
			Kind: ErrState,
			Err:  Append(ErrEmpty, ErrAmount),
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.Kind.Is(tc.Err); got != tc.WantIs {
				t.Fatalf("want Is %t, got %t", tc.WantIs, got)
			}
			if tc.WantCause != nil {
				if got := errors.Cause(tc.Err); got != tc.WantCause {
					t.Fatalf("want cause %v, got %v", tc.WantCause, got)
				}
			}
		})
	}
}

type customError struct{}

func (customError) Error() string {
	return "custom error"
}

func TestRegisterDuplicatedCodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("registering a duplicated code must panic")
		}
	}()
	Register(ErrNotFound.Code(), "again")
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := fn()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("panic message lost: %s", err)
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "nothing"); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := Wrapf(nil, "nothing %d", 1); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
}

func TestWrappedMessage(t *testing.T) {
	err := Wrap(Wrap(ErrNotFound, "loan"), "repay")
	if got, want := err.Error(), "repay: loan: not found"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if s := fmt.Sprintf("%v", err); !strings.HasPrefix(s, "repay: loan: not found [") {
		t.Fatalf("short format must contain the creation frame: %q", s)
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup(ErrAmount.Code())
	if !ok || e != ErrAmount {
		t.Fatalf("want ErrAmount, got %v", e)
	}
	if _, ok := Lookup(99999); ok {
		t.Fatal("unregistered code found")
	}

	codes := Codes()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not ordered: %v", codes)
		}
	}
}
