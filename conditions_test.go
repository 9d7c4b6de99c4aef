package vault_test

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionFormat(t *testing.T) {
	Convey("a condition built from its parts", t, func() {
		cond := vault.NewCondition("loanescrow", "custody", []byte("escrow"))
		So(cond.Validate(), ShouldBeNil)

		Convey("parses back into the same parts", func() {
			ext, typ, data, err := cond.Parse()
			So(err, ShouldBeNil)
			So(ext, ShouldEqual, "loanescrow")
			So(typ, ShouldEqual, "custody")
			So(data, ShouldResemble, []byte("escrow"))
		})

		Convey("prints its data hex encoded", func() {
			So(cond.String(), ShouldEqual, "loanescrow/custody/657363726F77")
		})

		Convey("has a stable address", func() {
			So(cond.Address(), ShouldResemble, vault.NewCondition("loanescrow", "custody", []byte("escrow")).Address())
			So(cond.Address(), ShouldNotResemble, vault.NewCondition("loanescrow", "custody", []byte("other")).Address())
		})
	})

	Convey("malformed conditions are rejected", t, func() {
		for _, raw := range []string{"no-slashes", "ab/cd/data", "vault/account/", ""} {
			So(errors.ErrInput.Is(vault.Condition(raw).Validate()), ShouldBeTrue)
			_, _, _, err := vault.Condition(raw).Parse()
			So(errors.ErrInput.Is(err), ShouldBeTrue)
		}
	})

	Convey("data may contain any byte", t, func() {
		cond := vault.NewCondition("vault", "account", []byte("line\nbreak/slash"))
		So(cond.Validate(), ShouldBeNil)
	})
}

func TestConditionJSON(t *testing.T) {
	cases := map[string]struct {
		JSON    string
		Want    vault.Condition
		WantErr *errors.Error
	}{
		"hex data": {
			JSON: `"vault/account/636c69656e74"`,
			Want: vault.NewCondition("vault", "account", []byte("client")),
		},
		"empty string is nil": {
			JSON: `""`,
		},
		"missing type": {
			JSON:    `"vault/636c69656e74"`,
			WantErr: errors.ErrInput,
		},
		"data is not hex": {
			JSON:    `"vault/account/client"`,
			WantErr: errors.ErrInput,
		},
		"not a string": {
			JSON:    `42`,
			WantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got vault.Condition
			err := json.Unmarshal([]byte(tc.JSON), &got)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.WantErr == nil {
				assert.Equal(t, tc.Want, got)
			}
		})
	}
}

func TestConditionMarshalJSON(t *testing.T) {
	raw, err := json.Marshal(vault.NewCondition("vault", "account", []byte("client")))
	require.NoError(t, err)
	assert.Equal(t, `"vault/account/636C69656E74"`, string(raw))

	raw, err = json.Marshal(vault.Condition(nil))
	require.NoError(t, err)
	assert.Equal(t, `""`, string(raw))
}
