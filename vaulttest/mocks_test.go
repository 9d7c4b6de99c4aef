package vaulttest

import (
	"context"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerMock(t *testing.T) {
	cases := map[string]struct {
		Handler        Handler
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
		WantLog        string
	}{
		"results are copied": {
			Handler: Handler{DeliverResult: vault.DeliverResult{Log: "loan repaid"}},
			WantLog: "loan repaid",
		},
		"errors per method": {
			Handler:        Handler{CheckErr: errors.ErrUnauthorized, DeliverErr: errors.ErrNotFound},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrNotFound,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			h := tc.Handler
			_, err := h.Check(nil, nil, nil)
			assert.True(t, tc.WantCheckErr.Is(err), "check: %+v", err)
			res, err := h.Deliver(nil, nil, nil)
			assert.True(t, tc.WantDeliverErr.Is(err), "deliver: %+v", err)
			if err == nil {
				assert.Equal(t, tc.WantLog, res.Log)
			}
			assert.Equal(t, 1, h.CheckCallCount())
			assert.Equal(t, 1, h.DeliverCallCount())
			assert.Equal(t, 2, h.CallCount())
		})
	}
}

func TestHandlerMockWrites(t *testing.T) {
	db := store.MemStore()
	h := Handler{Write: &KeyValue{Key: []byte("tkn:GOLD:bal:1"), Value: []byte("100")}}
	_, err := h.Deliver(nil, db, nil)
	require.NoError(t, err)

	got, err := db.Get([]byte("tkn:GOLD:bal:1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("100"), got)
}

func TestDecoratorMock(t *testing.T) {
	var (
		d Decorator
		h Handler
	)
	_, err := d.Check(nil, nil, nil, &h)
	require.NoError(t, err)
	_, err = d.Deliver(nil, nil, nil, &h)
	require.NoError(t, err)
	assert.Equal(t, 2, d.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// a failing decorator does not call the handler
	d.CheckErr = errors.ErrUnauthorized
	d.DeliverErr = errors.ErrState
	_, err = d.Check(nil, nil, nil, nil)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = d.Deliver(nil, nil, nil, nil)
	assert.True(t, errors.ErrState.Is(err))
	assert.Equal(t, 2, d.CheckCallCount())
	assert.Equal(t, 2, d.DeliverCallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestAuthMocks(t *testing.T) {
	a, b, c := NewCondition(), NewCondition(), NewCondition()
	assert.False(t, a.Equals(b))
	require.NoError(t, a.Validate())

	fixed := &Auth{Signer: c, Signers: []vault.Condition{a, b}}
	assert.Equal(t, []vault.Condition{a, b, c}, fixed.GetConditions(nil))
	assert.True(t, fixed.HasAddress(nil, c.Address()))
	assert.False(t, fixed.HasAddress(nil, NewCondition().Address()))

	var empty Auth
	assert.Nil(t, empty.GetConditions(nil))

	ctxAuth := &CtxAuth{Key: "signers"}
	ctx := context.Background()
	assert.Nil(t, ctxAuth.GetConditions(ctx))
	ctx = ctxAuth.SetConditions(ctx, a)
	assert.True(t, ctxAuth.HasAddress(ctx, a.Address()))
	assert.False(t, ctxAuth.HasAddress(ctx, b.Address()))
}

func TestAddressHelpers(t *testing.T) {
	addr := RandomAddr(t)
	assert.NoError(t, addr.Validate())
	assert.Equal(t, addr, ParseAddress(t, addr.String()))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 3}, SequenceID(3))
}
