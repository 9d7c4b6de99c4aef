package token

import (
	"context"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlers(t *testing.T) {
	minter := vaulttest.NewCondition()
	alice := vaulttest.NewCondition()
	bob := vaulttest.NewCondition()

	cases := map[string]struct {
		Msg            vault.Msg
		Signers        []vault.Condition
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
		WantEvent      string
		WantAlice      coin.Amount
		WantBob        coin.Amount
		WantAllowance  coin.Amount
	}{
		"mint": {
			Msg:       &MintMsg{Ticker: "GOLD", Recipient: bob.Address(), Amount: 5},
			Signers:   []vault.Condition{minter},
			WantEvent: "token_minted",
			WantAlice: 100,
			WantBob:   5,
		},
		"mint requires the minter signature": {
			Msg:            &MintMsg{Ticker: "GOLD", Recipient: bob.Address(), Amount: 5},
			Signers:        []vault.Condition{alice},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantAlice:      100,
		},
		"mint of an unknown token": {
			Msg:            &MintMsg{Ticker: "SILVER", Recipient: bob.Address(), Amount: 5},
			Signers:        []vault.Condition{minter},
			WantCheckErr:   errors.ErrNotFound,
			WantDeliverErr: errors.ErrNotFound,
			WantAlice:      100,
		},
		"transfer from the main signer": {
			Msg:       &TransferMsg{Ticker: "GOLD", Destination: bob.Address(), Amount: 40},
			Signers:   []vault.Condition{alice},
			WantEvent: "token_transferred",
			WantAlice: 60,
			WantBob:   40,
		},
		"transfer requires the source signature": {
			Msg:            &TransferMsg{Ticker: "GOLD", Source: alice.Address(), Destination: bob.Address(), Amount: 40},
			Signers:        []vault.Condition{bob},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantAlice:      100,
		},
		"transfer without a signer": {
			Msg:            &TransferMsg{Ticker: "GOLD", Destination: bob.Address(), Amount: 40},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantAlice:      100,
		},
		"transfer exceeding the balance": {
			Msg:            &TransferMsg{Ticker: "GOLD", Destination: bob.Address(), Amount: 400},
			Signers:        []vault.Condition{alice},
			WantCheckErr:   ErrInsufficientBalance,
			WantDeliverErr: ErrInsufficientBalance,
			WantAlice:      100,
		},
		"zero transfer is an invalid message": {
			Msg:            &TransferMsg{Ticker: "GOLD", Destination: bob.Address()},
			Signers:        []vault.Condition{alice},
			WantCheckErr:   errors.ErrAmount,
			WantDeliverErr: errors.ErrAmount,
			WantAlice:      100,
		},
		"approve": {
			Msg:           &ApproveMsg{Ticker: "GOLD", Spender: bob.Address(), Amount: 50},
			Signers:       []vault.Condition{alice},
			WantEvent:     "token_approved",
			WantAlice:     100,
			WantAllowance: 50,
		},
		"approve requires the owner signature": {
			Msg:            &ApproveMsg{Ticker: "GOLD", Owner: alice.Address(), Spender: bob.Address(), Amount: 50},
			Signers:        []vault.Condition{bob},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantAlice:      100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := defineGold(t, db, minter.Address())
			require.NoError(t, ctrl.Mint(db, minter.Address(), alice.Address(), 100))

			auth := &vaulttest.CtxAuth{Key: "auth"}
			ctx := auth.SetConditions(context.Background(), tc.Signers...)

			rt := &router{handlers: map[string]vault.Handler{}}
			RegisterRoutes(rt, auth)
			h := rt.handlers[tc.Msg.Path()]
			require.NotNil(t, h, "no handler for %s", tc.Msg.Path())

			tx := &vaulttest.Tx{Msg: tc.Msg}

			cache := db.CacheWrap()
			_, err := h.Check(ctx, cache, tx)
			require.True(t, tc.WantCheckErr.Is(err), "unexpected check error: %+v", err)
			cache.Discard()

			res, err := h.Deliver(ctx, db, tx)
			require.True(t, tc.WantDeliverErr.Is(err), "unexpected deliver error: %+v", err)
			if tc.WantDeliverErr == nil {
				require.Len(t, res.Events, 1)
				assert.Equal(t, tc.WantEvent, res.Events[0].Type)
			}

			got, err := ctrl.BalanceOf(db, alice.Address())
			require.NoError(t, err)
			assert.Equal(t, tc.WantAlice, got, "alice balance")
			got, err = ctrl.BalanceOf(db, bob.Address())
			require.NoError(t, err)
			assert.Equal(t, tc.WantBob, got, "bob balance")
			got, err = ctrl.Allowance(db, alice.Address(), bob.Address())
			require.NoError(t, err)
			assert.Equal(t, tc.WantAllowance, got, "allowance")
		})
	}
}

// router is a minimal registry that keeps handlers by message path.
type router struct {
	handlers map[string]vault.Handler
}

func (r *router) Handle(m vault.Msg, h vault.Handler) {
	r.handlers[m.Path()] = h
}
