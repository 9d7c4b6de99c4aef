package token

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r vault.Registry, auth x.Authenticator) {
	r.Handle(&MintMsg{}, MintHandler{auth: auth})
	r.Handle(&TransferMsg{}, TransferHandler{auth: auth})
	r.Handle(&ApproveMsg{}, ApproveHandler{auth: auth})
}

// MintHandler issues new funds.
type MintHandler struct {
	auth x.Authenticator
}

var _ vault.Handler = MintHandler{}

func (h MintHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

func (h MintHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, t, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := NewController(msg.Ticker).Mint(db, t.Minter, msg.Recipient, msg.Amount); err != nil {
		return nil, err
	}
	return &vault.DeliverResult{
		Events: []vault.Event{
			vault.NewEvent("token_minted",
				"ticker", msg.Ticker,
				"recipient", msg.Recipient.String(),
				"amount", msg.Amount.String()),
		},
	}, nil
}

func (h MintHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*MintMsg, *Token, error) {
	var msg MintMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	t, err := NewController(msg.Ticker).Token(db)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, t.Minter) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "minter signature required")
	}
	return &msg, t, nil
}

// TransferHandler moves funds between accounts.
type TransferHandler struct {
	auth x.Authenticator
}

var _ vault.Handler = TransferHandler{}

func (h TransferHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	msg, src, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	ctrl := NewController(msg.Ticker)
	available, err := ctrl.BalanceOf(db, src)
	if err != nil {
		return nil, err
	}
	if available < msg.Amount {
		return nil, errors.Wrapf(ErrInsufficientBalance, "%s holds %s %s", src, available, msg.Ticker)
	}
	return &vault.CheckResult{}, nil
}

func (h TransferHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, src, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := NewController(msg.Ticker).Transfer(db, src, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &vault.DeliverResult{
		Events: []vault.Event{
			vault.NewEvent("token_transferred",
				"ticker", msg.Ticker,
				"source", src.String(),
				"destination", msg.Destination.String(),
				"amount", msg.Amount.String()),
		},
	}, nil
}

func (h TransferHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*TransferMsg, vault.Address, error) {
	var msg TransferMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	src, err := signerOrDefault(ctx, h.auth, msg.Source)
	if err != nil {
		return nil, nil, errors.Wrap(err, "source")
	}
	if _, err := NewController(msg.Ticker).Token(db); err != nil {
		return nil, nil, err
	}
	return &msg, src, nil
}

// ApproveHandler sets the allowance of a spender.
type ApproveHandler struct {
	auth x.Authenticator
}

var _ vault.Handler = ApproveHandler{}

func (h ApproveHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

func (h ApproveHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := NewController(msg.Ticker).Approve(db, owner, msg.Spender, msg.Amount); err != nil {
		return nil, err
	}
	return &vault.DeliverResult{
		Events: []vault.Event{
			vault.NewEvent("token_approved",
				"ticker", msg.Ticker,
				"owner", owner.String(),
				"spender", msg.Spender.String(),
				"amount", msg.Amount.String()),
		},
	}, nil
}

func (h ApproveHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*ApproveMsg, vault.Address, error) {
	var msg ApproveMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	owner, err := signerOrDefault(ctx, h.auth, msg.Owner)
	if err != nil {
		return nil, nil, errors.Wrap(err, "owner")
	}
	if _, err := NewController(msg.Ticker).Token(db); err != nil {
		return nil, nil, err
	}
	return &msg, owner, nil
}

// signerOrDefault returns given address if it signed the call, or the main
// signer if no address was given.
func signerOrDefault(ctx vault.Context, auth x.Authenticator, addr vault.Address) (vault.Address, error) {
	if addr == nil {
		signer := x.MainSigner(ctx, auth)
		if signer == nil {
			return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		return signer.Address(), nil
	}
	if !auth.HasAddress(ctx, addr) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", addr)
	}
	return addr, nil
}
