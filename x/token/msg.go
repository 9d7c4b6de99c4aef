package token

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
)

const (
	pathMintMsg     = "token/mint"
	pathTransferMsg = "token/transfer"
	pathApproveMsg  = "token/approve"
)

var _ vault.Msg = (*MintMsg)(nil)
var _ vault.Msg = (*TransferMsg)(nil)
var _ vault.Msg = (*ApproveMsg)(nil)

// MintMsg issues new funds. It must be signed by the token minter.
type MintMsg struct {
	Ticker    string
	Recipient vault.Address
	Amount    coin.Amount
}

func (MintMsg) Path() string {
	return pathMintMsg
}

func (m *MintMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Ticker", validateTicker(m.Ticker))
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	errs = errors.AppendField(errs, "Amount", validateAmount(m.Amount))
	return errs
}

// TransferMsg moves funds between accounts. When Source is not set, the
// main signer is the source.
type TransferMsg struct {
	Ticker      string
	Source      vault.Address
	Destination vault.Address
	Amount      coin.Amount
}

func (TransferMsg) Path() string {
	return pathTransferMsg
}

func (m *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Ticker", validateTicker(m.Ticker))
	if m.Source != nil {
		errs = errors.AppendField(errs, "Source", m.Source.Validate())
	}
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	errs = errors.AppendField(errs, "Amount", validateAmount(m.Amount))
	return errs
}

// ApproveMsg sets the allowance of a spender. A zero amount revokes it.
// When Owner is not set, the main signer is the owner.
type ApproveMsg struct {
	Ticker  string
	Owner   vault.Address
	Spender vault.Address
	Amount  coin.Amount
}

func (ApproveMsg) Path() string {
	return pathApproveMsg
}

func (m *ApproveMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Ticker", validateTicker(m.Ticker))
	if m.Owner != nil {
		errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	}
	errs = errors.AppendField(errs, "Spender", m.Spender.Validate())
	return errs
}

func validateTicker(ticker string) error {
	if !coin.IsTicker(ticker) {
		return errors.Wrapf(errors.ErrInput, "invalid ticker %q", ticker)
	}
	return nil
}

func validateAmount(a coin.Amount) error {
	if a.IsZero() {
		return errors.Wrap(errors.ErrAmount, "must be greater than zero")
	}
	return nil
}
