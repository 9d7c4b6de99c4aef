package loanescrow

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
)

const (
	pathRequestLoanMsg         = "loanescrow/request"
	pathRepayLoanMsg           = "loanescrow/repay"
	pathSettleDefaultMsg       = "loanescrow/settle"
	pathProvideLiquidityMsg    = "loanescrow/provide_liquidity"
	pathUpdateConfigurationMsg = "loanescrow/update_configuration"
)

var _ vault.Msg = (*RequestLoanMsg)(nil)
var _ vault.Msg = (*RepayLoanMsg)(nil)
var _ vault.Msg = (*SettleDefaultMsg)(nil)
var _ vault.Msg = (*ProvideLiquidityMsg)(nil)
var _ vault.Msg = (*UpdateConfigurationMsg)(nil)

// RequestLoanMsg requests a new loan. The borrower is the main signer.
type RequestLoanMsg struct {
	CollateralAmount coin.Amount
	PrincipalAmount  coin.Amount
	DurationSeconds  int64
}

func (RequestLoanMsg) Path() string {
	return pathRequestLoanMsg
}

func (m *RequestLoanMsg) Validate() error {
	var errs error
	if m.CollateralAmount.IsZero() {
		errs = errors.AppendField(errs, "CollateralAmount", errors.Wrap(errors.ErrAmount, "must be greater than zero"))
	}
	if m.PrincipalAmount.IsZero() {
		errs = errors.AppendField(errs, "PrincipalAmount", errors.Wrap(errors.ErrAmount, "must be greater than zero"))
	}
	if m.DurationSeconds <= 0 {
		errs = errors.AppendField(errs, "DurationSeconds", errors.Wrap(errors.ErrAmount, "must be greater than zero"))
	}
	return errs
}

// RepayLoanMsg repays an active loan. It must be signed by the borrower.
type RepayLoanMsg struct {
	LoanID []byte
}

func (RepayLoanMsg) Path() string {
	return pathRepayLoanMsg
}

func (m *RepayLoanMsg) Validate() error {
	return validateLoanID(m.LoanID)
}

// SettleDefaultMsg settles a loan whose term has elapsed.
type SettleDefaultMsg struct {
	LoanID []byte
}

func (SettleDefaultMsg) Path() string {
	return pathSettleDefaultMsg
}

func (m *SettleDefaultMsg) Validate() error {
	return validateLoanID(m.LoanID)
}

// ProvideLiquidityMsg moves loan tokens from the lender into the escrow
// custody. The lender is the main signer and must have granted the escrow
// an allowance of at least the provided amount.
type ProvideLiquidityMsg struct {
	Amount coin.Amount
}

func (ProvideLiquidityMsg) Path() string {
	return pathProvideLiquidityMsg
}

func (m *ProvideLiquidityMsg) Validate() error {
	if m.Amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "must be greater than zero")
	}
	return nil
}

// UpdateConfigurationMsg changes the escrow policy. Zero value fields of
// the patch leave the current value unchanged. Fields named in Clear are
// reset first, so that for example an empty Settlers list lets anyone
// settle again.
type UpdateConfigurationMsg struct {
	Patch *Configuration
	Clear []string
}

var _ gconf.FieldClearer = (*UpdateConfigurationMsg)(nil)

// clearableFields are the policy fields that have a meaningful zero value.
var clearableFields = map[string]bool{
	"Settlers":           true,
	"ForfeitDestination": true,
	"MaxDurationSeconds": true,
}

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) ConfigPatch() gconf.OwnedConfig {
	return m.Patch
}

func (m *UpdateConfigurationMsg) ClearedFields() []string {
	return m.Clear
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	for _, name := range m.Clear {
		if !clearableFields[name] {
			return errors.Wrapf(errors.ErrInput, "field %q cannot be cleared", name)
		}
	}
	return m.Patch.Validate()
}

func validateLoanID(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "loan id")
	}
	if len(id) != 8 {
		return errors.Wrapf(errors.ErrInput, "loan id %X", id)
	}
	return nil
}
