package loanescrow

import (
	"strconv"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
	"github.com/iov-one/vault/x"
	"github.com/iov-one/vault/x/token"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r vault.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(&RequestLoanMsg{}, RequestLoanHandler{auth: auth, ctrl: ctrl})
	r.Handle(&RepayLoanMsg{}, RepayLoanHandler{auth: auth, ctrl: ctrl})
	r.Handle(&SettleDefaultMsg{}, SettleDefaultHandler{auth: auth, ctrl: ctrl})
	r.Handle(&ProvideLiquidityMsg{}, ProvideLiquidityHandler{auth: auth, ctrl: ctrl})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateHandler(packageName, newConfiguration, auth, nil))
}

// RequestLoanHandler grants a loan to the main signer.
type RequestLoanHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ vault.Handler = RequestLoanHandler{}

func (h RequestLoanHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	msg, borrower, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.CheckRequest(ctx, db, borrower, msg.CollateralAmount, msg.PrincipalAmount, msg.DurationSeconds); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

func (h RequestLoanHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, borrower, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	loan, err := h.ctrl.RequestLoan(ctx, db, borrower, msg.CollateralAmount, msg.PrincipalAmount, msg.DurationSeconds)
	if err != nil {
		return nil, err
	}
	deadline, err := loan.Deadline()
	if err != nil {
		return nil, err
	}
	vault.GetLogger(ctx).Info("loan created",
		"loan", loan.SequenceID(),
		"borrower", borrower,
		"collateral", loan.CollateralAmount,
		"principal", loan.PrincipalAmount)
	return &vault.DeliverResult{
		Data: loan.ID,
		Log:  "loan " + loanIDString(loan) + " created",
		Events: []vault.Event{
			vault.NewEvent("loan_created",
				"loan_id", loanIDString(loan),
				"borrower", loan.Borrower.String(),
				"collateral", loan.CollateralAmount.String(),
				"principal", loan.PrincipalAmount.String(),
				"duration", strconv.FormatInt(loan.DurationSeconds, 10),
				"deadline", strconv.FormatInt(int64(deadline), 10)),
		},
	}, nil
}

func (h RequestLoanHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*RequestLoanMsg, vault.Address, error) {
	var msg RequestLoanMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "borrower signature required")
	}
	return &msg, signer.Address(), nil
}

// RepayLoanHandler repays an active loan.
type RepayLoanHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ vault.Handler = RepayLoanHandler{}

func (h RepayLoanHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	msg, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.CheckRepay(ctx, db, caller, msg.LoanID); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

func (h RepayLoanHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	loan, err := h.ctrl.RepayLoan(ctx, db, caller, msg.LoanID)
	if err != nil {
		return nil, err
	}
	vault.GetLogger(ctx).Info("loan repaid", "loan", loan.SequenceID(), "borrower", loan.Borrower)
	return &vault.DeliverResult{
		Data: loan.ID,
		Log:  "loan " + loanIDString(loan) + " repaid",
		Events: []vault.Event{
			vault.NewEvent("loan_repaid",
				"loan_id", loanIDString(loan),
				"borrower", loan.Borrower.String(),
				"collateral", loan.CollateralAmount.String(),
				"principal", loan.PrincipalAmount.String()),
		},
	}, nil
}

func (h RepayLoanHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*RepayLoanMsg, vault.Address, error) {
	var msg RepayLoanMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	// The borrower does not have to be the main signer.
	if loan, err := h.ctrl.LoanByID(db, msg.LoanID); err == nil && h.auth.HasAddress(ctx, loan.Borrower) {
		return &msg, loan.Borrower, nil
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "borrower signature required")
	}
	return &msg, signer.Address(), nil
}

// SettleDefaultHandler settles a loan whose term has elapsed.
type SettleDefaultHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ vault.Handler = SettleDefaultHandler{}

func (h SettleDefaultHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.CheckSettle(ctx, db, msg.LoanID); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

func (h SettleDefaultHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	loan, dest, err := h.ctrl.SettleDefault(ctx, db, msg.LoanID)
	if err != nil {
		return nil, err
	}
	forfeitedTo := "escrow"
	if dest != nil {
		forfeitedTo = dest.String()
	}
	vault.GetLogger(ctx).Info("loan defaulted", "loan", loan.SequenceID(), "forfeited_to", forfeitedTo)
	return &vault.DeliverResult{
		Data: loan.ID,
		Log:  "loan " + loanIDString(loan) + " defaulted",
		Events: []vault.Event{
			vault.NewEvent("loan_defaulted",
				"loan_id", loanIDString(loan),
				"borrower", loan.Borrower.String(),
				"collateral", loan.CollateralAmount.String(),
				"forfeited_to", forfeitedTo),
		},
	}, nil
}

func (h SettleDefaultHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*SettleDefaultMsg, error) {
	var msg SettleDefaultMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if len(conf.Settlers) != 0 && !x.HasAnyAddress(ctx, h.auth, conf.Settlers) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "settler signature required")
	}
	return &msg, nil
}

// ProvideLiquidityHandler moves loan tokens from the main signer into the
// escrow custody.
type ProvideLiquidityHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ vault.Handler = ProvideLiquidityHandler{}

func (h ProvideLiquidityHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	msg, lender, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	ledger := h.ctrl.LoanLedger()
	allowed, err := ledger.Allowance(db, lender, EscrowAddress())
	if err != nil {
		return nil, err
	}
	if allowed < msg.Amount {
		return nil, errors.Wrapf(token.ErrInsufficientAllowance, "escrow allowed to take %s %s", allowed, ledger.Ticker())
	}
	held, err := ledger.BalanceOf(db, lender)
	if err != nil {
		return nil, err
	}
	if held < msg.Amount {
		return nil, errors.Wrapf(token.ErrInsufficientBalance, "lender holds %s %s", held, ledger.Ticker())
	}
	return &vault.CheckResult{}, nil
}

func (h ProvideLiquidityHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, lender, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.ProvideLiquidity(db, lender, msg.Amount); err != nil {
		return nil, err
	}
	return &vault.DeliverResult{
		Events: []vault.Event{
			vault.NewEvent("liquidity_provided",
				"lender", lender.String(),
				"ticker", h.ctrl.LoanLedger().Ticker(),
				"amount", msg.Amount.String()),
		},
	}, nil
}

func (h ProvideLiquidityHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*ProvideLiquidityMsg, vault.Address, error) {
	var msg ProvideLiquidityMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "lender signature required")
	}
	return &msg, signer.Address(), nil
}

func loanIDString(l *Loan) string {
	return strconv.FormatInt(l.SequenceID(), 10)
}
