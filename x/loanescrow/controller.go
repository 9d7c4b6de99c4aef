package loanescrow

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/x/token"
)

// AssetLedger is the part of a fungible asset ledger the escrow depends on.
// Failed transfers report token.ErrInsufficientBalance or
// token.ErrInsufficientAllowance.
type AssetLedger interface {
	Ticker() string
	BalanceOf(db vault.ReadOnlyKVStore, account vault.Address) (coin.Amount, error)
	Allowance(db vault.ReadOnlyKVStore, owner, spender vault.Address) (coin.Amount, error)
	Transfer(db vault.KVStore, from, to vault.Address, amount coin.Amount) error
	TransferFrom(db vault.KVStore, spender, owner, to vault.Address, amount coin.Amount) error
}

var _ AssetLedger = token.Controller{}

// EscrowCondition returns the condition of the escrow custody account.
func EscrowCondition() vault.Condition {
	return vault.NewCondition(packageName, "custody", []byte("escrow"))
}

// EscrowAddress returns the address of the escrow custody account. Both
// the pledged collateral and the loan liquidity are held by it.
func EscrowAddress() vault.Address {
	return EscrowCondition().Address()
}

// Controller implements the loan lifecycle. Every state changing method
// either fully succeeds or leaves the database untouched.
type Controller struct {
	collateral AssetLedger
	loan       AssetLedger
	loans      orm.ModelBucket
	custody    vault.Address
}

// NewController returns a controller moving collateral using the first
// ledger and loan proceeds using the second one. Both ledgers must operate
// on different tokens.
func NewController(collateral, loan AssetLedger) *Controller {
	if collateral.Ticker() == loan.Ticker() {
		panic("collateral and loan token must differ: " + loan.Ticker())
	}
	return &Controller{
		collateral: collateral,
		loan:       loan,
		loans:      NewLoanBucket(),
		custody:    EscrowAddress(),
	}
}

// CollateralLedger returns the ledger of the collateral token.
func (c *Controller) CollateralLedger() AssetLedger {
	return c.collateral
}

// LoanLedger returns the ledger of the loan token.
func (c *Controller) LoanLedger() AssetLedger {
	return c.loan
}

// CheckRequest returns an error if a loan with given terms cannot be
// granted to the borrower. It does not modify the state.
func (c *Controller) CheckRequest(ctx vault.Context, db vault.ReadOnlyKVStore, borrower vault.Address, collateral, principal coin.Amount, duration int64) error {
	_, err := c.prepareRequest(ctx, db, borrower, collateral, principal, duration)
	return err
}

func (c *Controller) prepareRequest(ctx vault.Context, db vault.ReadOnlyKVStore, borrower vault.Address, collateral, principal coin.Amount, duration int64) (*Loan, error) {
	if collateral.IsZero() {
		return nil, errors.Wrap(errors.ErrAmount, "zero collateral")
	}
	if principal.IsZero() {
		return nil, errors.Wrap(errors.ErrAmount, "zero principal")
	}
	if duration <= 0 {
		return nil, errors.Wrapf(errors.ErrAmount, "duration %d", duration)
	}
	if err := borrower.Validate(); err != nil {
		return nil, errors.Wrap(err, "borrower")
	}
	if borrower.Equals(c.custody) {
		return nil, errors.Wrap(errors.ErrInput, "escrow cannot borrow")
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if conf.MaxDurationSeconds > 0 && duration > conf.MaxDurationSeconds {
		return nil, errors.Wrapf(errors.ErrAmount, "duration %d exceeds the %d limit", duration, conf.MaxDurationSeconds)
	}

	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}
	loan := &Loan{
		Metadata:         &vault.Metadata{Schema: 1},
		Borrower:         borrower,
		CollateralAmount: collateral,
		PrincipalAmount:  principal,
		DurationSeconds:  duration,
		StartTime:        now,
		State:            LoanStateActive,
	}
	if _, err := loan.Deadline(); err != nil {
		return nil, errors.Wrap(err, "deadline")
	}

	allowed, err := c.collateral.Allowance(db, borrower, c.custody)
	if err != nil {
		return nil, errors.Wrap(err, "collateral allowance")
	}
	if allowed < collateral {
		return nil, errors.Wrapf(token.ErrInsufficientAllowance, "escrow allowed to take %s %s, %s required", allowed, c.collateral.Ticker(), collateral)
	}
	held, err := c.collateral.BalanceOf(db, borrower)
	if err != nil {
		return nil, errors.Wrap(err, "collateral balance")
	}
	if held < collateral {
		return nil, errors.Wrapf(token.ErrInsufficientBalance, "borrower holds %s %s, %s required", held, c.collateral.Ticker(), collateral)
	}
	liquidity, err := c.loan.BalanceOf(db, c.custody)
	if err != nil {
		return nil, errors.Wrap(err, "escrow liquidity")
	}
	if liquidity < principal {
		return nil, errors.Wrapf(ErrInsufficientLiquidity, "escrow holds %s %s, %s required", liquidity, c.loan.Ticker(), principal)
	}
	return loan, nil
}

// RequestLoan pulls the collateral from the borrower into the escrow
// custody, disburses the principal to the borrower and creates an active
// loan.
func (c *Controller) RequestLoan(ctx vault.Context, db vault.KVStore, borrower vault.Address, collateral, principal coin.Amount, duration int64) (*Loan, error) {
	loan, err := c.prepareRequest(ctx, db, borrower, collateral, principal, duration)
	if err != nil {
		return nil, err
	}
	err = atomically(db, func(db vault.KVStore) error {
		if err := c.collateral.TransferFrom(db, c.custody, borrower, c.custody, collateral); err != nil {
			return errors.Wrap(err, "pull collateral")
		}
		if err := c.loan.Transfer(db, c.custody, borrower, principal); err != nil {
			if token.ErrInsufficientBalance.Is(err) {
				err = errors.Wrap(ErrInsufficientLiquidity, err.Error())
			}
			return errors.Wrap(err, "disburse principal")
		}
		seq := c.loans.Sequence()
		id, err := seq.NextVal(db)
		if err != nil {
			return errors.Wrap(err, "cannot acquire loan id")
		}
		loan.ID = id
		if _, err := c.loans.Put(db, id, loan); err != nil {
			return errors.Wrap(err, "cannot store loan")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// CheckRepay returns an error if the caller cannot repay given loan. It
// does not modify the state.
func (c *Controller) CheckRepay(ctx vault.Context, db vault.ReadOnlyKVStore, caller vault.Address, loanID []byte) error {
	_, err := c.prepareRepay(ctx, db, caller, loanID)
	return err
}

func (c *Controller) prepareRepay(ctx vault.Context, db vault.ReadOnlyKVStore, caller vault.Address, loanID []byte) (*Loan, error) {
	loan, err := c.activeLoan(db, loanID)
	if err != nil {
		return nil, err
	}
	if !loan.Borrower.Equals(caller) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the borrower can repay")
	}
	deadline, err := loan.Deadline()
	if err != nil {
		return nil, errors.Wrap(err, "deadline")
	}
	if _, err := blockNow(ctx); err != nil {
		return nil, err
	}
	if vault.IsExpired(ctx, deadline) {
		return nil, errors.Wrapf(ErrLoanExpired, "deadline %s", deadline)
	}

	allowed, err := c.loan.Allowance(db, loan.Borrower, c.custody)
	if err != nil {
		return nil, errors.Wrap(err, "repayment allowance")
	}
	if allowed < loan.PrincipalAmount {
		return nil, errors.Wrapf(ErrInsufficientFunds, "escrow allowed to take %s %s, %s required", allowed, c.loan.Ticker(), loan.PrincipalAmount)
	}
	held, err := c.loan.BalanceOf(db, loan.Borrower)
	if err != nil {
		return nil, errors.Wrap(err, "repayment balance")
	}
	if held < loan.PrincipalAmount {
		return nil, errors.Wrapf(ErrInsufficientFunds, "borrower holds %s %s, %s required", held, c.loan.Ticker(), loan.PrincipalAmount)
	}
	return loan, nil
}

// RepayLoan pulls the principal back from the borrower, returns the whole
// collateral and marks the loan as repaid.
func (c *Controller) RepayLoan(ctx vault.Context, db vault.KVStore, caller vault.Address, loanID []byte) (*Loan, error) {
	loan, err := c.prepareRepay(ctx, db, caller, loanID)
	if err != nil {
		return nil, err
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}
	err = atomically(db, func(db vault.KVStore) error {
		if err := c.loan.TransferFrom(db, c.custody, loan.Borrower, c.custody, loan.PrincipalAmount); err != nil {
			if token.ErrInsufficientAllowance.Is(err) || token.ErrInsufficientBalance.Is(err) {
				err = errors.Wrap(ErrInsufficientFunds, err.Error())
			}
			return errors.Wrap(err, "pull repayment")
		}
		if err := c.collateral.Transfer(db, c.custody, loan.Borrower, loan.CollateralAmount); err != nil {
			return errors.Wrap(err, "release collateral")
		}
		loan.State = LoanStateRepaid
		loan.ClosedAt = now
		if _, err := c.loans.Put(db, loan.ID, loan); err != nil {
			return errors.Wrap(err, "cannot store loan")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// CheckSettle returns an error if given loan cannot be settled as
// defaulted. It does not modify the state.
func (c *Controller) CheckSettle(ctx vault.Context, db vault.ReadOnlyKVStore, loanID []byte) error {
	_, err := c.prepareSettle(ctx, db, loanID)
	return err
}

func (c *Controller) prepareSettle(ctx vault.Context, db vault.ReadOnlyKVStore, loanID []byte) (*Loan, error) {
	loan, err := c.activeLoan(db, loanID)
	if err != nil {
		return nil, err
	}
	deadline, err := loan.Deadline()
	if err != nil {
		return nil, errors.Wrap(err, "deadline")
	}
	if _, err := blockNow(ctx); err != nil {
		return nil, err
	}
	if !vault.IsExpired(ctx, deadline) {
		return nil, errors.Wrapf(ErrLoanNotExpired, "deadline %s", deadline)
	}
	return loan, nil
}

// SettleDefault marks a loan whose term has elapsed as defaulted. The
// collateral is not returned to the borrower. It is moved to the configured
// forfeit destination, or stays in the escrow custody if none is set. The
// returned address is the destination the collateral was moved to, nil if
// it was retained.
func (c *Controller) SettleDefault(ctx vault.Context, db vault.KVStore, loanID []byte) (*Loan, vault.Address, error) {
	loan, err := c.prepareSettle(ctx, db, loanID)
	if err != nil {
		return nil, nil, err
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	dest := conf.ForfeitDestination
	if dest.Equals(c.custody) {
		dest = nil
	}
	err = atomically(db, func(db vault.KVStore) error {
		if len(dest) != 0 {
			if err := c.collateral.Transfer(db, c.custody, dest, loan.CollateralAmount); err != nil {
				return errors.Wrap(err, "forfeit collateral")
			}
		}
		loan.State = LoanStateDefaulted
		loan.ClosedAt = now
		if _, err := c.loans.Put(db, loan.ID, loan); err != nil {
			return errors.Wrap(err, "cannot store loan")
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if len(dest) == 0 {
		return loan, nil, nil
	}
	return loan, dest, nil
}

// ProvideLiquidity moves loan tokens from the lender into the escrow
// custody, using the allowance the lender granted to the escrow.
func (c *Controller) ProvideLiquidity(db vault.KVStore, lender vault.Address, amount coin.Amount) error {
	if amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "zero liquidity")
	}
	if lender.Equals(c.custody) {
		return errors.Wrap(errors.ErrInput, "escrow cannot provide liquidity to itself")
	}
	return atomically(db, func(db vault.KVStore) error {
		return c.loan.TransferFrom(db, c.custody, lender, c.custody, amount)
	})
}

// activeLoan returns the loan with given ID. A loan that does not exist or
// is not active cannot be operated on.
func (c *Controller) activeLoan(db vault.ReadOnlyKVStore, loanID []byte) (*Loan, error) {
	var loan Loan
	switch err := c.loans.One(db, loanID, &loan); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrInvalidLoanState, "loan %X not found", loanID)
	default:
		return nil, err
	}
	if loan.State != LoanStateActive {
		return nil, errors.Wrapf(ErrInvalidLoanState, "loan %X is %s", loanID, loan.State)
	}
	return &loan, nil
}

func blockNow(ctx vault.Context) (vault.UnixTime, error) {
	now, err := vault.BlockTime(ctx)
	if err != nil {
		return 0, err
	}
	return vault.AsUnixTime(now), nil
}

// atomically runs fn on a cache of db. The cache is written only if fn
// succeeds. Stores without their own cache get a btree one.
func atomically(db vault.KVStore, fn func(vault.KVStore) error) error {
	cdb, ok := db.(vault.CacheableKVStore)
	if !ok {
		cdb = store.BTreeCacheable{KVStore: db}
	}
	cache := cdb.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "cannot write")
	}
	return nil
}
