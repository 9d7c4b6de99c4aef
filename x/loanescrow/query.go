package loanescrow

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// LoanByID returns the loan with given ID.
func (c *Controller) LoanByID(db vault.ReadOnlyKVStore, loanID []byte) (*Loan, error) {
	var loan Loan
	if err := c.loans.One(db, loanID, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// LoansByBorrower returns all loans ever requested by given borrower, in
// order of creation.
func (c *Controller) LoansByBorrower(db vault.ReadOnlyKVStore, borrower vault.Address) ([]*Loan, error) {
	var loans []*Loan
	if _, err := c.loans.ByIndex(db, "borrower", borrower, &loans); err != nil {
		return nil, errors.Wrap(err, "borrower index")
	}
	return loans, nil
}

// LoansByState returns all loans in given state, in order of creation.
func (c *Controller) LoansByState(db vault.ReadOnlyKVStore, state LoanState) ([]*Loan, error) {
	var loans []*Loan
	if _, err := c.loans.ByIndex(db, "state", stateKey(state), &loans); err != nil {
		return nil, errors.Wrap(err, "state index")
	}
	return loans, nil
}

// Loans calls fn for every stored loan, in order of creation.
func (c *Controller) Loans(db vault.ReadOnlyKVStore, fn func(*Loan) error) error {
	return c.loans.Iterate(db, func(key []byte, m orm.Model) error {
		loan, err := toLoan(m)
		if err != nil {
			return err
		}
		return fn(loan)
	})
}

// Custody is the summary of funds held by the escrow.
type Custody struct {
	// CollateralHeld is the escrow balance of the collateral token.
	CollateralHeld coin.Amount
	// CollateralPledged is the sum of collateral of all active loans.
	CollateralPledged coin.Amount
	// Liquidity is the escrow balance of the loan token.
	Liquidity coin.Amount
	// ActiveLoans is the number of active loans.
	ActiveLoans int
}

// VerifyCustody returns the custody summary. An error is returned if the
// escrow does not hold enough collateral to back all active loans.
func (c *Controller) VerifyCustody(db vault.ReadOnlyKVStore) (*Custody, error) {
	active, err := c.LoansByState(db, LoanStateActive)
	if err != nil {
		return nil, err
	}
	var res Custody
	res.ActiveLoans = len(active)
	for _, l := range active {
		res.CollateralPledged, err = res.CollateralPledged.Add(l.CollateralAmount)
		if err != nil {
			return nil, errors.Wrap(err, "pledged collateral")
		}
	}
	if res.CollateralHeld, err = c.collateral.BalanceOf(db, c.custody); err != nil {
		return nil, errors.Wrap(err, "collateral balance")
	}
	if res.Liquidity, err = c.loan.BalanceOf(db, c.custody); err != nil {
		return nil, errors.Wrap(err, "liquidity")
	}
	if res.CollateralHeld < res.CollateralPledged {
		return &res, errors.Wrapf(errors.ErrHuman, "escrow holds %s %s, active loans pledged %s",
			res.CollateralHeld, c.collateral.Ticker(), res.CollateralPledged)
	}
	return &res, nil
}
