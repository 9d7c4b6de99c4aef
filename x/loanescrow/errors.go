package loanescrow

import (
	"github.com/iov-one/vault/errors"
)

var (
	// ErrInsufficientFunds is returned when the borrower cannot fund the
	// repayment, either because of the allowance or the balance.
	ErrInsufficientFunds = errors.Register(300, "insufficient funds")

	// ErrInsufficientLiquidity is returned when the escrow does not hold
	// enough loan tokens to disburse a loan.
	ErrInsufficientLiquidity = errors.Register(301, "insufficient liquidity")

	// ErrInvalidLoanState is returned when an operation is requested for
	// a loan that does not exist or is not active.
	ErrInvalidLoanState = errors.Register(302, "invalid loan state")

	// ErrLoanExpired is returned when repaying a loan after its deadline.
	ErrLoanExpired = errors.Register(303, "loan expired")

	// ErrLoanNotExpired is returned when settling a loan before its
	// deadline.
	ErrLoanNotExpired = errors.Register(304, "loan not expired")
)
