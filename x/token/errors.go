package token

import (
	"github.com/iov-one/vault/errors"
)

var (
	// ErrInsufficientBalance is returned when the source account does not
	// hold enough funds to complete a transfer.
	ErrInsufficientBalance = errors.Register(200, "insufficient balance")

	// ErrInsufficientAllowance is returned when a spender tries to move
	// more funds than the owner allowed.
	ErrInsufficientAllowance = errors.Register(201, "insufficient allowance")
)
