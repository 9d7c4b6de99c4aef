package vaulttest

import (
	"crypto/rand"

	"github.com/iov-one/vault"
)

// NewCondition returns a new, unique condition. Use it to represent a
// signer in tests.
func NewCondition() vault.Condition {
	data := make([]byte, 16)
	if _, err := rand.Read(data); err != nil {
		panic(err)
	}
	return vault.NewCondition("test", "signer", data)
}
