package loanescrow

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
)

// Initializer fulfils the Initializer interface to load the escrow policy
// from the genesis file. The policy is read from "conf.loanescrow". When
// not present, the default policy applies.
type Initializer struct{}

var _ vault.Initializer = (*Initializer)(nil)

func (*Initializer) FromGenesis(opts vault.Options, db vault.KVStore) error {
	var conf Configuration
	switch err := gconf.InitConfig(db, opts, packageName, &conf); {
	case err == nil, errors.ErrNotFound.Is(err):
		return nil
	default:
		return err
	}
}
