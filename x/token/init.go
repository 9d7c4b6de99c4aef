package token

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ vault.Initializer = (*Initializer)(nil)

// GenesisToken is the genesis representation of a token definition
// together with the funds issued at start.
type GenesisToken struct {
	Ticker   string          `json:"ticker"`
	Name     string          `json:"name"`
	Decimals uint32          `json:"decimals"`
	Minter   vault.Address   `json:"minter"`
	Balances []GenesisAmount `json:"balances"`
}

// GenesisAmount is an amount owned by a single account.
type GenesisAmount struct {
	Address vault.Address `json:"address"`
	Amount  coin.Amount   `json:"amount"`
}

// FromGenesis defines all tokens declared under the "tokens" key and mints
// their initial balances.
func (*Initializer) FromGenesis(opts vault.Options, db vault.KVStore) error {
	var tokens []GenesisToken
	if err := opts.ReadOptions("tokens", &tokens); err != nil {
		return err
	}

	for i, gt := range tokens {
		ctrl := NewController(gt.Ticker)
		t := &Token{
			Metadata: &vault.Metadata{Schema: 1},
			Ticker:   gt.Ticker,
			Name:     gt.Name,
			Decimals: gt.Decimals,
			Minter:   gt.Minter,
		}
		if err := ctrl.Define(db, t); err != nil {
			return errors.Wrapf(err, "token #%d", i)
		}
		for _, b := range gt.Balances {
			if err := ctrl.Mint(db, gt.Minter, b.Address, b.Amount); err != nil {
				return errors.Wrapf(err, "token %s balance of %s", gt.Ticker, b.Address)
			}
		}
	}
	return nil
}
