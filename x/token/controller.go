package token

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// Controller gives access to the ledger of a single token. All funds
// movement of that token must go through the controller.
type Controller struct {
	ticker string
	tokens orm.ModelBucket
}

// NewController returns a controller for the ledger of the token with
// given ticker.
func NewController(ticker string) Controller {
	return Controller{
		ticker: ticker,
		tokens: NewTokenBucket(),
	}
}

// Ticker returns the ticker of the token this controller operates on.
func (c Controller) Ticker() string {
	return c.ticker
}

func (c Controller) balancePrefix() []byte {
	return []byte("tkn:" + c.ticker + ":bal:")
}

func (c Controller) balanceKey(account vault.Address) []byte {
	return append(c.balancePrefix(), account...)
}

// Addresses are of a fixed length so a plain concatenation is unambiguous.
func (c Controller) allowanceKey(owner, spender vault.Address) []byte {
	key := []byte("tkn:" + c.ticker + ":alw:")
	key = append(key, owner...)
	return append(key, spender...)
}

// Define stores a new token definition. A ticker can be defined only once.
func (c Controller) Define(db vault.KVStore, t *Token) error {
	if t.Ticker != c.ticker {
		return errors.Wrapf(errors.ErrInput, "ticker %q cannot be defined by %q ledger", t.Ticker, c.ticker)
	}
	switch err := c.tokens.Has(db, []byte(c.ticker)); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "ticker %q", c.ticker)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	if _, err := c.tokens.Put(db, []byte(c.ticker), t); err != nil {
		return errors.Wrap(err, "cannot store token")
	}
	return nil
}

// Token returns the definition of the token. ErrNotFound is returned if the
// token was never defined.
func (c Controller) Token(db vault.ReadOnlyKVStore) (*Token, error) {
	var t Token
	if err := c.tokens.One(db, []byte(c.ticker), &t); err != nil {
		return nil, errors.Wrapf(err, "token %q", c.ticker)
	}
	return &t, nil
}

// TotalSupply returns the amount issued so far.
func (c Controller) TotalSupply(db vault.ReadOnlyKVStore) (coin.Amount, error) {
	t, err := c.Token(db)
	if err != nil {
		return 0, err
	}
	return t.Supply, nil
}

// BalanceOf returns the funds held by given account. An unknown account
// holds nothing.
func (c Controller) BalanceOf(db vault.ReadOnlyKVStore, account vault.Address) (coin.Amount, error) {
	return loadAmount(db, c.balanceKey(account))
}

// Allowance returns the amount spender is still allowed to move from the
// owner's account.
func (c Controller) Allowance(db vault.ReadOnlyKVStore, owner, spender vault.Address) (coin.Amount, error) {
	return loadAmount(db, c.allowanceKey(owner, spender))
}

// Transfer moves funds between two accounts. It fails with
// ErrInsufficientBalance if the source does not hold enough funds. Nothing
// is written unless the whole transfer succeeds.
func (c Controller) Transfer(db vault.KVStore, from, to vault.Address, amount coin.Amount) error {
	if amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}
	if _, err := c.Token(db); err != nil {
		return err
	}

	fromKey := c.balanceKey(from)
	available, err := loadAmount(db, fromKey)
	if err != nil {
		return err
	}
	remaining, err := available.Sub(amount)
	if err != nil {
		return errors.Wrapf(ErrInsufficientBalance, "%s holds %s %s, %s required", from, available, c.ticker, amount)
	}
	if from.Equals(to) {
		return nil
	}

	toKey := c.balanceKey(to)
	current, err := loadAmount(db, toKey)
	if err != nil {
		return err
	}
	total, err := current.Add(amount)
	if err != nil {
		return errors.Wrap(err, "recipient balance")
	}

	if err := saveAmount(db, fromKey, remaining); err != nil {
		return err
	}
	return saveAmount(db, toKey, total)
}

// TransferFrom moves funds from the owner's account using the allowance
// granted to the spender. The allowance is decreased by the transferred
// amount.
func (c Controller) TransferFrom(db vault.KVStore, spender, owner, to vault.Address, amount coin.Amount) error {
	if amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}
	key := c.allowanceKey(owner, spender)
	allowed, err := loadAmount(db, key)
	if err != nil {
		return err
	}
	left, err := allowed.Sub(amount)
	if err != nil {
		return errors.Wrapf(ErrInsufficientAllowance, "%s allowed %s to spend %s %s, %s required", owner, spender, allowed, c.ticker, amount)
	}
	if err := c.Transfer(db, owner, to, amount); err != nil {
		return err
	}
	return saveAmount(db, key, left)
}

// Approve grants spender the right to move up to given amount from the
// owner's account. Any previous grant is replaced. A zero amount revokes
// the grant.
func (c Controller) Approve(db vault.KVStore, owner, spender vault.Address, amount coin.Amount) error {
	if _, err := c.Token(db); err != nil {
		return err
	}
	return saveAmount(db, c.allowanceKey(owner, spender), amount)
}

// Mint issues new funds to given account. Only the minter of the token is
// allowed to do it.
func (c Controller) Mint(db vault.KVStore, minter, to vault.Address, amount coin.Amount) error {
	if amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "zero mint")
	}
	t, err := c.Token(db)
	if err != nil {
		return err
	}
	if !t.Minter.Equals(minter) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not the %s minter", minter, c.ticker)
	}
	supply, err := t.Supply.Add(amount)
	if err != nil {
		return errors.Wrap(err, "total supply")
	}

	key := c.balanceKey(to)
	current, err := loadAmount(db, key)
	if err != nil {
		return err
	}
	balance, err := current.Add(amount)
	if err != nil {
		return errors.Wrap(err, "recipient balance")
	}

	t.Supply = supply
	if _, err := c.tokens.Put(db, []byte(c.ticker), t); err != nil {
		return errors.Wrap(err, "cannot store token")
	}
	return saveAmount(db, key, balance)
}

// Holders calls fn for every account that holds a non zero balance, in
// order of addresses.
func (c Controller) Holders(db vault.ReadOnlyKVStore, fn func(account vault.Address, amount coin.Amount) error) error {
	prefix := c.balancePrefix()
	it, err := db.Iterator(prefix, orm.PrefixEnd(prefix))
	if err != nil {
		return errors.Wrap(err, "cannot create iterator")
	}
	defer it.Release()

	for {
		key, value, err := it.Next()
		switch {
		case err == nil:
		case errors.ErrIteratorDone.Is(err):
			return nil
		default:
			return errors.Wrap(err, "iterator")
		}
		var h holding
		if err := proto.Unmarshal(value, &h); err != nil {
			return errors.Wrapf(errors.ErrModel, "cannot unmarshal balance: %s", err)
		}
		if err := fn(vault.Address(key[len(prefix):]), h.Amount); err != nil {
			return err
		}
	}
}

func loadAmount(db vault.ReadOnlyKVStore, key []byte) (coin.Amount, error) {
	raw, err := db.Get(key)
	if err != nil {
		return 0, errors.Wrap(err, "cannot read")
	}
	if len(raw) == 0 {
		return 0, nil
	}
	var h holding
	if err := proto.Unmarshal(raw, &h); err != nil {
		return 0, errors.Wrapf(errors.ErrModel, "cannot unmarshal: %s", err)
	}
	return h.Amount, nil
}

// saveAmount removes the entry for a zero amount.
func saveAmount(db vault.KVStore, key []byte, amount coin.Amount) error {
	if amount.IsZero() {
		if err := db.Delete(key); err != nil {
			return errors.Wrap(err, "cannot delete")
		}
		return nil
	}
	raw, err := proto.Marshal(&holding{Amount: amount})
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot marshal: %s", err)
	}
	if err := db.Set(key, raw); err != nil {
		return errors.Wrap(err, "cannot write")
	}
	return nil
}
