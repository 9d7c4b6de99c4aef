package x

import (
	"context"

	"github.com/iov-one/vault"
)

// Authenticator reveals who authorized the current call. Handlers receive
// one in their constructor.
type Authenticator interface {
	GetConditions(vault.Context) []vault.Condition
	HasAddress(vault.Context, vault.Address) bool
}

type chainAuth []Authenticator

// ChainAuth merges several authenticators. Conditions keep the order of
// the authenticators and appear only once.
func ChainAuth(auths ...Authenticator) Authenticator {
	return chainAuth(auths)
}

func (c chainAuth) GetConditions(ctx vault.Context) []vault.Condition {
	var res []vault.Condition
	seen := make(map[string]bool)
	for _, a := range c {
		for _, cond := range a.GetConditions(ctx) {
			if seen[string(cond)] {
				continue
			}
			seen[string(cond)] = true
			res = append(res, cond)
		}
	}
	return res
}

func (c chainAuth) HasAddress(ctx vault.Context, addr vault.Address) bool {
	for _, a := range c {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// CtxAuth reads the conditions stored in the context under Key. The
// executor stores the signers of every call this way.
type CtxAuth struct {
	Key string
}

var _ Authenticator = CtxAuth{}

type ctxAuthKey string

// SetConditions returns a copy of ctx carrying conds.
func (a CtxAuth) SetConditions(ctx vault.Context, conds ...vault.Condition) vault.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a CtxAuth) GetConditions(ctx vault.Context) []vault.Condition {
	conds, _ := ctx.Value(ctxAuthKey(a.Key)).([]vault.Condition)
	return conds
}

func (a CtxAuth) HasAddress(ctx vault.Context, addr vault.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}

// MainSigner is the first condition of the call, or nil when unsigned.
func MainSigner(ctx vault.Context, auth Authenticator) vault.Condition {
	if conds := auth.GetConditions(ctx); len(conds) != 0 {
		return conds[0]
	}
	return nil
}

// SignerAddresses lists the addresses of all conditions of the call.
func SignerAddresses(ctx vault.Context, auth Authenticator) []vault.Address {
	conds := auth.GetConditions(ctx)
	res := make([]vault.Address, len(conds))
	for i, c := range conds {
		res[i] = c.Address()
	}
	return res
}

// HasAnyAddress is true when at least one of addrs authorized the call.
func HasAnyAddress(ctx vault.Context, auth Authenticator, addrs []vault.Address) bool {
	for _, a := range addrs {
		if auth.HasAddress(ctx, a) {
			return true
		}
	}
	return false
}
