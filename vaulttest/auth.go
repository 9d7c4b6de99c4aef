package vaulttest

import (
	"context"
	"fmt"

	"github.com/iov-one/vault"
)

// Auth is an x.Authenticator that always authenticates a fixed set of
// signers, regardless of the context.
type Auth struct {
	Signer  vault.Condition
	Signers []vault.Condition
}

func (a *Auth) GetConditions(vault.Context) []vault.Condition {
	all := append([]vault.Condition(nil), a.Signers...)
	if a.Signer != nil {
		all = append(all, a.Signer)
	}
	return all
}

func (a *Auth) HasAddress(ctx vault.Context, addr vault.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth is an x.Authenticator that reads signers from the context. Use
// SetConditions to attach signers to a context.
type CtxAuth struct {
	Key string
}

func (a *CtxAuth) SetConditions(ctx vault.Context, conds ...vault.Condition) vault.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx vault.Context) []vault.Condition {
	switch v := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []vault.Condition:
		return v
	default:
		panic(fmt.Sprintf("context value %q is %T", a.Key, v))
	}
}

func (a *CtxAuth) HasAddress(ctx vault.Context, addr vault.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []vault.Condition, addr vault.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
