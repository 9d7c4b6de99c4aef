package app

import (
	"reflect"

	"github.com/iov-one/vault"
)

// Decorators is an ordered list of decorators waiting for the handler they
// wrap. The first decorator is the outermost one.
type Decorators struct {
	chain []vault.Decorator
}

// ChainDecorators returns decorators executed in given order. Nil values
// are skipped, so optional decorators can be passed unconditionally.
//
//   app.ChainDecorators(app.NewLogging(), app.NewRecovery()).WithHandler(router)
func ChainDecorators(chain ...vault.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a copy of the decorators extended with given ones.
func (d Decorators) Chain(chain ...vault.Decorator) Decorators {
	res := make([]vault.Decorator, 0, len(d.chain)+len(chain))
	res = append(res, d.chain...)
	for _, dec := range chain {
		if !isNil(dec) {
			res = append(res, dec)
		}
	}
	return Decorators{chain: res}
}

func isNil(d vault.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler returns h wrapped by all decorators.
func (d Decorators) WithHandler(h vault.Handler) vault.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{dec: d.chain[i], next: h}
	}
	return h
}

// step is a single decorator bound to the handler it wraps.
type step struct {
	dec  vault.Decorator
	next vault.Handler
}

var _ vault.Handler = step{}

func (s step) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	return s.dec.Check(ctx, db, tx, s.next)
}

func (s step) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	return s.dec.Deliver(ctx, db, tx, s.next)
}
