package app

import (
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Logging reports every call to the context logger. Checks are logged at
// debug level, delivered calls at info level and failures at error level.
type Logging struct{}

var _ vault.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Checker) (*vault.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	kv := callFields(tx, start, err)
	if err == nil {
		vault.GetLogger(ctx).Debug(res.Log, kv...)
	} else {
		vault.GetLogger(ctx).Debug("check failed", kv...)
	}
	return res, err
}

func (Logging) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Deliverer) (*vault.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	kv := callFields(tx, start, err)
	if err != nil {
		vault.GetLogger(ctx).Error("deliver failed", kv...)
		return res, err
	}
	vault.GetLogger(ctx).Info(res.Log, append(kv, "events", len(res.Events))...)
	return res, nil
}

// callFields describes a finished call as logger key value pairs.
func callFields(tx vault.Tx, start time.Time, err error) []interface{} {
	kv := []interface{}{"took", time.Since(start)}
	if msg, e := tx.GetMsg(); e == nil && msg != nil {
		kv = append(kv, "path", msg.Path())
	}
	if err != nil {
		code, _ := errors.Report(err, false)
		kv = append(kv, "code", code, "err", err)
	}
	return kv
}
