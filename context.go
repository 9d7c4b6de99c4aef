package vault

import (
	"context"
	"time"

	"github.com/iov-one/vault/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Context carries the height, time and logger of the call being processed.
type Context = context.Context

type ctxKey int

const (
	heightKey ctxKey = iota
	blockTimeKey
	loggerKey
)

// DefaultLogger is returned by GetLogger when the context has none.
var DefaultLogger = log.NewNopLogger()

// WithHeight sets the height of the call. It panics when the height is
// already set, a call keeps one height.
func WithHeight(ctx Context, height int64) Context {
	if _, ok := GetHeight(ctx); ok {
		panic("height already set")
	}
	return context.WithValue(ctx, heightKey, height)
}

func GetHeight(ctx Context) (int64, bool) {
	h, ok := ctx.Value(heightKey).(int64)
	return h, ok
}

// WithBlockTime sets the time every operation of the call treats as now.
// It panics when the time is already set.
func WithBlockTime(ctx Context, now time.Time) Context {
	if _, err := BlockTime(ctx); err == nil {
		panic("block time already set")
	}
	return context.WithValue(ctx, blockTimeKey, now)
}

// BlockTime returns the time of the call. A missing time is a setup
// mistake and fails with ErrHuman.
func BlockTime(ctx Context) (time.Time, error) {
	now, ok := ctx.Value(blockTimeKey).(time.Time)
	if !ok {
		return time.Time{}, errors.Wrap(errors.ErrHuman, "no block time in context")
	}
	return now, nil
}

// IsExpired reports whether the call time reached t. A call made exactly
// at t sees it expired. It panics without a block time.
func IsExpired(ctx Context, t UnixTime) bool {
	now, err := BlockTime(ctx)
	if err != nil {
		panic(err)
	}
	return t <= AsUnixTime(now)
}

func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func GetLogger(ctx Context) log.Logger {
	if l, ok := ctx.Value(loggerKey).(log.Logger); ok {
		return l
	}
	return DefaultLogger
}
