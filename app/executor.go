package app

import (
	"sync"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/x"
	"github.com/tendermint/tendermint/libs/log"
)

// SignerAuth is the authenticator of call signers. The executor attaches
// the signers of every call to the context using it, so handlers must be
// built with it.
var SignerAuth = x.CtxAuth{Key: "signers"}

// Executor processes calls one at a time. Every call observes the state
// left by the previous one and either fully succeeds, in which case its
// changes are committed, or leaves the state untouched.
type Executor struct {
	mu      sync.Mutex
	store   *CommitStore
	handler vault.Handler
	clock   vault.Clock
	logger  log.Logger
	metrics *Metrics
	chainID string
}

// Result describes a committed call.
type Result struct {
	vault.DeliverResult
	// Height is the sequence number of the call.
	Height int64
	// Time is the block time the call was executed with.
	Time vault.UnixTime
	// Changes holds all values written by the call. A nil value marks a
	// deletion.
	Changes map[string][]byte
}

// NewExecutor returns an executor processing calls with given handler.
// Every call is stamped with the current time of the clock.
func NewExecutor(db vault.CommitKVStore, handler vault.Handler, clock vault.Clock) (*Executor, error) {
	cs, err := NewCommitStore(db)
	if err != nil {
		return nil, err
	}
	view := cs.CacheWrap()
	chainID, err := loadChainID(view)
	view.Discard()
	if err != nil {
		return nil, err
	}
	return &Executor{
		store:   cs,
		handler: handler,
		clock:   clock,
		logger:  log.NewNopLogger(),
		chainID: chainID,
	}, nil
}

// WithLogger sets the logger used for all processed calls.
func (e *Executor) WithLogger(logger log.Logger) *Executor {
	e.logger = logger
	return e
}

// WithMetrics sets the collector of call statistics.
func (e *Executor) WithMetrics(m *Metrics) *Executor {
	e.metrics = m
	return e
}

// ChainID returns the chain id set by the genesis. It is empty until the
// genesis is loaded.
func (e *Executor) ChainID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.chainID
}

// Height returns the number of committed versions of the state.
func (e *Executor) Height() (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	info, err := e.store.CommitInfo()
	if err != nil {
		return 0, err
	}
	return info.Version, nil
}

// InitGenesis initializes the state using given genesis document. This
// can be done only once.
func (e *Executor) InitGenesis(gen *Genesis, init vault.Initializer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis previously loaded for chain %q", e.chainID)
	}
	cache := e.store.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if err := init.FromGenesis(gen.AppState, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	info, err := e.store.Commit(cache)
	if err != nil {
		return errors.Wrap(err, "commit")
	}
	e.chainID = gen.ChainID
	e.logger.Info("genesis loaded", "chain_id", gen.ChainID, "height", info.Version)
	return nil
}

// Execute processes the message signed by given signers. The message is
// checked first and delivered only if the check passes. Changes are
// committed only if both steps succeed.
func (e *Executor) Execute(ctx vault.Context, signers []vault.Condition, msg vault.Msg) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	res, err := e.execute(ctx, signers, msg)
	e.metrics.observe(pathOf(msg), err, time.Since(start))
	return res, err
}

func (e *Executor) execute(ctx vault.Context, signers []vault.Condition, msg vault.Msg) (*Result, error) {
	if e.chainID == "" {
		return nil, errors.Wrap(errors.ErrState, "genesis not loaded")
	}
	ctx, height, now, err := e.callContext(ctx, signers, msg)
	if err != nil {
		return nil, err
	}
	tx := &msgTx{msg: msg}

	check := e.store.CacheWrap()
	_, err = e.handler.Check(ctx, check, tx)
	check.Discard()
	if err != nil {
		return nil, err
	}

	deliver := e.store.CacheWrap()
	rec := store.NewRecordingStore(deliver)
	res, err := e.handler.Deliver(ctx, rec, tx)
	if err != nil {
		deliver.Discard()
		return nil, err
	}
	if _, err := e.store.Commit(deliver); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	result := &Result{
		DeliverResult: *res,
		Height:        height,
		Time:          now,
	}
	if r, ok := rec.(store.Recorder); ok {
		result.Changes = r.Changes()
	}
	return result, nil
}

// Simulate checks if the message signed by given signers would be
// accepted. The state is not modified.
func (e *Executor) Simulate(ctx vault.Context, signers []vault.Condition, msg vault.Msg) (*vault.CheckResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, _, _, err := e.callContext(ctx, signers, msg)
	if err != nil {
		return nil, err
	}
	check := e.store.CacheWrap()
	defer check.Discard()
	return e.handler.Check(ctx, check, &msgTx{msg: msg})
}

// Query calls fn with a read only view of the latest committed state. No
// call is processed until fn returns.
func (e *Executor) Query(fn func(db vault.ReadOnlyKVStore) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	view := e.store.CacheWrap()
	defer view.Discard()
	return fn(view)
}

// callContext returns the context a call is processed with. The call is
// given the next height and the current clock time.
func (e *Executor) callContext(ctx vault.Context, signers []vault.Condition, msg vault.Msg) (vault.Context, int64, vault.UnixTime, error) {
	if msg == nil {
		return nil, 0, 0, errors.Wrap(errors.ErrMsg, "nil message")
	}
	info, err := e.store.CommitInfo()
	if err != nil {
		return nil, 0, 0, err
	}
	height := info.Version + 1
	now := e.clock.Now()

	ctx = vault.WithHeight(ctx, height)
	ctx = vault.WithBlockTime(ctx, now)
	ctx = vault.WithLogger(ctx, e.logger.With("height", height))
	ctx = SignerAuth.SetConditions(ctx, signers...)
	return ctx, height, vault.AsUnixTime(now), nil
}

func pathOf(msg vault.Msg) string {
	if msg == nil {
		return ""
	}
	return msg.Path()
}

// msgTx is a transaction carrying a single message.
type msgTx struct {
	msg vault.Msg
}

var _ vault.Tx = (*msgTx)(nil)

func (tx *msgTx) GetMsg() (vault.Msg, error) {
	return tx.msg, nil
}
