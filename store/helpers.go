package store

import (
	"github.com/iov-one/vault/errors"
)

// Model is a key-value pair.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair builds a Model.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// SliceIterator iterates over a fixed list of pairs.
type SliceIterator struct {
	models []Model
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator returns pairs in the order given.
func NewSliceIterator(models []Model) *SliceIterator {
	return &SliceIterator{models: models}
}

func (s *SliceIterator) Next() (key, value []byte, err error) {
	if len(s.models) == 0 {
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "slice iterator")
	}
	m := s.models[0]
	s.models = s.models[1:]
	return m.Key, m.Value, nil
}

func (s *SliceIterator) Release() {
	s.models = nil
}

// EmptyKVStore holds nothing and drops all writes. It is the bottom layer
// of MemStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get(key []byte) ([]byte, error) { return nil, nil }
func (EmptyKVStore) Has(key []byte) (bool, error)   { return false, nil }
func (EmptyKVStore) Set(key, value []byte) error    { return nil }
func (EmptyKVStore) Delete(key []byte) error        { return nil }
func (e EmptyKVStore) NewBatch() Batch              { return NewNonAtomicBatch(e) }

func (EmptyKVStore) Iterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

// Op is a single pending write.
type Op struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// SetOp writes value under key.
func SetOp(key, value []byte) Op {
	return Op{Key: key, Value: value}
}

// DelOp removes key.
func DelOp(key []byte) Op {
	return Op{Key: key, Delete: true}
}

// Apply performs the write on out.
func (o Op) Apply(out SetDeleter) error {
	if o.Delete {
		return out.Delete(o.Key)
	}
	return out.Set(o.Key, o.Value)
}

// NonAtomicBatch queues writes and replays them in order on Write. A failed
// write leaves the earlier ones applied, so only in-memory stores use it.
type NonAtomicBatch struct {
	out     SetDeleter
	pending []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch queues writes for out.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.pending = append(b.pending, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.pending = append(b.pending, DelOp(key))
	return nil
}

// Write replays the queued writes and empties the queue.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.pending {
		if err := op.Apply(b.out); err != nil {
			return err
		}
	}
	b.pending = nil
	return nil
}

// Pending returns the number of queued writes.
func (b *NonAtomicBatch) Pending() int {
	return len(b.pending)
}
