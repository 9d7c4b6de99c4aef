package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/vault/errors"
)

// stagedRange copies the staged entries within [start, end). The copy is
// descending when reverse is set.
func stagedRange(bt *btree.BTree, start, end []byte, reverse bool) []entry {
	var res []entry
	collect := func(item btree.Item) bool {
		res = append(res, item.(entry))
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(entry{key: end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(entry{key: start}, collect)
	default:
		bt.AscendRange(entry{key: start}, entry{key: end}, collect)
	}

	if reverse {
		for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
			res[i], res[j] = res[j], res[i]
		}
	}
	return res
}

// mergedIterator walks the staged entries and the parent iterator side by
// side. A staged entry hides the parent value under the same key and staged
// deletions are never returned.
type mergedIterator struct {
	staged  []entry
	pos     int
	reverse bool

	under     Iterator
	underKey  []byte
	underVal  []byte
	underDone bool
}

var _ Iterator = (*mergedIterator)(nil)

func newMergedIterator(staged []entry, under Iterator, reverse bool) (*mergedIterator, error) {
	it := &mergedIterator{
		staged:  staged,
		reverse: reverse,
		under:   under,
	}
	if err := it.pull(); err != nil {
		under.Release()
		return nil, err
	}
	return it, nil
}

// pull loads the next pair from the parent iterator.
func (it *mergedIterator) pull() error {
	if it.underDone {
		return nil
	}
	key, value, err := it.under.Next()
	if errors.ErrIteratorDone.Is(err) {
		it.underKey, it.underVal, it.underDone = nil, nil, true
		return nil
	}
	if err != nil {
		return err
	}
	it.underKey, it.underVal = key, value
	return nil
}

// takeUnder returns the buffered parent pair and pulls the next one.
func (it *mergedIterator) takeUnder() ([]byte, []byte, error) {
	key, value := it.underKey, it.underVal
	if err := it.pull(); err != nil {
		return nil, nil, err
	}
	return key, value, nil
}

// before reports whether a is visited before b in this iteration order.
func (it *mergedIterator) before(a, b []byte) bool {
	if it.reverse {
		return bytes.Compare(a, b) > 0
	}
	return bytes.Compare(a, b) < 0
}

func (it *mergedIterator) Next() (key, value []byte, err error) {
	for {
		if it.pos >= len(it.staged) {
			if it.underDone {
				return nil, nil, errors.Wrap(errors.ErrIteratorDone, "merged iterator")
			}
			return it.takeUnder()
		}

		e := it.staged[it.pos]
		if !it.underDone {
			if it.before(it.underKey, e.key) {
				return it.takeUnder()
			}
			if bytes.Equal(it.underKey, e.key) {
				if err := it.pull(); err != nil {
					return nil, nil, err
				}
			}
		}

		it.pos++
		if !e.deleted {
			return e.key, e.value, nil
		}
	}
}

func (it *mergedIterator) Release() {
	it.under.Release()
	it.staged = nil
}
