package orm

import (
	"bytes"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// index is a non unique secondary index. Every entry is a separate
// database key made of the index key and the primary key of the model.
// The value of an entry is the primary key, so that an entry can be
// matched exactly even if index keys or primary keys vary in length.
type index struct {
	prefix  []byte
	indexer Indexer
}

func (i index) entryKey(idxKey, pk []byte) []byte {
	k := make([]byte, 0, len(i.prefix)+len(idxKey)+len(pk))
	k = append(k, i.prefix...)
	k = append(k, idxKey...)
	return append(k, pk...)
}

func (i index) add(db vault.KVStore, pk []byte, m Model) error {
	idxKey, err := i.indexer(m)
	if err != nil {
		return errors.Wrap(ErrInvalidIndex, err.Error())
	}
	if idxKey == nil {
		return nil
	}
	return db.Set(i.entryKey(idxKey, pk), pk)
}

func (i index) remove(db vault.KVStore, pk []byte, m Model) error {
	idxKey, err := i.indexer(m)
	if err != nil {
		return errors.Wrap(ErrInvalidIndex, err.Error())
	}
	if idxKey == nil {
		return nil
	}
	return db.Delete(i.entryKey(idxKey, pk))
}

// keys returns all primary keys indexed under given index key.
func (i index) keys(db vault.ReadOnlyKVStore, idxKey []byte) ([][]byte, error) {
	start := i.entryKey(idxKey, nil)
	it, err := db.Iterator(start, PrefixEnd(start))
	if err != nil {
		return nil, errors.Wrap(err, "cannot create index iterator")
	}
	defer it.Release()

	var pks [][]byte
	for {
		key, pk, err := it.Next()
		switch {
		case err == nil:
			// Only an exact match counts. A longer index key that
			// shares the same prefix must be ignored.
			if len(key) == len(start)+len(pk) && bytes.HasSuffix(key, pk) {
				pks = append(pks, pk)
			}
		case errors.ErrIteratorDone.Is(err):
			return pks, nil
		default:
			return nil, errors.Wrap(err, "index iterator")
		}
	}
}

// PrefixEnd returns the smallest key that is greater than all keys with
// given prefix, or nil if there is no such key.
func PrefixEnd(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
