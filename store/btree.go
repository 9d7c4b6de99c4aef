package store

import (
	"bytes"

	"github.com/google/btree"
)

// btreeDegree keeps nodes small, the cache usually holds the writes of a
// single transaction.
const btreeDegree = 2

// BTreeCacheable gives any KVStore a CacheWrap backed by an in-memory btree.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap stages writes in memory until Write flushes them to the store.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an in-memory store without persistence.
func MemStore() CacheableKVStore {
	var base EmptyKVStore
	return NewBTreeCacheWrap(base, base.NewBatch(), nil)
}

// BTreeCacheWrap stages writes over a read only parent. Reads prefer the
// staged entries, including deletions, over the parent.
type BTreeCacheWrap struct {
	staged *btree.BTree
	free   *btree.FreeList
	parent ReadOnlyKVStore
	flush  Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap stages writes over parent. Writes are mirrored into
// flush, which is written out on Write. A nil free list allocates a new one,
// nested caches share the list of their parent.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, flush Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		staged: btree.NewWithFreeList(btreeDegree, free),
		free:   free,
		parent: parent,
		flush:  flush,
	}
}

// CacheWrap nests another cache on top of this one.
func (c BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(c, c.NewBatch(), c.free)
}

// NewBatch collects writes to apply to this cache later.
func (c BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(c)
}

// Write flushes the staged writes to the parent and empties the cache.
func (c BTreeCacheWrap) Write() error {
	err := c.flush.Write()
	c.Discard()
	return err
}

// Discard drops all staged writes.
func (c BTreeCacheWrap) Discard() {
	for c.staged.DeleteMin() != nil {
	}
}

func (c BTreeCacheWrap) Set(key, value []byte) error {
	c.staged.ReplaceOrInsert(entry{key: key, value: value})
	return c.flush.Set(key, value)
}

func (c BTreeCacheWrap) Delete(key []byte) error {
	c.staged.ReplaceOrInsert(entry{key: key, deleted: true})
	return c.flush.Delete(key)
}

func (c BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	e, ok := c.lookup(key)
	if !ok {
		return c.parent.Get(key)
	}
	if e.deleted {
		return nil, nil
	}
	return e.value, nil
}

func (c BTreeCacheWrap) Has(key []byte) (bool, error) {
	e, ok := c.lookup(key)
	if !ok {
		return c.parent.Has(key)
	}
	return !e.deleted, nil
}

func (c BTreeCacheWrap) lookup(key []byte) (entry, bool) {
	found := c.staged.Get(entry{key: key})
	if found == nil {
		return entry{}, false
	}
	return found.(entry), true
}

func (c BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	under, err := c.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(stagedRange(c.staged, start, end, false), under, false)
}

func (c BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	under, err := c.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(stagedRange(c.staged, start, end, true), under, true)
}

// entry is a staged write. Lookups use an entry with only the key set.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
