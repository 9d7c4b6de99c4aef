package store

// Recorder exposes the writes made through a recording store. Deleted keys
// map to nil.
type Recorder interface {
	Changes() map[string][]byte
}

// NewRecordingStore wraps db and records every write made through it,
// including writes made through its batches and cache wraps. The result
// is a CacheableKVStore whenever db is one.
func NewRecordingStore(db KVStore) KVStore {
	rec := &recordingStore{KVStore: db, changes: make(changeLog)}
	if _, ok := db.(CacheableKVStore); ok {
		return &cacheableRecordingStore{rec}
	}
	return rec
}

type changeLog map[string][]byte

func (c changeLog) set(key, value []byte) { c[string(key)] = value }
func (c changeLog) del(key []byte)        { c[string(key)] = nil }

type recordingStore struct {
	KVStore
	changes changeLog
}

var _ Recorder = (*recordingStore)(nil)

func (r *recordingStore) Changes() map[string][]byte {
	return r.changes
}

func (r *recordingStore) Set(key, value []byte) error {
	if err := r.KVStore.Set(key, value); err != nil {
		return err
	}
	r.changes.set(key, value)
	return nil
}

func (r *recordingStore) Delete(key []byte) error {
	if err := r.KVStore.Delete(key); err != nil {
		return err
	}
	r.changes.del(key)
	return nil
}

func (r *recordingStore) NewBatch() Batch {
	return &recordingBatch{Batch: r.KVStore.NewBatch(), changes: r.changes}
}

type cacheableRecordingStore struct {
	*recordingStore
}

var _ CacheableKVStore = (*cacheableRecordingStore)(nil)

// CacheWrap stages writes in a cache that flushes through the recording
// batch.
func (r *cacheableRecordingStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(r, r.NewBatch(), nil)
}

// recordingBatch records a write as soon as it is queued.
type recordingBatch struct {
	Batch
	changes changeLog
}

func (b *recordingBatch) Set(key, value []byte) error {
	b.changes.set(key, value)
	return b.Batch.Set(key, value)
}

func (b *recordingBatch) Delete(key []byte) error {
	b.changes.del(key)
	return b.Batch.Delete(key)
}
