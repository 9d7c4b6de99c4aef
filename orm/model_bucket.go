package orm

import (
	"reflect"
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// ModelBucket stores protobuf models of one type under "<name>:<key>" and
// keeps their secondary indexes in sync.
type ModelBucket interface {
	// One loads the model stored under key into dest. It fails with
	// ErrNotFound for a missing key and ErrType when dest cannot hold the
	// stored model.
	One(db vault.ReadOnlyKVStore, key []byte, dest Model) error

	// Has fails with ErrNotFound for a missing key.
	Has(db vault.ReadOnlyKVStore, key []byte) error

	// Put validates and stores m, replacing any model under the same key.
	// An empty key takes the next value of the bucket sequence. The used
	// key is returned.
	Put(db vault.KVStore, key []byte, m Model) ([]byte, error)

	// Delete fails with ErrNotFound for a missing key.
	Delete(db vault.KVStore, key []byte) error

	// ByIndex appends every model indexed under key to dest, a pointer to
	// a slice of models, and returns their primary keys in the same order.
	ByIndex(db vault.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) ([][]byte, error)

	// Iterate calls fn for every model in primary key order. An error
	// returned by fn stops the iteration and is returned.
	Iterate(db vault.ReadOnlyKVStore, fn func(key []byte, m Model) error) error

	Sequence() Sequence
}

// ModelBucketOption configures a bucket in NewModelBucket.
type ModelBucketOption func(mb *modelBucket)

// WithIndex maintains the index name. Every stored model is listed under
// the key returned by indexer.
func WithIndex(name string, indexer Indexer) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic("index " + name + " already declared")
		}
		mb.indexes[name] = index{
			prefix:  []byte(mb.name + "._" + name + ":"),
			indexer: indexer,
		}
	}
}

// NewModelBucket returns a bucket for models of the prototype type. The
// name must be 3 to 10 lower case letters or underscores.
func NewModelBucket(name string, prototype Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	mb := &modelBucket{
		name:      name,
		prefix:    []byte(name + ":"),
		prototype: prototype,
		indexes:   make(map[string]index),
		idSeq:     NewSequence(name, "id"),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name      string
	prefix    []byte
	prototype Model
	indexes   map[string]index
	idSeq     Sequence
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) dbKey(key []byte) []byte {
	return append(append([]byte{}, mb.prefix...), key...)
}

func (mb *modelBucket) One(db vault.ReadOnlyKVStore, key []byte, dest Model) error {
	if !reflect.TypeOf(dest).AssignableTo(reflect.TypeOf(mb.prototype)) {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %T", mb.prototype, dest)
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot get")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	dest.Reset()
	if err := proto.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

func (mb *modelBucket) Has(db vault.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty key")
	}
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot check existence")
	}
	if !ok {
		return errors.ErrNotFound
	}
	return nil
}

func (mb *modelBucket) Put(db vault.KVStore, key []byte, m Model) ([]byte, error) {
	if !reflect.TypeOf(m).AssignableTo(reflect.TypeOf(mb.prototype)) {
		return nil, errors.Wrapf(errors.ErrType, "cannot store %T in %q bucket", m, mb.name)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}

	if len(key) == 0 {
		var err error
		key, err = mb.idSeq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "ID sequence")
		}
	}

	if len(mb.indexes) > 0 {
		// Old index entries must be removed before the new ones are
		// written.
		old := newModel(mb.prototype)
		switch err := mb.One(db, key, old); {
		case err == nil:
			if err := mb.removeIndexes(db, key, old); err != nil {
				return nil, err
			}
		case errors.ErrNotFound.Is(err):
			// Inserting a new entity.
		default:
			return nil, err
		}
	}

	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot serialize %T: %s", m, err)
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return nil, errors.Wrap(err, "cannot store in the database")
	}
	if err := mb.writeIndexes(db, key, m); err != nil {
		return nil, err
	}
	return key, nil
}

func (mb *modelBucket) Delete(db vault.KVStore, key []byte) error {
	old := newModel(mb.prototype)
	if err := mb.One(db, key, old); err != nil {
		return err
	}
	if err := mb.removeIndexes(db, key, old); err != nil {
		return err
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete")
	}
	return nil
}

func (mb *modelBucket) ByIndex(db vault.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidIndex, "%q index not declared for %q bucket", indexName, mb.name)
	}
	slice, err := validateSlicePtr(dest, mb.prototype)
	if err != nil {
		return nil, err
	}

	pks, err := idx.keys(db, key)
	if err != nil {
		return nil, err
	}
	for _, pk := range pks {
		m := newModel(mb.prototype)
		if err := mb.One(db, pk, m); err != nil {
			return nil, errors.Wrapf(err, "index %q points to a missing entity", indexName)
		}
		appendModel(slice, m)
	}
	return pks, nil
}

func (mb *modelBucket) Iterate(db vault.ReadOnlyKVStore, fn func(key []byte, m Model) error) error {
	it, err := db.Iterator(mb.prefix, PrefixEnd(mb.prefix))
	if err != nil {
		return errors.Wrap(err, "cannot create iterator")
	}
	defer it.Release()

	for {
		key, value, err := it.Next()
		switch {
		case err == nil:
			// Process below.
		case errors.ErrIteratorDone.Is(err):
			return nil
		default:
			return errors.Wrap(err, "iterator")
		}

		m := newModel(mb.prototype)
		if err := proto.Unmarshal(value, m); err != nil {
			return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", m, err)
		}
		if err := fn(key[len(mb.prefix):], m); err != nil {
			return err
		}
	}
}

func (mb *modelBucket) Sequence() Sequence {
	return mb.idSeq
}

func (mb *modelBucket) writeIndexes(db vault.KVStore, pk []byte, m Model) error {
	for name, idx := range mb.indexes {
		if err := idx.add(db, pk, m); err != nil {
			return errors.Wrapf(err, "%q index", name)
		}
	}
	return nil
}

func (mb *modelBucket) removeIndexes(db vault.KVStore, pk []byte, m Model) error {
	for name, idx := range mb.indexes {
		if err := idx.remove(db, pk, m); err != nil {
			return errors.Wrapf(err, "%q index", name)
		}
	}
	return nil
}
