package orm

import (
	"encoding/binary"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

const sequenceSize = 8

// Sequence is a persistent counter stored under "_s.<bucket>:<name>". Its
// encoded values sort in the same order as the numbers, so they work as
// primary keys.
type Sequence struct {
	key []byte
}

func NewSequence(bucket, name string) Sequence {
	return Sequence{key: []byte("_s." + bucket + ":" + name)}
}

// NextVal advances the counter and returns the new value encoded.
func (s *Sequence) NextVal(db vault.KVStore) ([]byte, error) {
	n, err := s.advance(db)
	if err != nil {
		return nil, err
	}
	return EncodeSequence(n), nil
}

// NextInt advances the counter and returns the new value.
func (s *Sequence) NextInt(db vault.KVStore) (int64, error) {
	return s.advance(db)
}

// Latest returns the last value handed out, zero before the first call,
// without advancing the counter.
func (s *Sequence) Latest(db vault.ReadOnlyKVStore) (int64, []byte, error) {
	raw, err := db.Get(s.key)
	if err != nil {
		return 0, nil, err
	}
	n, err := DecodeSequence(raw)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "sequence %q", s.key)
	}
	return n, EncodeSequence(n), nil
}

func (s *Sequence) advance(db vault.KVStore) (int64, error) {
	n, _, err := s.Latest(db)
	if err != nil {
		return 0, err
	}
	n++
	if err := db.Set(s.key, EncodeSequence(n)); err != nil {
		return 0, errors.Wrapf(err, "store sequence %q", s.key)
	}
	return n, nil
}

// EncodeSequence returns n as 8 big endian bytes.
func EncodeSequence(n int64) []byte {
	raw := make([]byte, sequenceSize)
	binary.BigEndian.PutUint64(raw, uint64(n))
	return raw
}

// DecodeSequence reverses EncodeSequence. Nil decodes to zero.
func DecodeSequence(raw []byte) (int64, error) {
	switch len(raw) {
	case 0:
		if raw == nil {
			return 0, nil
		}
	case sequenceSize:
		return int64(binary.BigEndian.Uint64(raw)), nil
	}
	return 0, errors.Wrapf(errors.ErrInput, "sequence value must be %d bytes, got %d", sequenceSize, len(raw))
}
