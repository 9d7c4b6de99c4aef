package store

import (
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/vaulttest/assert"
)

func TestReleasedIteratorAllowsWrites(t *testing.T) {
	for _, reverse := range []bool{false, true} {
		db := MemStore()
		assert.Nil(t, db.Set([]byte("loan:1"), []byte("active")))
		cache := db.CacheWrap()

		var it Iterator
		var err error
		if reverse {
			it, err = cache.ReverseIterator([]byte("loan:"), []byte("loan;"))
		} else {
			it, err = cache.Iterator([]byte("loan:"), []byte("loan;"))
		}
		assert.Nil(t, err)
		key, _, err := it.Next()
		assert.Nil(t, err)
		assert.Equal(t, []byte("loan:1"), key)
		it.Release()

		assert.Nil(t, db.Delete([]byte("loan:1")))
		_, _, err = it.Next()
		assert.IsErr(t, errors.ErrIteratorDone, err)
	}
}

func TestMergedIteratorShadowsParent(t *testing.T) {
	db := MemStore()
	assert.Nil(t, db.Set([]byte("a"), []byte("A")))
	assert.Nil(t, db.Set([]byte("b"), []byte("B")))
	assert.Nil(t, db.Set([]byte("c"), []byte("C")))

	cache := db.CacheWrap()
	assert.Nil(t, cache.Set([]byte("b"), []byte("BB")))
	assert.Nil(t, cache.Delete([]byte("c")))
	assert.Nil(t, cache.Set([]byte("d"), []byte("D")))

	cases := map[string]struct {
		reverse bool
		want    []Model
	}{
		"ascending": {
			want: []Model{Pair([]byte("a"), []byte("A")), Pair([]byte("b"), []byte("BB")), Pair([]byte("d"), []byte("D"))},
		},
		"descending": {
			reverse: true,
			want:    []Model{Pair([]byte("d"), []byte("D")), Pair([]byte("b"), []byte("BB")), Pair([]byte("a"), []byte("A"))},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var it Iterator
			var err error
			if tc.reverse {
				it, err = cache.ReverseIterator(nil, nil)
			} else {
				it, err = cache.Iterator(nil, nil)
			}
			assert.Nil(t, err)
			defer it.Release()

			var got []Model
			for {
				k, v, err := it.Next()
				if errors.ErrIteratorDone.Is(err) {
					break
				}
				assert.Nil(t, err)
				got = append(got, Pair(k, v))
			}
			assert.Equal(t, tc.want, got)
		})
	}
}
