package store

import (
	"bytes"
	"fmt"
	"sort"
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/stretchr/testify/require"
)

// StoreConstructor returns a fresh, empty store and a function releasing
// its resources.
type StoreConstructor func() (base CacheableKVStore, cleanup func())

// RunConformance checks that stores returned by newStore behave as
// a CacheableKVStore must. Every state change made by a call is done in a
// cache wrap and the wrap is either written or discarded as a whole, so
// all implementations must agree on what a wrap shows and what it hides.
func RunConformance(t *testing.T, newStore StoreConstructor) {
	t.Run("cache visibility", func(t *testing.T) { checkVisibility(t, newStore) })
	t.Run("cache shadows parent", func(t *testing.T) { checkShadowing(t, newStore) })
	t.Run("ordered iteration", func(t *testing.T) { checkIteration(t, newStore) })
	t.Run("iteration over merged layers", func(t *testing.T) { checkMergedIteration(t, newStore) })
}

// AssertGetHas fails the test if the key is not stored with given value.
// A nil value means the key must be absent.
func AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	require.Equal(t, want, got, "value of %q", key)
	has, err := kv.Has(key)
	require.NoError(t, err)
	require.Equal(t, want != nil, has, "presence of %q", key)
}

func checkVisibility(t *testing.T, newStore StoreConstructor) {
	base, cleanup := newStore()
	defer cleanup()

	bal := []byte("tkn:GOLD:bal:client")
	alw := []byte("tkn:GOLD:alw:client:escrow")

	AssertGetHas(t, base, bal, nil)
	require.NoError(t, base.Set(bal, []byte("100")))
	AssertGetHas(t, base, bal, []byte("100"))

	// Changes of a wrap are invisible to the parent until written.
	call := base.CacheWrap()
	AssertGetHas(t, call, bal, []byte("100"))
	require.NoError(t, call.Set(alw, []byte("50")))
	AssertGetHas(t, call, alw, []byte("50"))
	AssertGetHas(t, base, alw, nil)
	require.NoError(t, call.Write())
	AssertGetHas(t, base, alw, []byte("50"))

	// A discarded wrap leaves nothing behind.
	failed := base.CacheWrap()
	require.NoError(t, failed.Set(bal, []byte("50")))
	require.NoError(t, failed.Delete(alw))
	failed.Discard()
	AssertGetHas(t, base, bal, []byte("100"))
	AssertGetHas(t, base, alw, []byte("50"))

	// A wrap created before another one was written sees the write.
	reader := base.CacheWrap()
	writer := base.CacheWrap()
	require.NoError(t, writer.Delete(alw))
	require.NoError(t, writer.Write())
	AssertGetHas(t, reader, alw, nil)
	AssertGetHas(t, reader, bal, []byte("100"))
}

func checkShadowing(t *testing.T, newStore StoreConstructor) {
	cases := map[string]struct {
		Parent     []Op
		Child      []Op
		WantParent []Model
		WantChild  []Model
	}{
		"overwrite, delete and add": {
			Parent: []Op{
				SetOp([]byte("a"), []byte("1")),
				SetOp([]byte("b"), []byte("2")),
			},
			Child: []Op{
				SetOp([]byte("a"), []byte("10")),
				DelOp([]byte("b")),
				SetOp([]byte("c"), []byte("3")),
			},
			WantParent: []Model{Pair([]byte("a"), []byte("1")), Pair([]byte("b"), []byte("2")), Pair([]byte("c"), nil)},
			WantChild:  []Model{Pair([]byte("a"), []byte("10")), Pair([]byte("b"), nil), Pair([]byte("c"), []byte("3"))},
		},
		"delete then set again": {
			Parent: []Op{
				SetOp([]byte("a"), []byte("1")),
			},
			Child: []Op{
				DelOp([]byte("a")),
				SetOp([]byte("a"), []byte("2")),
			},
			WantParent: []Model{Pair([]byte("a"), []byte("1"))},
			WantChild:  []Model{Pair([]byte("a"), []byte("2"))},
		},
		"delete of a missing key": {
			Child: []Op{
				DelOp([]byte("x")),
			},
			WantParent: []Model{Pair([]byte("x"), nil)},
			WantChild:  []Model{Pair([]byte("x"), nil)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := newStore()
			defer cleanup()
			for _, op := range tc.Parent {
				require.NoError(t, op.Apply(parent))
			}
			child := parent.CacheWrap()
			for _, op := range tc.Child {
				require.NoError(t, op.Apply(child))
			}

			for _, m := range tc.WantParent {
				AssertGetHas(t, parent, m.Key, m.Value)
			}
			for _, m := range tc.WantChild {
				AssertGetHas(t, child, m.Key, m.Value)
			}

			require.NoError(t, child.Write())
			for _, m := range tc.WantChild {
				AssertGetHas(t, parent, m.Key, m.Value)
			}
		})
	}
}

// ledgerModels returns n balance entries, sorted by key.
func ledgerModels(ticker string, n int) []Model {
	res := make([]Model, n)
	for i := range res {
		res[i] = Pair(
			[]byte(fmt.Sprintf("tkn:%s:bal:%04d", ticker, i)),
			[]byte(fmt.Sprintf("%d", i*10)),
		)
	}
	return res
}

func checkIteration(t *testing.T, newStore StoreConstructor) {
	all := ledgerModels("GOLD", 30)

	cases := map[string]struct {
		Start, End []byte
		Reverse    bool
		Want       []Model
	}{
		"everything": {
			Want: all,
		},
		"everything reversed": {
			Reverse: true,
			Want:    reversed(all),
		},
		"from a key": {
			Start: all[12].Key,
			Want:  all[12:],
		},
		"up to a key": {
			End:  all[7].Key,
			Want: all[:7],
		},
		"bounded range reversed": {
			Start:   all[3].Key,
			End:     all[21].Key,
			Reverse: true,
			Want:    reversed(all[3:21]),
		},
		"empty range": {
			Start: all[5].Key,
			End:   all[5].Key,
			Want:  nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := newStore()
			defer cleanup()
			// Half of the entries is written through a cache.
			for _, m := range all[:15] {
				require.NoError(t, base.Set(m.Key, m.Value))
			}
			cache := base.CacheWrap()
			for _, m := range all[15:] {
				require.NoError(t, cache.Set(m.Key, m.Value))
			}
			assertIterates(t, cache, tc.Start, tc.End, tc.Reverse, tc.Want)
		})
	}
}

func checkMergedIteration(t *testing.T, newStore StoreConstructor) {
	gold := ledgerModels("GOLD", 4)
	money := ledgerModels("MONEY", 2)

	updated := Pair(gold[1].Key, []byte("999"))
	want := sortedModels([]Model{gold[0], updated, gold[3], money[0], money[1]})

	base, cleanup := newStore()
	defer cleanup()
	for _, m := range gold {
		require.NoError(t, base.Set(m.Key, m.Value))
	}
	require.NoError(t, base.Set(money[0].Key, money[0].Value))

	cache := base.CacheWrap()
	require.NoError(t, cache.Set(updated.Key, updated.Value))
	require.NoError(t, cache.Delete(gold[2].Key))
	require.NoError(t, cache.Set(money[1].Key, money[1].Value))
	require.NoError(t, cache.Delete([]byte("tkn:MONEY:bal:missing")))

	assertIterates(t, cache, nil, nil, false, want)
	assertIterates(t, cache, nil, nil, true, reversed(want))
	assertIterates(t, cache, []byte("tkn:MONEY:"), []byte("tkn:MONEY;"), false, money)
	assertIterates(t, cache, gold[2].Key, gold[3].Key, false, nil)

	// Writing the cache down must not change the outcome.
	require.NoError(t, cache.Write())
	assertIterates(t, base, nil, nil, false, want)
}

func assertIterates(t testing.TB, db ReadOnlyKVStore, start, end []byte, reverse bool, want []Model) {
	t.Helper()
	var (
		it  Iterator
		err error
	)
	if reverse {
		it, err = db.ReverseIterator(start, end)
	} else {
		it, err = db.Iterator(start, end)
	}
	require.NoError(t, err)
	defer it.Release()

	for i, w := range want {
		key, value, err := it.Next()
		require.NoError(t, err, "entry %d", i)
		require.Equal(t, string(w.Key), string(key), "key of entry %d", i)
		require.Equal(t, w.Value, value, "value of entry %d", i)
	}
	_, _, err = it.Next()
	if !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("want the iterator to be done, got %+v", err)
	}
}

func reversed(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

func sortedModels(models []Model) []Model {
	res := append([]Model(nil), models...)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}
