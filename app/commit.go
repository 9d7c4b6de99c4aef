package app

import (
	"regexp"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// CommitStore handles loading from a CommitKVStore, handing out cache
// wraps for every processed call and committing the ones that succeeded.
type CommitStore struct {
	committed vault.CommitKVStore
}

// NewCommitStore loads the latest version of the store.
func NewCommitStore(store vault.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{committed: store}, nil
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() (vault.CommitID, error) {
	return cs.committed.LatestVersion()
}

// CacheWrap returns a fresh cache over the latest state. Changes are
// visible to others only after the cache is committed.
func (cs *CommitStore) CacheWrap() vault.KVCacheWrap {
	return cs.committed.CacheWrap()
}

// Commit will flush given cache to the underlying store and commit it
// to disk.
func (cs *CommitStore) Commit(cache vault.KVCacheWrap) (vault.CommitID, error) {
	if err := cache.Write(); err != nil {
		return vault.CommitID{}, errors.Wrap(err, "write cache")
	}
	return cs.committed.Commit()
}

//------- storing chainID ---------

// _vault: is a prefix for vault internal data
const chainIDKey = "_vault:chainID"

// isChainID is the format a chain id must follow.
var isChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,25}$`).MatchString

// loadChainID returns the chain id stored if any
func loadChainID(kv vault.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv vault.KVStore, chainID string) error {
	if !isChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chainId")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chainId")
	}
	return nil
}
