package gconf

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// ReadStore is the part of vault.ReadOnlyKVStore needed by Load.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of vault.KVStore needed by Save.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// Configuration is a protobuf message that validates itself.
type Configuration interface {
	proto.Message
	Validate() error
}

func key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates conf and stores it as the configuration of pkg.
func Save(db Store, pkg string, conf Configuration) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrapf(err, "%s configuration", pkg)
	}
	raw, err := proto.Marshal(conf)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "%s configuration: %s", pkg, err)
	}
	return db.Set(key(pkg), raw)
}

// Load reads the configuration of pkg into dst. It fails with ErrNotFound
// when nothing was saved yet.
func Load(db ReadStore, pkg string, dst Configuration) error {
	raw, err := db.Get(key(pkg))
	switch {
	case err != nil:
		return err
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s configuration", pkg)
	}
	if err := proto.Unmarshal(raw, dst); err != nil {
		return errors.Wrapf(errors.ErrModel, "%s configuration: %s", pkg, err)
	}
	return nil
}

// InitConfig saves the genesis value found under conf.<pkg>. It fails with
// ErrNotFound when the genesis has none.
func InitConfig(db Store, opts vault.Options, pkg string, conf Configuration) error {
	var all vault.Options
	if err := opts.ReadOptions("conf", &all); err != nil {
		return errors.Wrap(err, "genesis conf")
	}
	if _, ok := all[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "genesis conf.%s", pkg)
	}
	if err := all.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "genesis conf.%s", pkg)
	}
	return Save(db, pkg, conf)
}
