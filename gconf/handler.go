package gconf

import (
	"reflect"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x"
)

// OwnedConfig is a configuration that only its owner may change.
type OwnedConfig interface {
	Configuration
	GetOwner() vault.Address
}

// PatchMsg carries a partial configuration. Zero value fields of the patch
// keep the stored value.
type PatchMsg interface {
	vault.Msg
	ConfigPatch() OwnedConfig
}

// FieldClearer is implemented by patch messages that reset fields of the
// stored configuration to their zero value. Fields are cleared before the
// patch is merged.
type FieldClearer interface {
	ClearedFields() []string
}

// CreatorFunc returns the address allowed to create a configuration that
// does not exist yet.
type CreatorFunc func(vault.ReadOnlyKVStore) (vault.Address, error)

// UpdateHandler applies PatchMsg messages to the configuration of a single
// package.
type UpdateHandler struct {
	pkg     string
	newConf func() OwnedConfig
	auth    x.Authenticator
	creator CreatorFunc
}

var _ vault.Handler = UpdateHandler{}

// NewUpdateHandler returns a handler that patches the configuration stored
// for pkg. An existing configuration can only be patched with the owner
// signature. A missing one can be created by the address returned from
// creator, or not at all when creator is nil.
func NewUpdateHandler(pkg string, newConf func() OwnedConfig, auth x.Authenticator, creator CreatorFunc) UpdateHandler {
	return UpdateHandler{
		pkg:     pkg,
		newConf: newConf,
		auth:    auth,
		creator: creator,
	}
}

func (h UpdateHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, err := h.update(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{Log: h.pkg + " configuration update"}, nil
}

func (h UpdateHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	conf, err := h.update(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &vault.DeliverResult{
		Log: h.pkg + " configuration updated",
		Events: []vault.Event{
			vault.NewEvent("configuration_updated", "package", h.pkg, "owner", conf.GetOwner().String()),
		},
	}, nil
}

func (h UpdateHandler) update(ctx vault.Context, db vault.KVStore, tx vault.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	pm, ok := msg.(PatchMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "%T is not a configuration patch", msg)
	}
	if err := pm.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	patch := pm.ConfigPatch()
	if patch == nil || reflect.ValueOf(patch).IsNil() {
		return nil, errors.Wrap(errors.ErrEmpty, "patch")
	}

	conf := h.newConf()
	if err := h.authorize(ctx, db, conf); err != nil {
		return nil, err
	}
	if c, ok := msg.(FieldClearer); ok {
		if err := clearFields(conf, c.ClearedFields()); err != nil {
			return nil, err
		}
	}
	if err := merge(conf, patch); err != nil {
		return nil, err
	}
	if err := Save(db, h.pkg, conf); err != nil {
		return nil, errors.Wrap(err, "save")
	}
	return conf, nil
}

// authorize loads the stored configuration into conf and checks that the
// signers may change it.
func (h UpdateHandler) authorize(ctx vault.Context, db vault.KVStore, conf OwnedConfig) error {
	err := Load(db, h.pkg, conf)
	if errors.ErrNotFound.Is(err) {
		if h.creator == nil {
			return errors.Wrap(errors.ErrUnauthorized, "configuration does not exist")
		}
		creator, err := h.creator(db)
		if err != nil {
			return errors.Wrap(err, "creator")
		}
		if !h.auth.HasAddress(ctx, creator) {
			return errors.Wrap(errors.ErrUnauthorized, "creator signature required")
		}
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "load")
	}
	owner := conf.GetOwner()
	if len(owner) == 0 || !h.auth.HasAddress(ctx, owner) {
		return errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	return nil
}

// merge copies every non zero field of patch into conf.
func merge(conf, patch OwnedConfig) error {
	dst := reflect.ValueOf(conf).Elem()
	src := reflect.ValueOf(patch).Elem()
	if dst.Type() != src.Type() {
		return errors.Wrapf(errors.ErrMsg, "cannot patch %T with %T", conf, patch)
	}
	for i := 0; i < src.NumField(); i++ {
		f := src.Field(i)
		if reflect.DeepEqual(f.Interface(), reflect.Zero(f.Type()).Interface()) {
			continue
		}
		dst.Field(i).Set(f)
	}
	return nil
}

// clearFields sets the named fields of conf to their zero value.
func clearFields(conf OwnedConfig, names []string) error {
	v := reflect.ValueOf(conf).Elem()
	for _, name := range names {
		f := v.FieldByName(name)
		if !f.IsValid() || !f.CanSet() {
			return errors.Wrapf(errors.ErrInput, "%T has no field %q", conf, name)
		}
		f.Set(reflect.Zero(f.Type()))
	}
	return nil
}
