package loanescrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
)

const packageName = "loanescrow"

// Configuration is the loan escrow policy. It is stored in the database
// and can be changed by the operator.
type Configuration struct {
	Metadata *vault.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Operator is allowed to update the configuration.
	Operator vault.Address `protobuf:"bytes,2,opt,name=operator,proto3,casttype=github.com/iov-one/vault.Address" json:"operator,omitempty"`
	// Settlers are allowed to settle defaulted loans. When empty, anyone
	// can settle a loan once its deadline is reached.
	Settlers []vault.Address `protobuf:"bytes,3,rep,name=settlers,proto3,casttype=github.com/iov-one/vault.Address" json:"settlers,omitempty"`
	// ForfeitDestination receives the collateral of defaulted loans. When
	// empty, the collateral stays in the escrow custody.
	ForfeitDestination vault.Address `protobuf:"bytes,4,opt,name=forfeit_destination,json=forfeitDestination,proto3,casttype=github.com/iov-one/vault.Address" json:"forfeit_destination,omitempty"`
	// MaxDurationSeconds limits the loan term. Zero means no limit.
	MaxDurationSeconds int64 `protobuf:"varint,5,opt,name=max_duration_seconds,json=maxDurationSeconds,proto3" json:"max_duration_seconds,omitempty"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func newConfiguration() gconf.OwnedConfig {
	return &Configuration{}
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

func (m *Configuration) GetOwner() vault.Address {
	return m.Operator
}

func (m *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Operator", m.Operator.Validate())
	for _, s := range m.Settlers {
		errs = errors.AppendField(errs, "Settlers", s.Validate())
	}
	if len(m.ForfeitDestination) != 0 {
		errs = errors.AppendField(errs, "ForfeitDestination", m.ForfeitDestination.Validate())
	}
	if m.MaxDurationSeconds < 0 {
		errs = errors.AppendField(errs, "MaxDurationSeconds", errors.Wrap(errors.ErrInput, "must not be negative"))
	}
	return errs
}

// loadConf returns the current configuration. When none was stored the
// default policy applies: anyone can settle, collateral stays in custody
// and the term is not limited.
func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, packageName, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		return &Configuration{}, nil
	default:
		return nil, errors.Wrap(err, "load configuration")
	}
}
