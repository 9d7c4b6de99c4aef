package token

import (
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

var isTokenName = regexp.MustCompile(`^[A-Za-z0-9 \-_:]{3,32}$`).MatchString

// Token is the definition of a fungible asset. It is stored under its
// ticker.
type Token struct {
	Metadata *vault.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Ticker   string          `protobuf:"bytes,2,opt,name=ticker,proto3" json:"ticker,omitempty"`
	Name     string          `protobuf:"bytes,3,opt,name=name,proto3" json:"name,omitempty"`
	Decimals uint32          `protobuf:"varint,4,opt,name=decimals,proto3" json:"decimals,omitempty"`
	// Minter is the only address allowed to issue new funds.
	Minter vault.Address `protobuf:"bytes,5,opt,name=minter,proto3,casttype=github.com/iov-one/vault.Address" json:"minter,omitempty"`
	// Supply is the total amount issued so far.
	Supply coin.Amount `protobuf:"varint,6,opt,name=supply,proto3,casttype=github.com/iov-one/vault/coin.Amount" json:"supply,omitempty"`
}

func (m *Token) Reset()         { *m = Token{} }
func (m *Token) String() string { return proto.CompactTextString(m) }
func (*Token) ProtoMessage()    {}

func (m *Token) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if !coin.IsTicker(m.Ticker) {
		errs = errors.AppendField(errs, "Ticker", errors.Wrapf(errors.ErrInput, "invalid ticker %q", m.Ticker))
	}
	if !isTokenName(m.Name) {
		errs = errors.AppendField(errs, "Name", errors.Wrapf(errors.ErrInput, "invalid name %q", m.Name))
	}
	if m.Decimals > coin.MaxDecimals {
		errs = errors.AppendField(errs, "Decimals", errors.Wrapf(errors.ErrInput, "at most %d decimals allowed", coin.MaxDecimals))
	}
	errs = errors.AppendField(errs, "Minter", m.Minter.Validate())
	return errs
}

// holding is the stored representation of a balance or an allowance.
type holding struct {
	Amount coin.Amount `protobuf:"varint,1,opt,name=amount,proto3,casttype=github.com/iov-one/vault/coin.Amount" json:"amount,omitempty"`
}

func (m *holding) Reset()         { *m = holding{} }
func (m *holding) String() string { return proto.CompactTextString(m) }
func (*holding) ProtoMessage()    {}

// NewTokenBucket returns a bucket for token definitions, keyed by ticker.
func NewTokenBucket() orm.ModelBucket {
	return orm.NewModelBucket("token", &Token{})
}
