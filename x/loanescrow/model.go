package loanescrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// LoanState is the lifecycle state of a loan. A loan becomes active as
// soon as it is requested, because disbursal happens within the same call.
type LoanState int32

const (
	LoanStateInvalid   LoanState = 0
	LoanStateActive    LoanState = 1
	LoanStateRepaid    LoanState = 2
	LoanStateDefaulted LoanState = 3
)

var loanStateNames = map[LoanState]string{
	LoanStateActive:    "active",
	LoanStateRepaid:    "repaid",
	LoanStateDefaulted: "defaulted",
}

func (s LoanState) String() string {
	if n, ok := loanStateNames[s]; ok {
		return n
	}
	return "invalid"
}

// IsTerminal returns true if no transition is possible from this state.
func (s LoanState) IsTerminal() bool {
	return s == LoanStateRepaid || s == LoanStateDefaulted
}

// ParseLoanState returns the state with given name.
func ParseLoanState(name string) (LoanState, error) {
	for s, n := range loanStateNames {
		if n == name {
			return s, nil
		}
	}
	return LoanStateInvalid, errors.Wrapf(errors.ErrInput, "unknown loan state %q", name)
}

// Loan is a single fixed term, collateralized loan.
type Loan struct {
	Metadata *vault.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// ID is the sequence value the loan is stored under.
	ID       []byte        `protobuf:"bytes,2,opt,name=id,proto3" json:"id,omitempty"`
	Borrower vault.Address `protobuf:"bytes,3,opt,name=borrower,proto3,casttype=github.com/iov-one/vault.Address" json:"borrower,omitempty"`
	// CollateralAmount is held in the escrow custody while the loan is
	// active.
	CollateralAmount coin.Amount `protobuf:"varint,4,opt,name=collateral_amount,json=collateralAmount,proto3,casttype=github.com/iov-one/vault/coin.Amount" json:"collateral_amount,omitempty"`
	// PrincipalAmount was disbursed to the borrower and must be returned
	// to repay the loan.
	PrincipalAmount coin.Amount    `protobuf:"varint,5,opt,name=principal_amount,json=principalAmount,proto3,casttype=github.com/iov-one/vault/coin.Amount" json:"principal_amount,omitempty"`
	DurationSeconds int64          `protobuf:"varint,6,opt,name=duration_seconds,json=durationSeconds,proto3" json:"duration_seconds,omitempty"`
	StartTime       vault.UnixTime `protobuf:"varint,7,opt,name=start_time,json=startTime,proto3,casttype=github.com/iov-one/vault.UnixTime" json:"start_time,omitempty"`
	State           LoanState      `protobuf:"varint,8,opt,name=state,proto3" json:"state,omitempty"`
	// ClosedAt is the time the loan reached a terminal state.
	ClosedAt vault.UnixTime `protobuf:"varint,9,opt,name=closed_at,json=closedAt,proto3,casttype=github.com/iov-one/vault.UnixTime" json:"closed_at,omitempty"`
}

func (m *Loan) Reset()         { *m = Loan{} }
func (m *Loan) String() string { return proto.CompactTextString(m) }
func (*Loan) ProtoMessage()    {}

// Validate ensures the loan is valid.
func (m *Loan) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if len(m.ID) != 8 {
		errs = errors.AppendField(errs, "ID", errors.Wrapf(errors.ErrInput, "invalid id %X", m.ID))
	}
	errs = errors.AppendField(errs, "Borrower", m.Borrower.Validate())
	if m.CollateralAmount.IsZero() {
		errs = errors.AppendField(errs, "CollateralAmount", errors.ErrAmount)
	}
	if m.PrincipalAmount.IsZero() {
		errs = errors.AppendField(errs, "PrincipalAmount", errors.ErrAmount)
	}
	if m.DurationSeconds <= 0 {
		errs = errors.AppendField(errs, "DurationSeconds", errors.ErrAmount)
	}
	if m.StartTime == 0 {
		errs = errors.AppendField(errs, "StartTime", errors.Wrap(errors.ErrEmpty, "start time is required"))
	}
	errs = errors.AppendField(errs, "StartTime", m.StartTime.Validate())
	switch {
	case m.State == LoanStateActive:
		if m.ClosedAt != 0 {
			errs = errors.AppendField(errs, "ClosedAt", errors.Wrap(errors.ErrState, "active loan cannot be closed"))
		}
	case m.State.IsTerminal():
		if m.ClosedAt < m.StartTime {
			errs = errors.AppendField(errs, "ClosedAt", errors.Wrap(errors.ErrState, "closed before start"))
		}
	default:
		errs = errors.AppendField(errs, "State", errors.Wrapf(errors.ErrState, "%d", m.State))
	}
	return errs
}

// Deadline returns the time at which the loan term ends. Repayment is
// possible strictly before it, default settlement at or after it.
func (m *Loan) Deadline() (vault.UnixTime, error) {
	return m.StartTime.AddSeconds(m.DurationSeconds)
}

// SequenceID returns the numeric representation of the loan ID.
func (m *Loan) SequenceID() int64 {
	n, err := orm.DecodeSequence(m.ID)
	if err != nil {
		return 0
	}
	return n
}

// NewLoanBucket returns a bucket for loans. Loans are indexed by the
// borrower address and by state.
func NewLoanBucket() orm.ModelBucket {
	return orm.NewModelBucket("loan", &Loan{},
		orm.WithIndex("borrower", borrowerIndexer),
		orm.WithIndex("state", stateIndexer),
	)
}

func toLoan(m orm.Model) (*Loan, error) {
	loan, ok := m.(*Loan)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return loan, nil
}

func borrowerIndexer(m orm.Model) ([]byte, error) {
	loan, err := toLoan(m)
	if err != nil {
		return nil, err
	}
	return loan.Borrower, nil
}

func stateIndexer(m orm.Model) ([]byte, error) {
	loan, err := toLoan(m)
	if err != nil {
		return nil, err
	}
	return stateKey(loan.State), nil
}

func stateKey(s LoanState) []byte {
	return []byte{byte(s)}
}
