package loanescrow

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const week = 7 * 24 * 60 * 60

var (
	start = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	day   = 24 * time.Hour
)

// fixture is a loan escrow backed by two token ledgers. The borrower holds
// 100 GOLD and the escrow holds 1000 MONEY of liquidity.
type fixture struct {
	db           store.CacheableKVStore
	ctrl         *Controller
	gold         token.Controller
	money        token.Controller
	minter       vault.Address
	borrower     vault.Address
	borrowerCond vault.Condition
	lender       vault.Address
	lenderCond   vault.Condition
	escrow       vault.Address
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		db:           store.MemStore(),
		gold:         token.NewController("GOLD"),
		money:        token.NewController("MONEY"),
		minter:       vaulttest.RandomAddr(t),
		borrowerCond: vaulttest.NewCondition(),
		lenderCond:   vaulttest.NewCondition(),
		escrow:       EscrowAddress(),
	}
	f.borrower = f.borrowerCond.Address()
	f.lender = f.lenderCond.Address()
	f.ctrl = NewController(f.gold, f.money)

	for _, tc := range []token.Controller{f.gold, f.money} {
		err := tc.Define(f.db, &token.Token{
			Metadata: &vault.Metadata{Schema: 1},
			Ticker:   tc.Ticker(),
			Name:     tc.Ticker() + " token",
			Minter:   f.minter,
		})
		require.NoError(t, err)
	}
	require.NoError(t, f.gold.Mint(f.db, f.minter, f.borrower, 100))
	require.NoError(t, f.money.Mint(f.db, f.minter, f.lender, 1000))
	require.NoError(t, f.money.Approve(f.db, f.lender, f.escrow, 1000))
	require.NoError(t, f.ctrl.ProvideLiquidity(f.db, f.lender, 1000))
	return f
}

func (f *fixture) balance(t testing.TB, ledger token.Controller, who vault.Address) coin.Amount {
	t.Helper()
	amount, err := ledger.BalanceOf(f.db, who)
	require.NoError(t, err)
	return amount
}

// request creates a loan of 50 GOLD for 500 MONEY lasting a week.
func (f *fixture) request(t testing.TB, at time.Time) *Loan {
	t.Helper()
	require.NoError(t, f.gold.Approve(f.db, f.borrower, f.escrow, 50))
	loan, err := f.ctrl.RequestLoan(blockAt(at), f.db, f.borrower, 50, 500, week)
	require.NoError(t, err)
	return loan
}

func blockAt(t time.Time) vault.Context {
	return vault.WithBlockTime(context.Background(), t)
}

// snapshot returns the whole content of the database.
func snapshot(t testing.TB, db vault.ReadOnlyKVStore) map[string]string {
	t.Helper()
	it, err := db.Iterator(nil, nil)
	require.NoError(t, err)
	defer it.Release()
	res := make(map[string]string)
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		require.NoError(t, err)
		res[string(key)] = string(value)
	}
}

func TestRequestLoan(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.gold.Approve(f.db, f.borrower, f.escrow, 50))

	loan, err := f.ctrl.RequestLoan(blockAt(start), f.db, f.borrower, 50, 500, week)
	require.NoError(t, err)

	assert.Equal(t, int64(1), loan.SequenceID())
	assert.Equal(t, LoanStateActive, loan.State)
	assert.Equal(t, vault.AsUnixTime(start), loan.StartTime)
	assert.Equal(t, vault.UnixTime(0), loan.ClosedAt)
	deadline, err := loan.Deadline()
	require.NoError(t, err)
	assert.Equal(t, vault.AsUnixTime(start.Add(7*day)), deadline)
	require.NoError(t, loan.Validate())

	assert.Equal(t, coin.Amount(50), f.balance(t, f.gold, f.escrow))
	assert.Equal(t, coin.Amount(500), f.balance(t, f.money, f.escrow))
	assert.Equal(t, coin.Amount(500), f.balance(t, f.money, f.borrower))
	assert.Equal(t, coin.Amount(50), f.balance(t, f.gold, f.borrower))

	allowed, err := f.gold.Allowance(f.db, f.borrower, f.escrow)
	require.NoError(t, err)
	assert.Equal(t, coin.Amount(0), allowed, "allowance must be consumed")

	stored, err := f.ctrl.LoanByID(f.db, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, loan, stored)
}

func TestRepayLoanBeforeDeadline(t *testing.T) {
	f := newFixture(t)
	loan := f.request(t, start)

	require.NoError(t, f.money.Approve(f.db, f.borrower, f.escrow, 500))
	repaid, err := f.ctrl.RepayLoan(blockAt(start.Add(3*day)), f.db, f.borrower, loan.ID)
	require.NoError(t, err)

	assert.Equal(t, LoanStateRepaid, repaid.State)
	assert.Equal(t, vault.AsUnixTime(start.Add(3*day)), repaid.ClosedAt)
	require.NoError(t, repaid.Validate())

	assert.Equal(t, coin.Amount(100), f.balance(t, f.gold, f.borrower))
	assert.Equal(t, coin.Amount(0), f.balance(t, f.money, f.borrower))
	assert.Equal(t, coin.Amount(0), f.balance(t, f.gold, f.escrow))
	assert.Equal(t, coin.Amount(1000), f.balance(t, f.money, f.escrow))

	stored, err := f.ctrl.LoanByID(f.db, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, LoanStateRepaid, stored.State)
}

func TestSettleDefaultAfterDeadline(t *testing.T) {
	f := newFixture(t)
	f.request(t, start)
	loan := f.request(t, start)
	require.NoError(t, f.money.Approve(f.db, f.borrower, f.escrow, 500))

	late := blockAt(start.Add(8 * day))
	_, err := f.ctrl.RepayLoan(late, f.db, f.borrower, loan.ID)
	require.True(t, ErrLoanExpired.Is(err), "%+v", err)

	defaulted, dest, err := f.ctrl.SettleDefault(late, f.db, loan.ID)
	require.NoError(t, err)
	assert.Nil(t, dest, "collateral must be retained")
	assert.Equal(t, LoanStateDefaulted, defaulted.State)
	require.NoError(t, defaulted.Validate())

	assert.Equal(t, coin.Amount(100), f.balance(t, f.gold, f.escrow))
	assert.Equal(t, coin.Amount(0), f.balance(t, f.gold, f.borrower))
	assert.Equal(t, coin.Amount(1000), f.balance(t, f.money, f.borrower))

	custody, err := f.ctrl.VerifyCustody(f.db)
	require.NoError(t, err)
	assert.Equal(t, 1, custody.ActiveLoans)
	assert.Equal(t, coin.Amount(50), custody.CollateralPledged)
	assert.Equal(t, coin.Amount(100), custody.CollateralHeld)
}

func TestRequestLoanFailureChangesNothing(t *testing.T) {
	cases := map[string]struct {
		Approve    coin.Amount
		Collateral coin.Amount
		Principal  coin.Amount
		Duration   int64
		MaxDur     int64
		NoClock    bool
		WantErr    *errors.Error
	}{
		"zero collateral": {
			Approve:    50,
			Collateral: 0,
			Principal:  500,
			Duration:   week,
			WantErr:    errors.ErrAmount,
		},
		"zero principal": {
			Approve:    50,
			Collateral: 50,
			Principal:  0,
			Duration:   week,
			WantErr:    errors.ErrAmount,
		},
		"zero duration": {
			Approve:    50,
			Collateral: 50,
			Principal:  500,
			Duration:   0,
			WantErr:    errors.ErrAmount,
		},
		"negative duration": {
			Approve:    50,
			Collateral: 50,
			Principal:  500,
			Duration:   -week,
			WantErr:    errors.ErrAmount,
		},
		"allowance too small": {
			Approve:    40,
			Collateral: 50,
			Principal:  500,
			Duration:   week,
			WantErr:    token.ErrInsufficientAllowance,
		},
		"collateral balance too small": {
			Approve:    500,
			Collateral: 200,
			Principal:  500,
			Duration:   week,
			WantErr:    token.ErrInsufficientBalance,
		},
		"not enough liquidity": {
			Approve:    50,
			Collateral: 50,
			Principal:  1001,
			Duration:   week,
			WantErr:    ErrInsufficientLiquidity,
		},
		"duration over the configured limit": {
			Approve:    50,
			Collateral: 50,
			Principal:  500,
			Duration:   week + 1,
			MaxDur:     week,
			WantErr:    errors.ErrAmount,
		},
		"deadline overflow": {
			Approve:    50,
			Collateral: 50,
			Principal:  500,
			Duration:   1<<63 - 1,
			WantErr:    errors.ErrOverflow,
		},
		"no block time": {
			Approve:    50,
			Collateral: 50,
			Principal:  500,
			Duration:   week,
			NoClock:    true,
			WantErr:    errors.ErrHuman,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.gold.Approve(f.db, f.borrower, f.escrow, tc.Approve))
			if tc.MaxDur != 0 {
				conf := &Configuration{
					Metadata:           &vault.Metadata{Schema: 1},
					Operator:           f.lender,
					MaxDurationSeconds: tc.MaxDur,
				}
				require.NoError(t, gconf.Save(f.db, packageName, conf))
			}
			ctx := blockAt(start)
			if tc.NoClock {
				ctx = context.Background()
			}
			before := snapshot(t, f.db)

			err := f.ctrl.CheckRequest(ctx, f.db, f.borrower, tc.Collateral, tc.Principal, tc.Duration)
			require.True(t, tc.WantErr.Is(err), "check: %+v", err)

			_, err = f.ctrl.RequestLoan(ctx, f.db, f.borrower, tc.Collateral, tc.Principal, tc.Duration)
			require.True(t, tc.WantErr.Is(err), "request: %+v", err)

			assert.Equal(t, before, snapshot(t, f.db))
		})
	}
}

// failingLedger delegates to a token ledger but fails every direct
// transfer.
type failingLedger struct {
	token.Controller
}

func (failingLedger) Transfer(vault.KVStore, vault.Address, vault.Address, coin.Amount) error {
	return errors.Wrap(errors.ErrDatabase, "broken ledger")
}

func TestRequestLoanRollsBackPartialTransfer(t *testing.T) {
	f := newFixture(t)
	ctrl := NewController(f.gold, failingLedger{f.money})
	require.NoError(t, f.gold.Approve(f.db, f.borrower, f.escrow, 50))
	before := snapshot(t, f.db)

	// The collateral is pulled first, the principal transfer fails.
	_, err := ctrl.RequestLoan(blockAt(start), f.db, f.borrower, 50, 500, week)
	require.True(t, errors.ErrDatabase.Is(err), "%+v", err)
	assert.Equal(t, before, snapshot(t, f.db))
}

// plainStore hides the CacheWrap method of the wrapped store.
type plainStore struct {
	vault.KVStore
}

func TestRequestLoanRollsBackWithoutCacheableStore(t *testing.T) {
	f := newFixture(t)
	ctrl := NewController(f.gold, failingLedger{f.money})
	require.NoError(t, f.gold.Approve(f.db, f.borrower, f.escrow, 50))
	before := snapshot(t, f.db)

	_, err := ctrl.RequestLoan(blockAt(start), plainStore{f.db}, f.borrower, 50, 500, week)
	require.True(t, errors.ErrDatabase.Is(err), "%+v", err)
	assert.Equal(t, before, snapshot(t, f.db))

	loan, err := f.ctrl.RequestLoan(blockAt(start), plainStore{f.db}, f.borrower, 50, 500, week)
	require.NoError(t, err)
	assert.Equal(t, LoanStateActive, loan.State)
	assert.Equal(t, coin.Amount(50), f.balance(t, f.gold, f.escrow))
}

func TestDeadlineBoundary(t *testing.T) {
	deadline := start.Add(week * time.Second)

	cases := map[string]struct {
		At            time.Time
		WantRepayErr  *errors.Error
		WantSettleErr *errors.Error
	}{
		"one second before the deadline": {
			At:            deadline.Add(-time.Second),
			WantRepayErr:  nil,
			WantSettleErr: ErrLoanNotExpired,
		},
		"at the deadline": {
			At:            deadline,
			WantRepayErr:  ErrLoanExpired,
			WantSettleErr: nil,
		},
		"one second after the deadline": {
			At:            deadline.Add(time.Second),
			WantRepayErr:  ErrLoanExpired,
			WantSettleErr: nil,
		},
		"at the start": {
			At:            start,
			WantRepayErr:  nil,
			WantSettleErr: ErrLoanNotExpired,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			loan := f.request(t, start)
			require.NoError(t, f.money.Approve(f.db, f.borrower, f.escrow, 500))
			ctx := blockAt(tc.At)

			// Outcomes are mutually exclusive, only one of the checks
			// can pass.
			repayErr := f.ctrl.CheckRepay(ctx, f.db, f.borrower, loan.ID)
			settleErr := f.ctrl.CheckSettle(ctx, f.db, loan.ID)
			require.True(t, tc.WantRepayErr.Is(repayErr), "repay: %+v", repayErr)
			require.True(t, tc.WantSettleErr.Is(settleErr), "settle: %+v", settleErr)
			require.True(t, (repayErr == nil) != (settleErr == nil))

			if tc.WantRepayErr == nil {
				_, err := f.ctrl.RepayLoan(ctx, f.db, f.borrower, loan.ID)
				require.NoError(t, err)
			} else {
				_, _, err := f.ctrl.SettleDefault(ctx, f.db, loan.ID)
				require.NoError(t, err)
			}
		})
	}
}

func TestTerminalLoansCannotChange(t *testing.T) {
	f := newFixture(t)
	repaid := f.request(t, start)
	defaulted := f.request(t, start)

	require.NoError(t, f.money.Approve(f.db, f.borrower, f.escrow, 500))
	_, err := f.ctrl.RepayLoan(blockAt(start.Add(day)), f.db, f.borrower, repaid.ID)
	require.NoError(t, err)
	_, _, err = f.ctrl.SettleDefault(blockAt(start.Add(8*day)), f.db, defaulted.ID)
	require.NoError(t, err)

	require.NoError(t, f.money.Approve(f.db, f.borrower, f.escrow, 1000))
	before := snapshot(t, f.db)

	for _, id := range [][]byte{repaid.ID, defaulted.ID} {
		for _, at := range []time.Time{start.Add(day), start.Add(30 * day)} {
			ctx := blockAt(at)
			_, err := f.ctrl.RepayLoan(ctx, f.db, f.borrower, id)
			assert.True(t, ErrInvalidLoanState.Is(err), "repay %X: %+v", id, err)
			_, _, err = f.ctrl.SettleDefault(ctx, f.db, id)
			assert.True(t, ErrInvalidLoanState.Is(err), "settle %X: %+v", id, err)
		}
	}
	assert.Equal(t, before, snapshot(t, f.db))
}

func TestRepayLoanFailures(t *testing.T) {
	cases := map[string]struct {
		Caller  func(*fixture) vault.Address
		LoanID  []byte
		Approve coin.Amount
		Spend   coin.Amount
		WantErr *errors.Error
	}{
		"not the borrower": {
			Caller:  func(f *fixture) vault.Address { return f.lender },
			Approve: 500,
			WantErr: errors.ErrUnauthorized,
		},
		"unknown loan": {
			Caller:  func(f *fixture) vault.Address { return f.borrower },
			LoanID:  vaulttest.SequenceID(42),
			Approve: 500,
			WantErr: ErrInvalidLoanState,
		},
		"repayment not approved": {
			Caller:  func(f *fixture) vault.Address { return f.borrower },
			Approve: 499,
			WantErr: ErrInsufficientFunds,
		},
		"proceeds spent": {
			Caller:  func(f *fixture) vault.Address { return f.borrower },
			Approve: 500,
			Spend:   1,
			WantErr: ErrInsufficientFunds,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			loan := f.request(t, start)
			require.NoError(t, f.money.Approve(f.db, f.borrower, f.escrow, tc.Approve))
			if tc.Spend != 0 {
				require.NoError(t, f.money.Transfer(f.db, f.borrower, f.lender, tc.Spend))
			}
			id := tc.LoanID
			if id == nil {
				id = loan.ID
			}
			before := snapshot(t, f.db)

			_, err := f.ctrl.RepayLoan(blockAt(start.Add(day)), f.db, tc.Caller(f), id)
			require.True(t, tc.WantErr.Is(err), "%+v", err)
			assert.Equal(t, before, snapshot(t, f.db))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	f := newFixture(t)
	goldBefore := f.balance(t, f.gold, f.borrower)
	liquidityBefore := f.balance(t, f.money, f.escrow)

	const principal = 300
	require.NoError(t, f.gold.Approve(f.db, f.borrower, f.escrow, 70))
	loan, err := f.ctrl.RequestLoan(blockAt(start), f.db, f.borrower, 70, principal, 60)
	require.NoError(t, err)
	assert.Equal(t, liquidityBefore-principal, f.balance(t, f.money, f.escrow))

	require.NoError(t, f.money.Approve(f.db, f.borrower, f.escrow, principal))
	_, err = f.ctrl.RepayLoan(blockAt(start.Add(59*time.Second)), f.db, f.borrower, loan.ID)
	require.NoError(t, err)

	assert.Equal(t, goldBefore, f.balance(t, f.gold, f.borrower))
	assert.Equal(t, liquidityBefore, f.balance(t, f.money, f.escrow))
}

func TestSettleDefaultForfeitDestination(t *testing.T) {
	treasury := vaulttest.RandomAddr(t)

	cases := map[string]struct {
		Destination  vault.Address
		WantDest     vault.Address
		WantEscrow   coin.Amount
		WantTreasury coin.Amount
	}{
		"retained without a destination": {
			Destination: nil,
			WantDest:    nil,
			WantEscrow:  50,
		},
		"moved to the treasury": {
			Destination:  treasury,
			WantDest:     treasury,
			WantTreasury: 50,
		},
		"escrow as the destination retains": {
			Destination: EscrowAddress(),
			WantDest:    nil,
			WantEscrow:  50,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			conf := &Configuration{
				Metadata:           &vault.Metadata{Schema: 1},
				Operator:           f.lender,
				ForfeitDestination: tc.Destination,
			}
			require.NoError(t, gconf.Save(f.db, packageName, conf))
			loan := f.request(t, start)

			_, dest, err := f.ctrl.SettleDefault(blockAt(start.Add(8*day)), f.db, loan.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.WantDest, dest)
			assert.Equal(t, tc.WantEscrow, f.balance(t, f.gold, f.escrow))
			assert.Equal(t, tc.WantTreasury, f.balance(t, f.gold, treasury))
			assert.Equal(t, coin.Amount(50), f.balance(t, f.gold, f.borrower))

			custody, err := f.ctrl.VerifyCustody(f.db)
			require.NoError(t, err)
			assert.Equal(t, 0, custody.ActiveLoans)
		})
	}
}

func TestConservation(t *testing.T) {
	f := newFixture(t)
	var loans []*Loan
	for i := 0; i < 4; i++ {
		require.NoError(t, f.gold.Approve(f.db, f.borrower, f.escrow, 20))
		loan, err := f.ctrl.RequestLoan(blockAt(start), f.db, f.borrower, 20, 100, week)
		require.NoError(t, err)
		loans = append(loans, loan)

		custody, err := f.ctrl.VerifyCustody(f.db)
		require.NoError(t, err)
		assert.Equal(t, i+1, custody.ActiveLoans)
		assert.True(t, custody.CollateralHeld >= custody.CollateralPledged)
	}

	require.NoError(t, f.money.Approve(f.db, f.borrower, f.escrow, 100))
	_, err := f.ctrl.RepayLoan(blockAt(start.Add(day)), f.db, f.borrower, loans[0].ID)
	require.NoError(t, err)
	_, _, err = f.ctrl.SettleDefault(blockAt(start.Add(8*day)), f.db, loans[1].ID)
	require.NoError(t, err)

	custody, err := f.ctrl.VerifyCustody(f.db)
	require.NoError(t, err)
	assert.Equal(t, 2, custody.ActiveLoans)
	assert.Equal(t, coin.Amount(40), custody.CollateralPledged)
	assert.Equal(t, coin.Amount(60), custody.CollateralHeld)
	assert.Equal(t, coin.Amount(1000-400+100), custody.Liquidity)

	// Moving custody funds behind the escrow's back is detected.
	require.NoError(t, f.gold.Transfer(f.db, f.escrow, f.lender, 30))
	_, err = f.ctrl.VerifyCustody(f.db)
	assert.True(t, errors.ErrHuman.Is(err), "%+v", err)
}

func TestQueries(t *testing.T) {
	f := newFixture(t)
	other := vaulttest.RandomAddr(t)
	require.NoError(t, f.gold.Mint(f.db, f.minter, other, 10))
	require.NoError(t, f.money.Mint(f.db, f.minter, f.lender, 100))
	require.NoError(t, f.money.Approve(f.db, f.lender, f.escrow, 100))
	require.NoError(t, f.ctrl.ProvideLiquidity(f.db, f.lender, 100))

	first := f.request(t, start)
	require.NoError(t, f.gold.Approve(f.db, other, f.escrow, 10))
	second, err := f.ctrl.RequestLoan(blockAt(start), f.db, other, 10, 100, week)
	require.NoError(t, err)
	third := f.request(t, start)

	_, _, err = f.ctrl.SettleDefault(blockAt(start.Add(8*day)), f.db, third.ID)
	require.NoError(t, err)

	mine, err := f.ctrl.LoansByBorrower(f.db, f.borrower)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, first.ID, mine[0].ID)
	assert.Equal(t, third.ID, mine[1].ID)

	active, err := f.ctrl.LoansByState(f.db, LoanStateActive)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, second.ID, active[1].ID)

	defaulted, err := f.ctrl.LoansByState(f.db, LoanStateDefaulted)
	require.NoError(t, err)
	require.Len(t, defaulted, 1)
	assert.Equal(t, third.ID, defaulted[0].ID)

	repaid, err := f.ctrl.LoansByState(f.db, LoanStateRepaid)
	require.NoError(t, err)
	assert.Empty(t, repaid)

	var ids []int64
	err = f.ctrl.Loans(f.db, func(l *Loan) error {
		ids = append(ids, l.SequenceID())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	_, err = f.ctrl.LoanByID(f.db, vaulttest.SequenceID(99))
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
}

func TestProvideLiquidity(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.money.Mint(f.db, f.minter, f.lender, 300))

	err := f.ctrl.ProvideLiquidity(f.db, f.lender, 300)
	assert.True(t, token.ErrInsufficientAllowance.Is(err), "%+v", err)

	require.NoError(t, f.money.Approve(f.db, f.lender, f.escrow, 300))
	require.NoError(t, f.ctrl.ProvideLiquidity(f.db, f.lender, 300))
	assert.Equal(t, coin.Amount(1300), f.balance(t, f.money, f.escrow))

	err = f.ctrl.ProvideLiquidity(f.db, f.lender, 0)
	assert.True(t, errors.ErrAmount.Is(err), "%+v", err)
}

func TestNewControllerRequiresDistinctTokens(t *testing.T) {
	assert.Panics(t, func() {
		NewController(token.NewController("GOLD"), token.NewController("GOLD"))
	})
}
