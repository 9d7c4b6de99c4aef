package main

import (
	"time"

	"github.com/iov-one/vault"
	vaultd "github.com/iov-one/vault/cmd/vaultd/app"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
	"github.com/iov-one/vault/x/loanescrow"
	"github.com/iov-one/vault/x/token"
	yaml "gopkg.in/yaml.v2"
)

// Scenario is a list of calls executed one after another. Accounts are
// referenced by name. The "escrow" name refers to the escrow custody.
type Scenario struct {
	// Start is the RFC 3339 time of the first call. When not set, the
	// current time is used.
	Start string `yaml:"start"`
	Steps []Step `yaml:"steps"`
}

// Step is a single call. Exactly one of the message fields must be set.
type Step struct {
	Name string `yaml:"name"`
	// Advance moves the clock forward before the call is executed.
	Advance string `yaml:"advance"`
	// Signer is the name of the account signing the call.
	Signer string `yaml:"signer"`
	// Expect is the name of the error the call must fail with. When not
	// set the call must succeed.
	Expect string `yaml:"expect"`

	Mint             *TokenStep     `yaml:"mint"`
	Transfer         *TokenStep     `yaml:"transfer"`
	Approve          *TokenStep     `yaml:"approve"`
	Request          *RequestStep   `yaml:"request"`
	Repay            *LoanStep      `yaml:"repay"`
	Settle           *LoanStep      `yaml:"settle"`
	ProvideLiquidity *AmountStep    `yaml:"provide_liquidity"`
	Configure        *ConfigureStep `yaml:"configure"`
}

type TokenStep struct {
	Ticker string      `yaml:"ticker"`
	To     string      `yaml:"to"`
	Amount coin.Amount `yaml:"amount"`
}

type RequestStep struct {
	Collateral coin.Amount `yaml:"collateral"`
	Principal  coin.Amount `yaml:"principal"`
	Duration   string      `yaml:"duration"`
}

type LoanStep struct {
	Loan int64 `yaml:"loan"`
}

type AmountStep struct {
	Amount coin.Amount `yaml:"amount"`
}

type ConfigureStep struct {
	Operator    string   `yaml:"operator"`
	Settlers    []string `yaml:"settlers"`
	ForfeitTo   string   `yaml:"forfeit_to"`
	MaxDuration string   `yaml:"max_duration"`
	// Clear names policy fields reset to their default.
	Clear       []string `yaml:"clear"`
}

// expectedErrors maps the names a scenario can expect to errors.
var expectedErrors = map[string]*errors.Error{
	"InsufficientAllowance": token.ErrInsufficientAllowance,
	"InsufficientBalance":   token.ErrInsufficientBalance,
	"InsufficientFunds":     loanescrow.ErrInsufficientFunds,
	"InsufficientLiquidity": loanescrow.ErrInsufficientLiquidity,
	"InvalidAmount":         errors.ErrAmount,
	"InvalidInput":          errors.ErrInput,
	"InvalidLoanState":      loanescrow.ErrInvalidLoanState,
	"LoanExpired":           loanescrow.ErrLoanExpired,
	"LoanNotExpired":        loanescrow.ErrLoanNotExpired,
	"Overflow":              errors.ErrOverflow,
	"Unauthorized":          errors.ErrUnauthorized,
}

// ParseScenario decodes and validates a scenario.
func ParseScenario(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.UnmarshalStrict(raw, &s); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode scenario: %s", err)
	}
	if _, err := s.StartTime(); err != nil {
		return nil, err
	}
	if len(s.Steps) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "no steps")
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return nil, errors.Wrapf(err, "step #%d", i+1)
		}
	}
	return &s, nil
}

// StartTime returns the time of the first call or zero time if not set.
func (s *Scenario) StartTime() (time.Time, error) {
	if s.Start == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s.Start)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrInput, "start: %s", err)
	}
	return t.UTC(), nil
}

func (st *Step) validate() error {
	if _, err := st.advance(); err != nil {
		return err
	}
	if st.Expect != "" {
		if _, ok := expectedErrors[st.Expect]; !ok {
			return errors.Wrapf(errors.ErrInput, "unknown expected error %q", st.Expect)
		}
	}
	set := 0
	for _, ok := range []bool{
		st.Mint != nil,
		st.Transfer != nil,
		st.Approve != nil,
		st.Request != nil,
		st.Repay != nil,
		st.Settle != nil,
		st.ProvideLiquidity != nil,
		st.Configure != nil,
	} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return errors.Wrapf(errors.ErrInput, "exactly one message must be set, got %d", set)
	}
	_, err := st.Msg()
	return err
}

func (st *Step) advance() (time.Duration, error) {
	if st.Advance == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(st.Advance)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "advance: %s", err)
	}
	if d < 0 {
		return 0, errors.Wrap(errors.ErrInput, "advance: clock cannot go backward")
	}
	return d, nil
}

// Msg returns the message executed by the step.
func (st *Step) Msg() (vault.Msg, error) {
	switch {
	case st.Mint != nil:
		return &token.MintMsg{
			Ticker:    st.Mint.Ticker,
			Recipient: accountAddress(st.Mint.To),
			Amount:    st.Mint.Amount,
		}, nil
	case st.Transfer != nil:
		return &token.TransferMsg{
			Ticker:      st.Transfer.Ticker,
			Destination: accountAddress(st.Transfer.To),
			Amount:      st.Transfer.Amount,
		}, nil
	case st.Approve != nil:
		return &token.ApproveMsg{
			Ticker:  st.Approve.Ticker,
			Spender: accountAddress(st.Approve.To),
			Amount:  st.Approve.Amount,
		}, nil
	case st.Request != nil:
		d, err := seconds(st.Request.Duration)
		if err != nil {
			return nil, errors.Wrap(err, "duration")
		}
		return &loanescrow.RequestLoanMsg{
			CollateralAmount: st.Request.Collateral,
			PrincipalAmount:  st.Request.Principal,
			DurationSeconds:  d,
		}, nil
	case st.Repay != nil:
		return &loanescrow.RepayLoanMsg{LoanID: orm.EncodeSequence(st.Repay.Loan)}, nil
	case st.Settle != nil:
		return &loanescrow.SettleDefaultMsg{LoanID: orm.EncodeSequence(st.Settle.Loan)}, nil
	case st.ProvideLiquidity != nil:
		return &loanescrow.ProvideLiquidityMsg{Amount: st.ProvideLiquidity.Amount}, nil
	case st.Configure != nil:
		c := st.Configure
		operator := c.Operator
		if operator == "" {
			operator = st.Signer
		}
		conf := &loanescrow.Configuration{
			Metadata:           &vault.Metadata{Schema: 1},
			Operator:           accountAddress(operator),
			ForfeitDestination: accountAddress(c.ForfeitTo),
		}
		for _, s := range c.Settlers {
			conf.Settlers = append(conf.Settlers, accountAddress(s))
		}
		if c.MaxDuration != "" {
			d, err := seconds(c.MaxDuration)
			if err != nil {
				return nil, errors.Wrap(err, "max duration")
			}
			conf.MaxDurationSeconds = d
		}
		return &loanescrow.UpdateConfigurationMsg{Patch: conf, Clear: c.Clear}, nil
	}
	return nil, errors.Wrap(errors.ErrEmpty, "message")
}

// accountAddress returns the address of a named account or nil for an
// empty name.
func accountAddress(name string) vault.Address {
	if name == "" {
		return nil
	}
	return vaultd.AccountAddress(name)
}

// seconds parses a duration into whole seconds.
func seconds(s string) (int64, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrInput, err.Error())
	}
	return int64(d / time.Second), nil
}
