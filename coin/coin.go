package coin

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/iov-one/vault/errors"
)

// IsTicker is the RegExp to ensure valid token tickers.
var IsTicker = regexp.MustCompile(`^[A-Z]{3,8}$`).MatchString

// MaxDecimals is the highest number of decimal places a token can declare.
// Above that a single whole unit would not fit into an Amount.
const MaxDecimals = 18

// Amount is a non negative quantity of a token, expressed in the smallest
// indivisible units of that token.
type Amount uint64

// IsZero returns true if the amount represents no value.
func (a Amount) IsZero() bool {
	return a == 0
}

// Add returns the sum of both amounts. Overflow results in an error.
func (a Amount) Add(b Amount) (Amount, error) {
	if b > math.MaxUint64-a {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return a + b, nil
}

// Sub returns the difference of both amounts. The result can never be
// negative, subtracting a bigger value results in an error.
func (a Amount) Sub(b Amount) (Amount, error) {
	if b > a {
		return 0, errors.Wrapf(errors.ErrInsufficientAmount, "%d - %d", a, b)
	}
	return a - b, nil
}

// Cmp returns 1 if a is larger, -1 if b is larger, 0 if equal
func (a Amount) Cmp(b Amount) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// Sum returns the total of all given amounts.
func Sum(amounts ...Amount) (Amount, error) {
	var total Amount
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return 0, err
		}
	}
	return total, nil
}

func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// Format returns a human readable representation of the amount, using given
// number of decimal places. Trailing fractional zeros are dropped.
//   Amount(1050).Format(2) == "10.5"
func (a Amount) Format(decimals uint8) string {
	s := a.String()
	if decimals == 0 {
		return s
	}
	d := int(decimals)
	if len(s) <= d {
		s = strings.Repeat("0", d-len(s)+1) + s
	}
	whole, frac := s[:len(s)-d], strings.TrimRight(s[len(s)-d:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// ParseAmount parses a human readable representation of an amount with
// given number of decimal places. Both "12" and "12.5" are accepted. Using
// more fractional digits than decimals allow is an error.
func ParseAmount(s string, decimals uint8) (Amount, error) {
	if decimals > MaxDecimals {
		return 0, errors.Wrapf(errors.ErrInput, "decimals must not exceed %d", MaxDecimals)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.Wrap(errors.ErrAmount, "empty")
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
		if frac == "" {
			return 0, errors.Wrapf(errors.ErrAmount, "invalid amount %q", s)
		}
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > int(decimals) {
		return 0, errors.Wrapf(errors.ErrAmount, "%q has more than %d decimal places", s, decimals)
	}
	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, errors.Wrapf(errors.ErrAmount, "invalid amount %q", s)
		}
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrOverflow, "amount %q", s)
	}
	return Amount(n), nil
}

// MarshalJSON serializes the amount as a string. JSON numbers cannot
// precisely represent all uint64 values in most clients.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both a string and a number representation.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return errors.Wrapf(errors.ErrAmount, "invalid amount %q", s)
		}
		*a = Amount(n)
		return nil
	}
	var n uint64
	if err := json.Unmarshal(raw, &n); err != nil {
		return errors.Wrapf(errors.ErrAmount, "invalid amount %s", raw)
	}
	*a = Amount(n)
	return nil
}
