package vault

import (
	"encoding/json"
	"time"

	"github.com/iov-one/vault/errors"
)

// UnixTime is a moment in seconds since the epoch. Stored models use it
// instead of time.Time to keep a compact encoding.
type UnixTime int64

// AsUnixTime truncates t to seconds.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// Time returns the moment in UTC.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

func (t UnixTime) IsZero() bool {
	return t == 0
}

// AddSeconds moves t by s seconds and fails with ErrOverflow when the
// result does not fit.
func (t UnixTime) AddSeconds(s int64) (UnixTime, error) {
	sum := t + UnixTime(s)
	if (s > 0 && sum < t) || (s < 0 && sum > t) {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d seconds", t, s)
	}
	return sum, nil
}

func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "before epoch")
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().Format(time.RFC3339)
}

// UnmarshalJSON accepts seconds or an RFC 3339 string. Moments before the
// epoch are rejected.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		var tm time.Time
		if err := json.Unmarshal(raw, &tm); err != nil {
			return errors.Wrapf(errors.ErrInput, "time %s", raw)
		}
		n = tm.Unix()
	}
	if n < 0 {
		return errors.Wrapf(errors.ErrInput, "time %s is before epoch", raw)
	}
	*t = UnixTime(n)
	return nil
}
