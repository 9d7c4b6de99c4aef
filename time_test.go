package vault

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/vault/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnixTimeFromJSON(t *testing.T) {
	cases := map[string]struct {
		JSON    string
		Want    UnixTime
		WantErr *errors.Error
	}{
		"seconds": {
			JSON: "1772366400",
			Want: 1772366400,
		},
		"rfc3339 in utc": {
			JSON: `"2026-03-01T12:00:00Z"`,
			Want: 1772366400,
		},
		"rfc3339 with offset": {
			JSON: `"2026-03-01T13:00:00+01:00"`,
			Want: 1772366400,
		},
		"epoch": {
			JSON: `"1970-01-01T00:00:00Z"`,
		},
		"negative seconds": {
			JSON:    "-5",
			WantErr: errors.ErrInput,
		},
		"before epoch": {
			JSON:    `"1969-12-31T23:59:59Z"`,
			WantErr: errors.ErrInput,
		},
		"not a time": {
			JSON:    `"next tuesday"`,
			WantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixTime
			err := json.Unmarshal([]byte(tc.JSON), &got)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, tc.Want, got)
		})
	}
}

func TestUnixTimeAddSeconds(t *testing.T) {
	start := AsUnixTime(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	deadline, err := start.AddSeconds(7 * 24 * 3600)
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, deadline.Time().Sub(start.Time()))
	assert.Equal(t, "2026-03-08T12:00:00Z", deadline.String())

	back, err := deadline.AddSeconds(-7 * 24 * 3600)
	require.NoError(t, err)
	assert.Equal(t, start, back)

	_, err = UnixTime(1<<63 - 10).AddSeconds(100)
	assert.True(t, errors.ErrOverflow.Is(err))
	_, err = UnixTime(-1 << 63).AddSeconds(-1)
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestUnixTimeValidate(t *testing.T) {
	assert.NoError(t, UnixTime(0).Validate())
	assert.True(t, UnixTime(0).IsZero())
	assert.True(t, errors.ErrState.Is(UnixTime(-1).Validate()))
}
