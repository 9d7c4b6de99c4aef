package loanescrow

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	operator := vaulttest.RandomAddr(t)

	cases := map[string]struct {
		Genesis  string
		WantErr  *errors.Error
		WantConf *Configuration
	}{
		"no configuration uses the default policy": {
			Genesis:  `{}`,
			WantConf: &Configuration{},
		},
		"configuration": {
			Genesis: `{"conf": {"loanescrow": {
				"metadata": {"schema": 1},
				"operator": "` + operator.String() + `",
				"forfeit_destination": "cond:loanescrow/custody/657363726f77",
				"max_duration_seconds": 604800
			}}}`,
			WantConf: &Configuration{
				Metadata:           &vault.Metadata{Schema: 1},
				Operator:           operator,
				ForfeitDestination: EscrowAddress(),
				MaxDurationSeconds: week,
			},
		},
		"invalid configuration": {
			Genesis: `{"conf": {"loanescrow": {"metadata": {"schema": 1}}}}`,
			WantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts vault.Options
			require.NoError(t, json.Unmarshal([]byte(tc.Genesis), &opts))

			db := store.MemStore()
			var ini Initializer
			err := ini.FromGenesis(opts, db)
			require.True(t, tc.WantErr.Is(err), "%+v", err)
			if tc.WantErr != nil {
				return
			}
			conf, err := loadConf(db)
			require.NoError(t, err)
			assert.Equal(t, tc.WantConf, conf)
		})
	}
}
