package app

import (
	"encoding/json"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/loanescrow"
	"github.com/iov-one/vault/x/token"
)

// GenesisState is the application state of the genesis file.
type GenesisState struct {
	Tokens []token.GenesisToken `json:"tokens"`
	Conf   *GenesisConf         `json:"conf,omitempty"`
}

// GenesisConf holds the configuration of all extensions.
type GenesisConf struct {
	LoanEscrow *loanescrow.Configuration `json:"loanescrow,omitempty"`
}

// NewGenesis returns a genesis document for given chain.
func NewGenesis(chainID string, state GenesisState) (*app.Genesis, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var opts vault.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &app.Genesis{ChainID: chainID, AppState: opts}, nil
}

// DefaultGenesisState returns a state with the collateral and the loan
// token defined, both minted by the "treasury" account. The "client"
// holds collateral and the "lender" holds funds that can be provided as
// liquidity. The escrow policy is owned by the "operator".
func DefaultGenesisState(collateral, loan string) GenesisState {
	treasury := AccountAddress("treasury")
	return GenesisState{
		Tokens: []token.GenesisToken{
			{
				Ticker:   collateral,
				Name:     "Collateral token",
				Minter:   treasury,
				Balances: []token.GenesisAmount{{Address: AccountAddress("client"), Amount: 100}},
			},
			{
				Ticker:   loan,
				Name:     "Loan token",
				Minter:   treasury,
				Balances: []token.GenesisAmount{{Address: AccountAddress("lender"), Amount: 1000}},
			},
		},
		Conf: &GenesisConf{
			LoanEscrow: &loanescrow.Configuration{
				Metadata: &vault.Metadata{Schema: 1},
				Operator: AccountAddress("operator"),
			},
		},
	}
}
