package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	vaultd "github.com/iov-one/vault/cmd/vaultd/app"
	"github.com/iov-one/vault/errors"
)

func cmdGenesis(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Write a genesis document to the output. Both tokens are minted by the
"treasury" account. The "client" account holds 100 collateral tokens and the
"lender" account holds 1000 loan tokens. The escrow policy is owned by the
"operator" account.
		`)
		fl.PrintDefaults()
	}
	var (
		chainIDFl    = fl.String("chain-id", "vault-local", "Chain ID of the genesis.")
		collateralFl = fl.String("collateral", "GOLD", "Ticker of the collateral token.")
		loanFl       = fl.String("loan", "MONEY", "Ticker of the loan token.")
	)
	fl.Parse(args)

	gen, err := vaultd.NewGenesis(*chainIDFl, vaultd.DefaultGenesisState(*collateralFl, *loanFl))
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize genesis: %s", err)
	}
	_, err = fmt.Fprintln(output, string(raw))
	return err
}

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Initialize a new state in the home directory using the genesis document read
from the input.
		`)
		fl.PrintDefaults()
	}
	var (
		homeFl       = fl.String("home", defaultHome(), "Directory the state is stored in.")
		collateralFl = fl.String("collateral", "GOLD", "Ticker of the collateral token.")
		loanFl       = fl.String("loan", "MONEY", "Ticker of the loan token.")
		logLevelFl   = fl.String("log-level", "info", "Minimal level of logged messages.")
	)
	fl.Parse(args)

	if _, err := loadConfig(*homeFl); !errors.ErrNotFound.Is(err) {
		if err == nil {
			return fmt.Errorf("%s is already initialized", *homeFl)
		}
		return err
	}

	raw, err := ioutil.ReadAll(input)
	if err != nil {
		return fmt.Errorf("cannot read genesis: %s", err)
	}
	gen, err := app.ParseGenesis(raw)
	if err != nil {
		return err
	}
	conf := &Config{
		ChainID:          gen.ChainID,
		CollateralTicker: *collateralFl,
		LoanTicker:       *loanFl,
		LogLevel:         *logLevelFl,
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(*homeFl, 0700); err != nil {
		return fmt.Errorf("cannot create home directory: %s", err)
	}

	n, err := newNode(*homeFl, conf, vault.SystemClock{}, nil)
	if err != nil {
		return err
	}
	defer n.Close()
	if err := n.InitGenesis(gen); err != nil {
		return err
	}
	if err := saveConfig(*homeFl, conf); err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "initialized chain %s in %s\n", gen.ChainID, *homeFl)
	return err
}

func defaultHome() string {
	if home := os.Getenv("VAULTD_HOME"); home != "" {
		return home
	}
	return ".vaultd"
}
