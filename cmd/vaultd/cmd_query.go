package main

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iov-one/vault"
	vaultd "github.com/iov-one/vault/cmd/vaultd/app"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/x/loanescrow"
	"github.com/iov-one/vault/x/token"
)

func cmdBalances(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print balances of named accounts. When no account name is given, balances of
all holders are printed. The "escrow" name refers to the escrow custody.
		`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = fl.String("home", defaultHome(), "Directory the state is stored in.")
		tickerFl = fl.String("ticker", "", "Ticker of the token. When not set, both the collateral and the loan token are printed.")
	)
	fl.Parse(args)

	n, err := openNode(*homeFl, vault.SystemClock{}, nil)
	if err != nil {
		return err
	}
	defer n.Close()

	tickers := []string{n.conf.CollateralTicker, n.conf.LoanTicker}
	if *tickerFl != "" {
		tickers = []string{*tickerFl}
	}

	return n.Query(func(db vault.ReadOnlyKVStore) error {
		for _, ticker := range tickers {
			ctrl := token.NewController(ticker)
			tok, err := ctrl.Token(db)
			if err != nil {
				return fmt.Errorf("token %s: %s", ticker, err)
			}
			decimals := uint8(tok.Decimals)
			if fl.NArg() == 0 {
				err := ctrl.Holders(db, func(account vault.Address, amount coin.Amount) error {
					_, err := fmt.Fprintf(output, "%s\t%s\t%s\n", ticker, accountLabel(account), amount.Format(decimals))
					return err
				})
				if err != nil {
					return err
				}
				continue
			}
			for _, name := range fl.Args() {
				amount, err := ctrl.BalanceOf(db, vaultd.AccountAddress(name))
				if err != nil {
					return err
				}
				fmt.Fprintf(output, "%s\t%s\t%s\n", ticker, name, amount.Format(decimals))
			}
		}
		return nil
	})
}

func cmdLoans(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print loans together with the escrow custody summary.
		`)
		fl.PrintDefaults()
	}
	var (
		homeFl     = fl.String("home", defaultHome(), "Directory the state is stored in.")
		stateFl    = fl.String("state", "", "Print only loans in given state: active, repaid or defaulted.")
		borrowerFl = fl.String("borrower", "", "Print only loans of the named borrower.")
	)
	fl.Parse(args)

	var state loanescrow.LoanState
	if *stateFl != "" {
		s, err := loanescrow.ParseLoanState(*stateFl)
		if err != nil {
			flagDie("invalid state: %s", err)
		}
		state = s
	}

	n, err := openNode(*homeFl, vault.SystemClock{}, nil)
	if err != nil {
		return err
	}
	defer n.Close()

	return n.Query(func(db vault.ReadOnlyKVStore) error {
		var (
			loans []*loanescrow.Loan
			err   error
		)
		switch {
		case *borrowerFl != "":
			loans, err = n.Escrow.LoansByBorrower(db, vaultd.AccountAddress(*borrowerFl))
		case state != loanescrow.LoanStateInvalid:
			loans, err = n.Escrow.LoansByState(db, state)
		default:
			err = n.Escrow.Loans(db, func(l *loanescrow.Loan) error {
				loans = append(loans, l)
				return nil
			})
		}
		if err != nil {
			return err
		}
		for _, l := range loans {
			if state != loanescrow.LoanStateInvalid && l.State != state {
				continue
			}
			if err := printLoan(output, n.conf, l); err != nil {
				return err
			}
		}

		custody, err := n.Escrow.VerifyCustody(db)
		if custody != nil {
			fmt.Fprintf(output, "custody: %d active loans, collateral held %s %s, pledged %s %s, liquidity %s %s\n",
				custody.ActiveLoans,
				custody.CollateralHeld, n.conf.CollateralTicker,
				custody.CollateralPledged, n.conf.CollateralTicker,
				custody.Liquidity, n.conf.LoanTicker)
		}
		return err
	})
}

func printLoan(output io.Writer, conf *Config, l *loanescrow.Loan) error {
	deadline, err := l.Deadline()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "loan %d\t%s\tborrower %s\tcollateral %s %s\tprincipal %s %s\tstart %s\tdeadline %s\n",
		l.SequenceID(), l.State, accountLabel(l.Borrower),
		l.CollateralAmount, conf.CollateralTicker,
		l.PrincipalAmount, conf.LoanTicker,
		l.StartTime.Time().UTC().Format(time.RFC3339),
		deadline.Time().UTC().Format(time.RFC3339))
	return err
}

// accountLabel returns "escrow" for the escrow custody and the address
// otherwise.
func accountLabel(a vault.Address) string {
	if a.Equals(loanescrow.EscrowAddress()) {
		return "escrow"
	}
	return a.String()
}
