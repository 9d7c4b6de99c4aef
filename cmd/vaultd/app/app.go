/*
Package app links together all the various components
to construct the vaultd application.
*/
package app

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/x"
	"github.com/iov-one/vault/x/loanescrow"
	"github.com/iov-one/vault/x/token"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator returns the authentication of call signers.
func Authenticator() x.Authenticator {
	return x.ChainAuth(app.SignerAuth)
}

// Chain returns a chain of decorators, to handle logging and recovery.
func Chain() app.Decorators {
	return app.ChainDecorators(
		app.NewLogging(),
		app.NewRecovery(),
	)
}

// Router returns a router dispatching to the token and the loan escrow
// handlers.
func Router(authFn x.Authenticator, escrow *loanescrow.Controller) *app.Router {
	r := app.NewRouter()
	token.RegisterRoutes(r, authFn)
	loanescrow.RegisterRoutes(r, authFn, escrow)
	return r
}

// Stack wires up a standard router with a standard decorator chain.
func Stack(escrow *loanescrow.Controller) vault.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn, escrow))
}

// Initializers returns the initializers of all extensions.
func Initializers() vault.Initializer {
	return vault.ChainInitializers(
		&token.Initializer{},
		&loanescrow.Initializer{},
	)
}

// Escrow returns the loan escrow controller operating on the collateral
// and the loan token with given tickers.
func Escrow(collateral, loan string) *loanescrow.Controller {
	return loanescrow.NewController(token.NewController(collateral), token.NewController(loan))
}

// Options configure the application.
type Options struct {
	// CollateralTicker is the token accepted as collateral.
	CollateralTicker string
	// LoanTicker is the token disbursed as loan proceeds.
	LoanTicker string
	Clock      vault.Clock
	Logger     log.Logger
	Metrics    *app.Metrics
}

// Application is the vaultd application: an executor processing calls
// against the state and the escrow controller used to query it.
type Application struct {
	*app.Executor
	Escrow *loanescrow.Controller
}

// NewApplication returns an application using given store.
func NewApplication(db vault.CommitKVStore, opts Options) (*Application, error) {
	if opts.Clock == nil {
		opts.Clock = vault.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	escrow := Escrow(opts.CollateralTicker, opts.LoanTicker)
	exec, err := app.NewExecutor(db, Stack(escrow), opts.Clock)
	if err != nil {
		return nil, err
	}
	exec = exec.WithLogger(opts.Logger).WithMetrics(opts.Metrics)
	return &Application{Executor: exec, Escrow: escrow}, nil
}

// InitGenesis loads the genesis into a fresh state.
func (a *Application) InitGenesis(gen *app.Genesis) error {
	return a.Executor.InitGenesis(gen, Initializers())
}

// AccountCondition returns the condition of a named account.
func AccountCondition(name string) vault.Condition {
	return vault.NewCondition("vault", "account", []byte(name))
}

// AccountAddress returns the address of a named account. The "escrow"
// name refers to the loan escrow custody.
func AccountAddress(name string) vault.Address {
	if name == "escrow" {
		return loanescrow.EscrowAddress()
	}
	return AccountCondition(name).Address()
}
