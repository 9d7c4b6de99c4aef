package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	vaultd "github.com/iov-one/vault/cmd/vaultd/app"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store/iavl"
	"github.com/tendermint/tendermint/libs/log"
	yaml "gopkg.in/yaml.v2"
)

const (
	configFile = "config.yaml"
	storeName  = "vault"
)

// Config describes an initialized home directory.
type Config struct {
	ChainID          string `yaml:"chain_id"`
	CollateralTicker string `yaml:"collateral_ticker"`
	LoanTicker       string `yaml:"loan_ticker"`
	LogLevel         string `yaml:"log_level"`
}

func (c *Config) Validate() error {
	var errs error
	if c.ChainID == "" {
		errs = errors.AppendField(errs, "ChainID", errors.ErrEmpty)
	}
	if !coin.IsTicker(c.CollateralTicker) {
		errs = errors.AppendField(errs, "CollateralTicker", errors.Wrapf(errors.ErrInput, "invalid ticker %q", c.CollateralTicker))
	}
	if !coin.IsTicker(c.LoanTicker) {
		errs = errors.AppendField(errs, "LoanTicker", errors.Wrapf(errors.ErrInput, "invalid ticker %q", c.LoanTicker))
	}
	if c.CollateralTicker == c.LoanTicker {
		errs = errors.AppendField(errs, "LoanTicker", errors.Wrap(errors.ErrDuplicate, "same as collateral ticker"))
	}
	return errs
}

func loadConfig(home string) (*Config, error) {
	raw, err := ioutil.ReadFile(filepath.Join(home, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "%s is not initialized", home)
		}
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode configuration: %s", err)
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration")
	}
	return &c, nil
}

func saveConfig(home string, c *Config) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(filepath.Join(home, configFile), raw, 0600); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// newLogger returns a logger writing messages of at least given level.
func newLogger(w io.Writer, level string) (log.Logger, error) {
	if level == "" {
		level = "info"
	}
	allow, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(w)), allow), nil
}

// node is an application opened on a home directory.
type node struct {
	*vaultd.Application
	conf *Config
	db   *iavl.CommitStore
}

// openNode opens the application stored in the home directory. Calls are
// stamped with the time of given clock.
func openNode(home string, clock vault.Clock, metrics *app.Metrics) (*node, error) {
	conf, err := loadConfig(home)
	if err != nil {
		return nil, err
	}
	n, err := newNode(home, conf, clock, metrics)
	if err != nil {
		return nil, err
	}
	if n.ChainID() != conf.ChainID {
		n.Close()
		return nil, fmt.Errorf("store chain %q does not match configured chain %q", n.ChainID(), conf.ChainID)
	}
	return n, nil
}

// newNode opens the store of the home directory using given
// configuration.
func newNode(home string, conf *Config, clock vault.Clock, metrics *app.Metrics) (*node, error) {
	logger, err := newLogger(os.Stderr, conf.LogLevel)
	if err != nil {
		return nil, err
	}
	db, err := iavl.NewCommitStore(home, storeName)
	if err != nil {
		return nil, errors.Wrap(err, "open store")
	}
	a, err := vaultd.NewApplication(db, vaultd.Options{
		CollateralTicker: conf.CollateralTicker,
		LoanTicker:       conf.LoanTicker,
		Clock:            clock,
		Logger:           logger,
		Metrics:          metrics,
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &node{Application: a, conf: conf, db: db}, nil
}

func (n *node) Close() {
	n.db.Close()
}
