package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	vaultd "github.com/iov-one/vault/cmd/vaultd/app"
	"github.com/iov-one/vault/errors"
	"github.com/prometheus/client_golang/prometheus"
)

func cmdRun(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Execute all steps of a scenario file against the state stored in the home
directory. When no file is given, the scenario is read from the input.
Execution stops at the first step with an unexpected outcome.
		`)
		fl.PrintDefaults()
	}
	var (
		homeFl  = fl.String("home", defaultHome(), "Directory the state is stored in.")
		statsFl = fl.Bool("stats", false, "Print call statistics when done.")
		debugFl = fl.Bool("debug", false, "Print full details of internal errors.")
	)
	fl.Parse(args)

	var (
		raw []byte
		err error
	)
	switch fl.NArg() {
	case 0:
		raw, err = ioutil.ReadAll(input)
	case 1:
		raw, err = ioutil.ReadFile(fl.Arg(0))
	default:
		flagDie("at most one scenario file can be given")
	}
	if err != nil {
		return fmt.Errorf("cannot read scenario: %s", err)
	}
	scenario, err := ParseScenario(raw)
	if err != nil {
		return err
	}
	start, err := scenario.StartTime()
	if err != nil {
		return err
	}
	if start.IsZero() {
		start = time.Now().UTC()
	}

	clock := vault.NewFixedClock(start)
	reg := prometheus.NewRegistry()
	n, err := openNode(*homeFl, clock, app.NewMetrics(reg))
	if err != nil {
		return err
	}
	defer n.Close()

	runErr := runScenario(n, clock, scenario, output, *debugFl)
	if *statsFl {
		if err := printStats(output, reg); err != nil {
			return err
		}
	}
	return runErr
}

// runScenario executes the scenario steps in order.
// Errors without a registered code are redacted unless debug is set.
func runScenario(n *node, clock *vault.FixedClock, s *Scenario, output io.Writer, debug bool) error {
	for i, st := range s.Steps {
		name := st.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		d, err := st.advance()
		if err != nil {
			return err
		}
		clock.Advance(d)
		msg, err := st.Msg()
		if err != nil {
			return err
		}
		var signers []vault.Condition
		if st.Signer != "" {
			signers = append(signers, vaultd.AccountCondition(st.Signer))
		}

		res, err := n.Execute(context.Background(), signers, msg)
		err = errors.Redact(err, debug)
		if st.Expect != "" {
			want := expectedErrors[st.Expect]
			if err == nil {
				return fmt.Errorf("#%d %s: expected %s error, call succeeded", i+1, name, st.Expect)
			}
			if !want.Is(err) {
				return fmt.Errorf("#%d %s: expected %s error, got %s", i+1, name, st.Expect, err)
			}
			fmt.Fprintf(output, "#%d %s: rejected as expected: %s\n", i+1, name, err)
			continue
		}
		if err != nil {
			return fmt.Errorf("#%d %s: %s", i+1, name, err)
		}
		fmt.Fprintf(output, "#%d %s: ok (height %d, %s)\n", i+1, name, res.Height, res.Time.Time().Format(time.RFC3339))
		if res.Log != "" {
			fmt.Fprintf(output, "\t%s\n", res.Log)
		}
		for _, ev := range res.Events {
			attrs := make([]string, 0, len(ev.Attributes))
			for _, a := range ev.Attributes {
				attrs = append(attrs, a.Key+"="+a.Value)
			}
			fmt.Fprintf(output, "\tevent %s %s\n", ev.Type, strings.Join(attrs, " "))
		}
	}
	return nil
}

// printStats writes the number of calls by path and result.
func printStats(output io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	var lines []string
	for _, mf := range families {
		if mf.GetName() != "vault_tx_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+resultName(l.GetName(), l.GetValue()))
			}
			lines = append(lines, fmt.Sprintf("%s %v", strings.Join(labels, " "), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	fmt.Fprintln(output, "calls:")
	for _, l := range lines {
		fmt.Fprintf(output, "\t%s\n", l)
	}
	return nil
}

// resultName replaces the error code of a result label with the error
// description.
func resultName(label, value string) string {
	if label != "result" {
		return value
	}
	code, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return value
	}
	if e, ok := errors.Lookup(uint32(code)); ok {
		return strconv.Quote(e.Error())
	}
	return value
}

// flagDie terminates the program when an invalid flag value was given.
func flagDie(description string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, description, args...)
	fmt.Fprintln(os.Stderr)
	os.Exit(2)
}
