package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/costbasis"
	"github.com/etnz/costbasis/date"
	"github.com/etnz/costbasis/renderer"
	"github.com/google/subcommands"
)

// positions returns the position on symbol, or every position when symbol is
// empty.
func positions(pf *costbasis.Portfolio, symbol string) ([]*costbasis.Position, error) {
	if symbol != "" {
		p, ok := pf.Lookup(symbol)
		if !ok {
			return nil, fmt.Errorf("no position on %s", symbol)
		}
		return []*costbasis.Position{p}, nil
	}
	var res []*costbasis.Position
	for _, s := range pf.Symbols() {
		p, _ := pf.Lookup(s)
		res = append(res, p)
	}
	return res, nil
}

type lotsCmd struct {
	app    *App
	symbol string
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "list the lots of a position" }
func (*lotsCmd) Usage() string {
	return `cbt lots [-s <symbol>]

  Lists the lots of a position, or of every position, in the order sales
  consume them.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Security symbol. All positions when empty.")
}

func (c *lotsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	pf, err := c.app.portfolio(ctx)
	if err != nil {
		return c.app.fail("cannot load ledger: %v", err)
	}
	ps, err := positions(pf, c.symbol)
	if err != nil {
		return c.app.fail("%v", err)
	}
	var b strings.Builder
	for _, p := range ps {
		b.WriteString(renderer.LotsMarkdown(p))
		b.WriteString("\n")
	}
	c.app.printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type salesCmd struct {
	app    *App
	symbol string
	period string
	date   dateValue
}

func (*salesCmd) Name() string     { return "sales" }
func (*salesCmd) Synopsis() string { return "list the sales of a position and their gains" }
func (*salesCmd) Usage() string {
	return `cbt sales [-s <symbol>] [-p <period> [-d <date>]]

  Lists the recorded sales with their cost basis and realized gain. With -p,
  only the sales of the period (day, week, month, quarter, year) containing
  the date are listed, for instance the tax year.
`
}

func (c *salesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Security symbol. All positions when empty.")
	f.StringVar(&c.period, "p", "", "Period of the sales (day, week, month, quarter, year). All sales when empty.")
	f.Var(&c.date, "d", "A date in the period.")
}

func (c *salesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var within date.Range
	if c.period != "" {
		p, err := date.ParsePeriod(c.period)
		if err != nil {
			fmt.Fprintf(c.app.Err, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		within = date.NewRange(c.date.day(), p)
	}

	pf, err := c.app.portfolio(ctx)
	if err != nil {
		return c.app.fail("cannot load ledger: %v", err)
	}
	ps, err := positions(pf, c.symbol)
	if err != nil {
		return c.app.fail("%v", err)
	}
	var b strings.Builder
	for _, p := range ps {
		b.WriteString(renderer.SalesMarkdown(p, within))
		b.WriteString("\n")
	}
	c.app.printMarkdown(b.String())
	return subcommands.ExitSuccess
}

// checkCmd replays the ledger and audits every lot.
type checkCmd struct{ app *App }

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "replay the ledger and check every lot" }
func (*checkCmd) Usage() string {
	return `cbt check

  Replays every transaction of the ledger, reports those that fail, and
  checks that no lot lost shares or cost along the way.
`
}

func (*checkCmd) SetFlags(*flag.FlagSet) {}

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := c.app.ledger(ctx)
	if err != nil {
		return c.app.fail("cannot load ledger: %v", err)
	}
	pf, err := ledger.Replay()
	if pf == nil {
		return c.app.fail("%v", err)
	}
	for _, s := range pf.Symbols() {
		p, _ := pf.Lookup(s)
		if aerr := p.Audit(); aerr != nil {
			err = errors.Join(err, aerr)
		}
	}
	if err != nil {
		return c.app.fail("%d transactions, %d positions:\n%v", ledger.Len(), len(pf.Symbols()), err)
	}
	fmt.Fprintf(c.app.Out, "%d transactions, %d positions: ok\n", ledger.Len(), len(pf.Symbols()))
	return subcommands.ExitSuccess
}
