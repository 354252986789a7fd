package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/costbasis"
	"github.com/google/subcommands"
)

type splitCmd struct {
	app *App

	date   dateValue
	symbol string
	num    int64
	den    int64
}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "record a stock split" }
func (*splitCmd) Usage() string {
	return `cbt split -s <symbol> -num <n> [-den <d>] [-d <date>]

  Records a n-for-d split effective on the date: every lot acquired on or
  before that date holds n/d times more shares for the same cost.
`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.date, "d", "Effective date of the split.")
	f.StringVar(&c.symbol, "s", "", "Security symbol.")
	f.Int64Var(&c.num, "num", 0, "New shares.")
	f.Int64Var(&c.den, "den", 1, "Old shares.")
}

func (c *splitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.num == 0 {
		fmt.Fprintln(c.app.Err, "Error: -s and -num are required.")
		return subcommands.ExitUsageError
	}
	tx := costbasis.NewSplit(c.date.day(), c.symbol, c.num, c.den)
	if err := tx.Validate(); err != nil {
		return c.app.fail("%v", err)
	}
	pf, err := c.app.portfolio(ctx)
	if err != nil {
		return c.app.fail("cannot load ledger: %v", err)
	}
	if _, ok := pf.Lookup(tx.Symbol()); !ok {
		log := c.app.Logger()
		log.Warn().Str("symbol", tx.Symbol()).Msg("split recorded on a symbol without lots")
	}
	if err := c.app.record(ctx, tx); err != nil {
		return c.app.fail("cannot record transaction: %v", err)
	}
	fmt.Fprintf(c.app.Out, "Recorded %d-for-%d split of %s on %s\n", c.num, c.den, tx.Symbol(), tx.When())
	return subcommands.ExitSuccess
}
