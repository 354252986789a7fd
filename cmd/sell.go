package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/etnz/costbasis"
	"github.com/etnz/costbasis/date"
	"github.com/etnz/costbasis/renderer"
	"github.com/google/subcommands"
)

// sellCmd records a sale and prints how it was matched against the lots.
type sellCmd struct {
	app *App

	date     dateValue
	symbol   string
	memo     string
	quantity decimalValue
	proceeds decimalValue
	dryRun   bool
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale, consuming the oldest lots first" }
func (*sellCmd) Usage() string {
	return `cbt sell -s <symbol> -q <quantity> -p <proceeds> [-d <date>] [-m <memo>] [-n]

  Sells shares from the oldest lots first and prints the cost basis and the
  gain of the sale, lot by lot. Nothing is recorded when the position does
  not hold enough shares.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.date, "d", "Sale date.")
	f.StringVar(&c.symbol, "s", "", "Security symbol.")
	f.StringVar(&c.memo, "m", "", "Memo.")
	f.Var(&c.quantity, "q", "Number of shares sold.")
	f.Var(&c.proceeds, "p", "Total proceeds in the reporting currency.")
	f.BoolVar(&c.dryRun, "n", false, "Dry run: print the sale without recording it.")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || !c.quantity.set || !c.proceeds.set {
		fmt.Fprintln(c.app.Err, "Error: -s, -q and -p are required.")
		return subcommands.ExitUsageError
	}
	tx := costbasis.NewSell(c.date.day(), c.memo, c.symbol, costbasis.Q(c.quantity.Decimal), costbasis.M(c.proceeds.Decimal, c.app.Currency))
	if err := tx.Validate(); err != nil {
		return c.app.fail("%v", err)
	}

	ledger, err := c.app.ledger(ctx)
	if err != nil {
		return c.app.fail("cannot load ledger: %v", err)
	}
	before, err := ledger.Replay()
	if before == nil {
		return c.app.fail("%v", err)
	}
	if _, ok := before.Lookup(tx.Symbol()); !ok {
		return c.app.fail("no position on %s", tx.Symbol())
	}

	// The sale is settled where it falls in the ledger, and the later
	// transactions must still replay after it.
	ledger.Append(tx)
	pf, err := ledger.Replay()
	pos, _ := pf.Lookup(tx.Symbol())
	sales := salesOn(pos, tx.Date)
	if len(sales) == len(salesOn(before.Position(tx.Symbol()), tx.Date)) {
		var short *costbasis.ShortfallError
		if errors.As(err, &short) && short.Symbol == tx.Symbol() {
			return c.app.fail("cannot sell %s %s, only %s held on %s", short.Requested, tx.Symbol(), short.Available, tx.Date)
		}
		return c.app.fail("%v", err)
	}
	if err != nil {
		return c.app.fail("the sale would break the ledger:\n%v", err)
	}
	sale := sales[len(sales)-1]

	if !c.dryRun {
		if err := c.app.record(ctx, tx); err != nil {
			return c.app.fail("cannot record transaction: %v", err)
		}
	}
	c.app.printMarkdown(renderer.SaleMarkdown(tx.Symbol(), sale, pos))
	return subcommands.ExitSuccess
}

// salesOn returns the sales of p made on day, in order.
func salesOn(p *costbasis.Position, day date.Date) []costbasis.Sale {
	var res []costbasis.Sale
	for s := range p.Sales() {
		if s.Date == day {
			res = append(res, s)
		}
	}
	return res
}
