package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/costbasis"
	"github.com/google/subcommands"
)

// buyCmd records the acquisition of a lot.
type buyCmd struct {
	app *App

	date     dateValue
	symbol   string
	id       string
	memo     string
	quantity decimalValue
	cost     decimalValue
	price    decimalValue
	priceCur string
	rate     decimalValue
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record the purchase of a lot" }
func (*buyCmd) Usage() string {
	return `cbt buy -s <symbol> -q <quantity> (-cost <amount> | -price <unit price> [-price-cur <cur> -rate <rate>]) [-d <date>] [-id <lot id>] [-m <memo>]

  Records a new lot. Its cost basis is either the total cost in the reporting
  currency, or the unit price converted at the given rate. The rate is the
  value of one unit of the reporting currency in the price currency.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.date, "d", "Acquisition date.")
	f.StringVar(&c.symbol, "s", "", "Security symbol.")
	f.StringVar(&c.id, "id", "", "Lot identifier. Generated when empty.")
	f.StringVar(&c.memo, "m", "", "Memo.")
	f.Var(&c.quantity, "q", "Number of shares.")
	f.Var(&c.cost, "cost", "Total cost in the reporting currency.")
	f.Var(&c.price, "price", "Price per share.")
	f.StringVar(&c.priceCur, "price-cur", "", "Currency of the price. Defaults to the reporting currency.")
	f.Var(&c.rate, "rate", "Exchange rate from the reporting currency to the price currency.")
}

func (c *buyCmd) transaction() costbasis.Buy {
	cur := c.app.Currency
	var tx costbasis.Buy
	if c.cost.set {
		tx = costbasis.NewBuy(c.date.day(), c.memo, c.symbol, costbasis.Q(c.quantity.Decimal), costbasis.M(c.cost.Decimal, cur))
	} else {
		priceCur := c.priceCur
		if priceCur == "" {
			priceCur = cur
		}
		var rate costbasis.Rate
		if c.rate.set {
			rate = costbasis.R(c.rate.Decimal, cur, priceCur)
		}
		tx = costbasis.NewBuyAt(c.date.day(), c.memo, c.symbol, costbasis.Q(c.quantity.Decimal), costbasis.M(c.price.Decimal, priceCur), rate)
	}
	tx.ID = c.id
	return tx
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || !c.quantity.set || (!c.cost.set && !c.price.set) {
		fmt.Fprintln(c.app.Err, "Error: -s, -q and either -cost or -price are required.")
		return subcommands.ExitUsageError
	}
	tx := c.transaction()
	if err := tx.Validate(); err != nil {
		return c.app.fail("%v", err)
	}

	pf, err := c.app.portfolio(ctx)
	if err != nil {
		return c.app.fail("cannot load ledger: %v", err)
	}
	lot, err := pf.Position(tx.Symbol()).Buy(tx.Acquisition())
	if err != nil {
		return c.app.fail("%v", err)
	}
	// keep the generated id, so that replays give the same lots
	tx.ID = lot.ID()
	if err := c.app.record(ctx, tx); err != nil {
		return c.app.fail("cannot record transaction: %v", err)
	}
	fmt.Fprintf(c.app.Out, "Bought lot %s: %s %s for %s (%s per share)\n",
		lot.ID(), lot.OriginalQuantity(), tx.Symbol(), lot.TotalCost(), lot.AdjustedCostPerUnit())
	return subcommands.ExitSuccess
}
