package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/costbasis"
	"github.com/etnz/costbasis/market"
	"github.com/etnz/costbasis/renderer"
	"github.com/google/subcommands"
)

// positionCmd values the positions held at the market price.
type positionCmd struct {
	app *App

	symbol   string
	price    decimalValue
	priceCur string
	rate     decimalValue
}

func (*positionCmd) Name() string     { return "position" }
func (*positionCmd) Synopsis() string { return "value positions at the market price" }
func (*positionCmd) Usage() string {
	return `cbt position [-s <symbol> [-price <unit price> [-price-cur <cur> -rate <rate>]]]

  Prints the quantity held, its cost basis, market value, unrealized profit
  and return of every open position. Prices and exchange rates are fetched
  from Yahoo Finance unless -price is given for a single symbol.
`
}

func (c *positionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Security symbol. All open positions when empty.")
	f.Var(&c.price, "price", "Price per share, instead of the market price.")
	f.StringVar(&c.priceCur, "price-cur", "", "Currency of -price. Defaults to the reporting currency.")
	f.Var(&c.rate, "rate", "Exchange rate from the reporting currency to the price currency.")
}

func (c *positionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.price.set && c.symbol == "" {
		fmt.Fprintln(c.app.Err, "Error: -price needs -s.")
		return subcommands.ExitUsageError
	}
	pf, err := c.app.portfolio(ctx)
	if err != nil {
		return c.app.fail("cannot load ledger: %v", err)
	}
	ps, err := positions(pf, c.symbol)
	if err != nil {
		return c.app.fail("%v", err)
	}

	cur := c.app.Currency
	var vals []costbasis.Valuation
	for _, p := range ps {
		if p.TotalQuantityRemaining().IsNegligible() && c.symbol == "" {
			continue
		}
		price, rate, err := c.quote(ctx, p.Symbol(), cur)
		if err != nil {
			return c.app.fail("cannot get a quote for %s: %v", p.Symbol(), err)
		}
		v, err := p.Valuation(price, rate)
		if err != nil {
			return c.app.fail("%v", err)
		}
		vals = append(vals, v)
	}
	c.app.printMarkdown(renderer.ValuationMarkdown(cur, vals...))
	return subcommands.ExitSuccess
}

// quote returns the price given on the command line or the market quote.
func (c *positionCmd) quote(ctx context.Context, symbol, cur string) (costbasis.Money, costbasis.Rate, error) {
	if !c.price.set {
		return market.Quote(ctx, c.app.market(), symbol, cur)
	}
	priceCur := c.priceCur
	if priceCur == "" {
		priceCur = cur
	}
	var rate costbasis.Rate
	if c.rate.set {
		rate = costbasis.R(c.rate.Decimal, cur, priceCur)
	}
	return costbasis.M(c.price.Decimal, priceCur), rate, nil
}
