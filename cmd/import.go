package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/costbasis"
	"github.com/etnz/costbasis/trading212"
	"github.com/google/subcommands"
)

// importCmd appends the trades of a Trading 212 export to the ledger.
type importCmd struct {
	app *App

	csv    string
	dryRun bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import trades from a Trading 212 CSV export" }
func (*importCmd) Usage() string {
	return `cbt import -csv <file> [-n]

  Reads the buys and sells of a Trading 212 history export and appends them
  to the ledger. Trades already in the ledger are skipped, so the same export
  can be imported again.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csv, "csv", "", "Trading 212 CSV export.")
	f.BoolVar(&c.dryRun, "n", false, "Dry run: check the trades without recording them.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.csv == "" {
		fmt.Fprintln(c.app.Err, "Error: -csv is required.")
		return subcommands.ExitUsageError
	}
	log := c.app.Logger()

	records, err := trading212.NewReader(log).ReadFile(c.csv)
	if err != nil {
		return c.app.fail("%v", err)
	}
	txs, err := trading212.Transactions(records, c.app.Currency)
	if err != nil {
		return c.app.fail("%v", err)
	}

	ledger, err := c.app.ledger(ctx)
	if err != nil {
		return c.app.fail("cannot load ledger: %v", err)
	}
	news := newTransactions(ledger, txs)
	log.Info().Int("read", len(txs)).Int("new", len(news)).Msg("trades imported")
	if len(news) == 0 {
		fmt.Fprintln(c.app.Out, "Nothing to import.")
		return subcommands.ExitSuccess
	}

	// the ledger must still replay once the new trades are in
	ledger.Append(news...)
	if _, err := ledger.Replay(); err != nil {
		return c.app.fail("the import would break the ledger:\n%v", err)
	}
	if c.dryRun {
		fmt.Fprintf(c.app.Out, "%d transactions to import.\n", len(news))
		return subcommands.ExitSuccess
	}
	if err := c.app.record(ctx, news...); err != nil {
		return c.app.fail("cannot record transactions: %v", err)
	}
	fmt.Fprintf(c.app.Out, "Imported %d transactions.\n", len(news))
	return subcommands.ExitSuccess
}

// newTransactions returns the txs that are not already in ledger.
func newTransactions(ledger *costbasis.Ledger, txs []costbasis.Transaction) []costbasis.Transaction {
	var res []costbasis.Transaction
	for _, tx := range txs {
		known := false
		for old := range ledger.Transactions() {
			if old.Equal(tx) {
				known = true
				break
			}
		}
		if !known {
			res = append(res, tx)
		}
	}
	return res
}
