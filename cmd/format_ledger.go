package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/costbasis"
	"github.com/google/subcommands"
)

type formatLedgerCmd struct {
	app    *App
	output string
}

func (*formatLedgerCmd) Name() string     { return "fmt" }
func (*formatLedgerCmd) Synopsis() string { return "formats the ledger into a canonical form" }
func (*formatLedgerCmd) Usage() string {
	return `cbt fmt [-o <file>]

  Rewrites the ledger file sorted by date, one transaction per line with a
  stable field order. With -o the ledger is written to another file instead,
  '-' for the standard output. It is also the way to export a SQLite store.
`
}

func (c *formatLedgerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Defaults to the ledger file itself.")
}

func (c *formatLedgerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	output := c.output
	if output == "" {
		if c.app.Database != "" {
			fmt.Fprintln(c.app.Err, "Error: -o is required to export a store.")
			return subcommands.ExitUsageError
		}
		output = c.app.Ledger
	}

	ledger, err := c.app.ledger(ctx)
	if err != nil {
		return c.app.fail("cannot load ledger: %v", err)
	}
	if output == "-" {
		if err := costbasis.EncodeLedger(c.app.Out, ledger); err != nil {
			return c.app.fail("%v", err)
		}
		return subcommands.ExitSuccess
	}
	if err := writeLedger(output, ledger); err != nil {
		return c.app.fail("%v", err)
	}
	fmt.Fprintf(c.app.Out, "Ledger %q has been formatted.\n", output)
	return subcommands.ExitSuccess
}

// writeLedger replaces the content of filename with the ledger.
func writeLedger(filename string, ledger *costbasis.Ledger) error {
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("cannot open ledger %q for writing: %w", filename, err)
	}
	return closeAfter(f, costbasis.EncodeLedger(f, ledger))
}

// closeAfter closes c and returns err, or the close error if err is nil.
func closeAfter(c io.Closer, err error) error {
	if cerr := c.Close(); err == nil {
		err = cerr
	}
	return err
}
