// Package cmd implements the cbt command line tool: it records trades in a
// ledger and reports the cost basis of every position.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/costbasis"
	"github.com/etnz/costbasis/market"
	"github.com/etnz/costbasis/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// App is the state shared by the subcommands. As a CLI application it lives
// for a single command.
type App struct {
	Config
	Out io.Writer // reports
	Err io.Writer // errors and logs
	Raw bool      // print Markdown as is instead of rendering it

	// Market provides quotes. Yahoo Finance when nil.
	Market market.Provider

	log *zerolog.Logger
}

func (a *App) market() market.Provider {
	if a.Market == nil {
		var opts []market.Option
		if a.CacheDir != "" {
			opts = append(opts, market.WithCache(a.CacheDir))
		}
		a.Market = market.NewYahoo(a.Logger(), opts...)
	}
	return a.Market
}

// NewApp returns an application printing on the standard outputs.
func NewApp(cfg Config) *App {
	return &App{Config: cfg, Out: os.Stdout, Err: os.Stderr}
}

// SetFlags declares the global flags, defaulting to the configuration.
func (a *App) SetFlags(f *flag.FlagSet) {
	f.StringVar(&a.Ledger, "ledger", a.Ledger, "Path to the ledger file (JSONL format).")
	f.StringVar(&a.Database, "db", a.Database, "Path to a SQLite store to use instead of the ledger file.")
	f.StringVar(&a.Currency, "c", a.Currency, "Reporting currency.")
	f.StringVar(&a.CacheDir, "cache", a.CacheDir, "Directory where quotes are cached for the day.")
	f.StringVar(&a.LogLevel, "log", a.LogLevel, "Log level (debug, info, warn, error).")
	f.BoolVar(&a.Raw, "raw", false, "Print reports as raw Markdown.")
}

// Register declares the subcommands.
func (a *App) Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")

	c.Register(&importCmd{app: a}, "ledger")
	c.Register(&buyCmd{app: a}, "ledger")
	c.Register(&sellCmd{app: a}, "ledger")
	c.Register(&splitCmd{app: a}, "ledger")
	c.Register(&checkCmd{app: a}, "ledger")
	c.Register(&formatLedgerCmd{app: a}, "ledger")

	c.Register(&lotsCmd{app: a}, "reports")
	c.Register(&salesCmd{app: a}, "reports")
	c.Register(&positionCmd{app: a}, "reports")
}

// Logger returns the application logger, built from the configuration on
// first use.
func (a *App) Logger() zerolog.Logger {
	if a.log == nil {
		l := newLogger(a.Err, a.LogLevel, a.Pretty)
		a.log = &l
	}
	return *a.log
}

// repository is where the transactions are kept.
type repository interface {
	Ledger(ctx context.Context, cur string) (*costbasis.Ledger, error)
	Append(ctx context.Context, txs ...costbasis.Transaction) error
	Close() error
}

// open returns the store when one is configured, the ledger file otherwise.
func (a *App) open(ctx context.Context) (repository, error) {
	if a.Database != "" {
		return store.Open(ctx, a.Database, a.Logger())
	}
	return jsonlFile(a.Ledger), nil
}

// ledger loads the ledger from the repository.
func (a *App) ledger(ctx context.Context) (*costbasis.Ledger, error) {
	repo, err := a.open(ctx)
	if err != nil {
		return nil, err
	}
	defer repo.Close()
	return repo.Ledger(ctx, a.Currency)
}

// portfolio replays the ledger. Failing transactions are logged and skipped.
func (a *App) portfolio(ctx context.Context) (*costbasis.Portfolio, error) {
	ledger, err := a.ledger(ctx)
	if err != nil {
		return nil, err
	}
	pf, err := ledger.Replay()
	if pf == nil {
		return nil, err
	}
	if err != nil {
		log := a.Logger()
		log.Warn().Err(err).Msg("some transactions were skipped, run 'check' for details")
	}
	return pf, nil
}

// record appends txs to the repository.
func (a *App) record(ctx context.Context, txs ...costbasis.Transaction) error {
	repo, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()
	return repo.Append(ctx, txs...)
}

// printMarkdown renders md for the terminal.
func (a *App) printMarkdown(md string) {
	if !a.Raw {
		out, err := glamour.Render(md, "auto")
		if err == nil {
			md = out
		} else {
			log := a.Logger()
			log.Debug().Err(err).Msg("cannot render markdown")
		}
	}
	fmt.Fprint(a.Out, md)
}

// fail reports err and returns the failure status.
func (a *App) fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}

// jsonlFile is a ledger stored as one JSON transaction per line.
type jsonlFile string

func (j jsonlFile) Ledger(_ context.Context, cur string) (*costbasis.Ledger, error) {
	f, err := os.Open(string(j))
	if errors.Is(err, fs.ErrNotExist) {
		return costbasis.NewLedger(cur), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ledger, err := costbasis.DecodeLedger(f, cur)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", j, err)
	}
	return ledger, nil
}

func (j jsonlFile) Append(_ context.Context, txs ...costbasis.Transaction) error {
	f, err := os.OpenFile(string(j), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	for _, tx := range txs {
		if err := costbasis.EncodeTransaction(f, tx); err != nil {
			f.Close()
			return fmt.Errorf("%s: %w", j, err)
		}
	}
	return f.Close()
}

func (jsonlFile) Close() error { return nil }
