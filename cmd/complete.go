package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete answers shell completion requests for the program name, and
// returns without doing anything when the program is not run for completion.
//
// To install it in bash: COMP_INSTALL=1 cbt
func (a *App) Complete(name string, top *flag.FlagSet, c *subcommands.Commander) {
	a.completion(top, c).Complete(name)
}

func (a *App) completion(top *flag.FlagSet, c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: a.predictFlags(top),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		fs := flag.NewFlagSet(sc.Name(), flag.ContinueOnError)
		sc.SetFlags(fs)
		root.Sub[sc.Name()] = &complete.Command{Flags: a.predictFlags(fs)}
	})
	return root
}

func (a *App) predictFlags(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		switch f.Name {
		case "csv":
			flags[f.Name] = predict.Files("*.csv")
		case "ledger":
			flags[f.Name] = predict.Files("*.jsonl")
		case "db":
			flags[f.Name] = predict.Files("*.db")
		case "cache":
			flags[f.Name] = predict.Files("*")
		case "log":
			flags[f.Name] = predict.Set{"debug", "info", "warn", "error"}
		case "s":
			flags[f.Name] = complete.PredictFunc(a.predictSymbols)
		default:
			flags[f.Name] = predict.Set{}
		}
	})
	return flags
}

// predictSymbols lists the symbols of the ledger.
func (a *App) predictSymbols(prefix string) []string {
	ledger, err := a.ledger(context.Background())
	if err != nil {
		return nil
	}
	return ledger.Symbols()
}
