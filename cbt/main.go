// Command cbt keeps a ledger of trades and reports the cost basis of each
// position, lot by lot.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/costbasis/cmd"
	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])

	cfg, err := cmd.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitFailure))
	}
	app := cmd.NewApp(cfg)
	app.SetFlags(flag.CommandLine)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	app.Register(commander)
	app.Complete(name, flag.CommandLine, commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
