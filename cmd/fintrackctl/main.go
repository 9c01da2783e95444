// Command fintrackctl exports, imports, reports on and maintains the
// tracked data directly through the configured storage backend.
//
// It opens the store itself, so it should not mutate data while the
// fintrack server is running against the same backend.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"fintrack/internal/cli"
)

var commands = []subcommands.Command{
	&exportCmd{},
	&importCmd{},
	&reportCmd{},
	&recurringCmd{},
	&clearCmd{},
}

func main() {
	cli.LoadEnvFile()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for _, c := range commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
