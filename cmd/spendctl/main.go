// Command spendctl prints the expense dashboard in the terminal.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"spendboard/internal/cli"
	"spendboard/internal/log"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cli.Commands() {
		commander.Register(c, "dashboard")
	}

	flag.Parse()

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentCLI)
	// Bootstrap progress is noise on a terminal unless asked for.
	if os.Getenv("LOG_LEVEL") == "" {
		logger = log.Discard()
	}

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	status := commander.Execute(ctx, &cli.Env{Config: cfg, Logger: logger, Out: os.Stdout})
	stop()
	os.Exit(int(status))
}
