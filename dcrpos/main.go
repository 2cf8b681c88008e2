package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path"

	"github.com/brainwerk/stakereport/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var verbose = flag.Bool("v", false, "enable debug logging")

func main() {
	// RPC credentials may live in a local .env; absence is fine.
	godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(subcommands.HelpCommand(), "")
	commander.Register(subcommands.FlagsCommand(), "")
	cmd.Register(commander)

	// Shell completion for subcommand names and the common flags.
	completion := &complete.Command{
		Sub: map[string]*complete.Command{
			"report": {Flags: map[string]complete.Predictor{
				"first-date": predict.Nothing,
				"last-date":  predict.Nothing,
				"format":     predict.Set{"verbose", "compact", "markdown"},
				"config":     predict.Files("*.yaml"),
			}},
			"prices": {},
			"cache":  {},
		},
		Flags: map[string]complete.Predictor{
			"prices":  predict.Files("*.csv"),
			"tx-file": predict.Files("*.json"),
		},
	}
	completion.Complete("dcrpos")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	os.Exit(int(commander.Execute(context.Background())))
}
