package cmd

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/brainwerk/stakereport"
	"github.com/brainwerk/stakereport/date"
	"github.com/brainwerk/stakereport/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	firstDate  string
	lastDate   string
	format     string
	configFile string
	jobs       int
}

func (*reportCmd) Name() string { return "report" }
func (*reportCmd) Synopsis() string {
	return "compute voting income and ticket fees over a date window"
}
func (*reportCmd) Usage() string {
	return `dcrpos report [-first-date <date>] [-last-date <date>] [-format <mode>] [-config <file>]

  Correlates each voting reward in the wallet dump with the ticket purchase
  that produced it, values both legs at the daily opening price effective on
  their respective days, and prints per-vote lines plus running totals.
  Defaults to the previous calendar year.
`
}

func (p *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.firstDate, "first-date", "", "beginning of the window, inclusive (default: Jan 1 of last year)")
	f.StringVar(&p.lastDate, "last-date", "", "end of the window, inclusive (default: Dec 31 of last year)")
	f.StringVar(&p.format, "format", "", "output format: verbose, compact or markdown (default verbose)")
	f.StringVar(&p.configFile, "config", "", "optional YAML config file")
	f.IntVar(&p.jobs, "jobs", 0, "maximum concurrent chain queries (default 4)")
}

// config merges defaults, the optional YAML file and explicitly set flags,
// in that order of precedence.
func (p *reportCmd) config(f *flag.FlagSet) (*Config, error) {
	cfg := defaultConfig()
	if p.configFile != "" {
		if err := loadConfigFile(p.configFile, cfg); err != nil {
			return nil, err
		}
	}
	// Flags the user actually typed win over the config file.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "prices":
			cfg.Prices = *pricesFile
		case "tx-file":
			cfg.TxFile = *txFile
		case "cache-file":
			cfg.CacheFile = *cacheFile
		case "cache-backend":
			cfg.CacheBackend = *cacheBackend
		case "no-cache":
			cfg.NoCache = *noCache
		case "rpc-url":
			cfg.RPCURL = *rpcURL
		}
	})
	if p.firstDate != "" {
		cfg.FirstDate = p.firstDate
	}
	if p.lastDate != "" {
		cfg.LastDate = p.lastDate
	}
	if p.format != "" {
		cfg.Format = p.format
	}
	if p.jobs > 0 {
		cfg.Jobs = p.jobs
	}
	return cfg, cfg.Validate()
}

func (p *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := p.config(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	mode, err := renderer.ParseMode(cfg.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	first, err := date.Parse(cfg.FirstDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing first date: %v\n", err)
		return subcommands.ExitFailure
	}
	last, err := date.Parse(cfg.LastDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing last date: %v\n", err)
		return subcommands.ExitFailure
	}
	period := date.NewRange(first, last)

	prices, err := loadPrices(cfg.Prices)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading prices %q: %v\n", cfg.Prices, err)
		return subcommands.ExitFailure
	}

	dumpFile, err := os.Open(cfg.TxFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening wallet dump %q: %v\n", cfg.TxFile, err)
		return subcommands.ExitFailure
	}
	dump, err := stakereport.DecodeWalletDump(dumpFile)
	dumpFile.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening cache: %v\n", err)
		return subcommands.ExitFailure
	}
	if store != nil {
		defer store.Close()
	}

	chain := stakereport.NewRPCClient(cfg.RPCURL, os.Getenv(envRPCUser), os.Getenv(envRPCPass))
	cache, err := stakereport.NewQueryCache(chain, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading cache: %v\n", err)
		return subcommands.ExitFailure
	}

	votes, failures := stakereport.NewResolver(cache, cfg.Jobs).Resolve(ctx, dump)
	for _, fail := range failures {
		slog.Warn("vote excluded", "txid", fail.VoteTxID, "err", fail.Err)
	}

	report := stakereport.Aggregate(votes, period, prices)
	for _, sk := range report.Skipped {
		slog.Warn("vote not valued", "txid", sk.VoteTxID, "err", sk.Err)
	}
	// Resolution failures belong in the same visible summary count as
	// valuation failures: nothing is dropped silently.
	for _, fail := range failures {
		report.Skipped = append(report.Skipped, stakereport.SkippedVote{VoteTxID: fail.VoteTxID, Err: fail.Err})
	}

	out := renderer.Render(report, mode)
	if mode == renderer.Markdown {
		printMarkdown(out)
	} else {
		fmt.Print(out)
	}
	return subcommands.ExitSuccess
}
