// Package cmd implements the CLI application to report PoS voting income.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/brainwerk/stakereport"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "report")
	c.Register(&pricesCmd{}, "data")
	c.Register(&cacheCmd{}, "data")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var pricesFile = flag.String("prices", "dcr_prices.csv", "CSV prices file (date,price(USD))")
var txFile = flag.String("tx-file", "all_transactions.json", "wallet transaction dump (JSON)")
var cacheFile = flag.String("cache-file", "chain_cache.jsonl", "durable chain-query cache file")
var cacheBackend = flag.String("cache-backend", "jsonl", "cache persistence backend: jsonl or sqlite")
var noCache = flag.Bool("no-cache", false, "do not read or write the durable cache (in-memory dedup only)")
var rpcURL = flag.String("rpc-url", "http://localhost:9109", "dcrd JSON-RPC listener address")

// rpc credentials are environment-only so they never show up in shell history.
const (
	envRPCUser = "DCRD_RPC_USER"
	envRPCPass = "DCRD_RPC_PASS"
)

// openStore opens the configured durable cache backend, or returns nil when
// persistence is disabled.
func openStore(cfg *Config) (stakereport.CacheStore, error) {
	if cfg.NoCache {
		return nil, nil
	}
	switch cfg.CacheBackend {
	case "jsonl":
		return stakereport.OpenJSONLStore(cfg.CacheFile)
	case "sqlite":
		return stakereport.OpenSQLiteStore(cfg.CacheFile)
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want jsonl or sqlite)", cfg.CacheBackend)
	}
}

// loadPrices opens and validates the price table.
func loadPrices(path string) (*stakereport.PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return stakereport.LoadPrices(f)
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when the renderer cannot be set up (dumb terminals, pipes).
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
