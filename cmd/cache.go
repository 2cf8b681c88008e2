package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/google/subcommands"
)

type cacheCmd struct {
	list bool
}

func (*cacheCmd) Name() string     { return "cache" }
func (*cacheCmd) Synopsis() string { return "inspect the durable chain-query cache" }
func (*cacheCmd) Usage() string {
	return `dcrpos cache [-list]

  Shows how many chain queries are cached on disk. With -list, prints
  every entry (txid, block day, fee).
`
}

func (p *cacheCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.list, "list", false, "print every cached entry")
}

func (p *cacheCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := defaultConfig()
	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening cache: %v\n", err)
		return subcommands.ExitFailure
	}
	if store == nil {
		fmt.Fprintln(os.Stderr, "cache is disabled (-no-cache)")
		return subcommands.ExitFailure
	}
	defer store.Close()

	entries, err := store.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s: %d cached chain queries\n", cfg.CacheFile, len(entries))

	if p.list {
		txids := make([]string, 0, len(entries))
		for txid := range entries {
			txids = append(txids, txid)
		}
		sort.Strings(txids)
		for _, txid := range txids {
			d := entries[txid]
			fmt.Printf("%s  %s  fee=%s\n", d.TxID, d.Day, d.Fee)
		}
	}
	return subcommands.ExitSuccess
}
