package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/brainwerk/stakereport/date"
	"github.com/google/subcommands"
)

type pricesCmd struct {
	on string
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "validate the price table and show its coverage" }
func (*pricesCmd) Usage() string {
	return `dcrpos prices [-on <date>]

  Loads the CSV price table, enforcing the sortedness and positivity
  invariants, and prints its coverage. With -on, also prints the price
  that would be used for that day.
`
}

func (p *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.on, "on", "", "show the price effective on this date")
}

func (p *pricesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	series, err := loadPrices(*pricesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading prices %q: %v\n", *pricesFile, err)
		return subcommands.ExitFailure
	}

	period := series.Period()
	fmt.Printf("%s: %d daily entries, %s to %s, currency %s\n",
		*pricesFile, series.Len(), period.From, period.To, series.Currency())

	if p.on != "" {
		day, err := date.Parse(p.on)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		price, err := series.PriceOn(day)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("price effective on %s: %s %s\n", day, price.Fixed(), price.Currency())
	}
	return subcommands.ExitSuccess
}
