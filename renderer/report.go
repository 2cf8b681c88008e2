// Package renderer turns aggregation reports into text. The core stays
// formatter-agnostic; everything string-shaped lives here.
package renderer

import (
	"fmt"
	"strings"

	"github.com/brainwerk/stakereport"
)

// Mode selects one of the supported presentation modes.
type Mode string

const (
	Verbose  Mode = "verbose"
	Compact  Mode = "compact"
	Markdown Mode = "markdown"
)

// ParseMode validates a user-supplied format name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Verbose, Compact, Markdown:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (want verbose, compact or markdown)", s)
	}
}

// Render formats the report in the given mode.
func Render(r *stakereport.Report, mode Mode) string {
	switch mode {
	case Compact:
		return renderCompact(r)
	case Markdown:
		return renderMarkdown(r)
	default:
		return renderVerbose(r)
	}
}

// renderVerbose prints one full line per record: both legs with the day's
// price spelled out.
func renderVerbose(r *stakereport.Report) string {
	var b strings.Builder
	for _, rec := range r.Records {
		fmt.Fprintf(&b, "Vote: [Date: %s, Income: %s %s x %s %s/%s = %s %s] Fee: [Date: %s, %s %s x %s %s/%s = %s %s]\n",
			rec.VoteDay, rec.Reward.Fixed(4), r.Coin, rec.RewardPrice.Fixed(), r.Currency, r.Coin, rec.Income.Fixed(), r.Currency,
			rec.TicketDay, rec.Fee.Fixed(4), r.Coin, rec.FeePrice.Fixed(), r.Currency, r.Coin, rec.FeeCost.Fixed(), r.Currency)
	}
	b.WriteString("\n")
	writeTotals(&b, r)
	return b.String()
}

func renderCompact(r *stakereport.Report) string {
	var b strings.Builder
	for _, rec := range r.Records {
		fmt.Fprintf(&b, "Date: %s, Income: %s %s, Fee: %s %s\n",
			rec.VoteDay, rec.Income.Fixed(), r.Currency, rec.FeeCost.Fixed(), r.Currency)
	}
	b.WriteString("\n")
	writeTotals(&b, r)
	return b.String()
}

func writeTotals(b *strings.Builder, r *stakereport.Report) {
	fmt.Fprintf(b, "Total Income: %s: %s, %s: %s\n",
		r.Coin, r.Totals.RewardCoin.Fixed(4), r.Currency, r.Totals.Income.Fixed())
	fmt.Fprintf(b, "Total Fees: %s: %s, %s: %s\n",
		r.Coin, r.Totals.FeeCoin.Fixed(4), r.Currency, r.Totals.Fees.Fixed())
	if n := len(r.Skipped); n > 0 {
		fmt.Fprintf(b, "Skipped: %d vote(s) could not be valued (see log)\n", n)
	}
}

// renderMarkdown builds a table meant to go through a terminal markdown
// renderer.
func renderMarkdown(r *stakereport.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Voting Income %s to %s\n\n", r.Period.From, r.Period.To)

	fmt.Fprintf(&b, "| Vote Date | Reward (%s) | Price (%s) | Income (%s) | Ticket Date | Fee (%s) | Fee (%s) |\n",
		r.Coin, r.Currency, r.Currency, r.Coin, r.Currency)
	b.WriteString("|---|---:|---:|---:|---|---:|---:|\n")
	for _, rec := range r.Records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			rec.VoteDay, rec.Reward.Fixed(4), rec.RewardPrice.Fixed(), rec.Income.Fixed(),
			rec.TicketDay, rec.Fee.Fixed(4), rec.FeeCost.Fixed())
	}

	fmt.Fprintf(&b, "\n**Total income**: %s %s = %s\n", r.Totals.RewardCoin.Fixed(4), r.Coin, r.Totals.Income)
	fmt.Fprintf(&b, "\n**Total fees**: %s %s = %s\n", r.Totals.FeeCoin.Fixed(4), r.Coin, r.Totals.Fees)
	if n := len(r.Skipped); n > 0 {
		fmt.Fprintf(&b, "\n> %d vote(s) could not be valued and were skipped.\n", n)
	}
	return b.String()
}
