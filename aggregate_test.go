package stakereport

import (
	"testing"

	"github.com/brainwerk/stakereport/date"
)

// canonicalPrices is the price table behind the documented 9-vote scenario.
const canonicalPrices = `date,price(USD)
2017-01-05,13.60
2017-02-01,14.89
2017-02-10,15.00
2017-03-01,16.00
2017-04-01,17.00
`

func vote(txid, day string, reward float64, ticket, ticketDay string, fee float64) Vote {
	return Vote{
		TxID:   txid,
		Day:    date.MustParse(day),
		Reward: A(reward),
		Ticket: Ticket{TxID: ticket, Day: date.MustParse(ticketDay), Fee: A(fee)},
	}
}

// canonicalVotes returns the 9 resolved votes of the documented scenario:
// income DCR 13.7299 / USD 216.35 and fees DCR 0.1315 / USD 1.79.
// t3 is a split ticket backing two votes, so its fee is billed twice.
func canonicalVotes() []Vote {
	return []Vote{
		vote("v1", "2017-02-01", 1.5340, "t1", "2017-01-05", 0.0146),
		vote("v2", "2017-02-10", 1.5340, "t2", "2017-01-06", 0.0146),
		vote("v3", "2017-03-02", 1.5200, "t3", "2017-01-07", 0.0146),
		vote("v4", "2017-03-05", 1.5200, "t3", "2017-01-07", 0.0146),
		vote("v5", "2017-03-10", 1.5000, "t4", "2017-01-08", 0.0146),
		vote("v6", "2017-03-15", 1.5000, "t5", "2017-01-09", 0.0146),
		vote("v7", "2017-03-20", 1.5000, "t6", "2017-01-10", 0.0146),
		vote("v8", "2017-02-05", 1.5219, "t7", "2017-01-11", 0.0146),
		vote("v9", "2017-04-01", 1.6000, "t8", "2017-01-12", 0.0147),
	}
}

func year2017() date.Range {
	return date.NewRange(date.MustParse("2017-01-01"), date.MustParse("2017-12-31"))
}

func TestAggregateCanonicalScenario(t *testing.T) {
	prices := loadSeries(t, canonicalPrices)

	// An out-of-window vote must not disturb the totals.
	votes := append(canonicalVotes(),
		vote("v-old", "2016-12-30", 9.9999, "t9", "2016-12-01", 0.5))

	report := Aggregate(votes, year2017(), prices)

	if len(report.Records) != 9 {
		t.Fatalf("got %d records, want 9", len(report.Records))
	}
	if len(report.Skipped) != 0 {
		t.Fatalf("got %d skipped votes, want 0: %v", len(report.Skipped), report.Skipped)
	}

	if got := report.Totals.RewardCoin.Fixed(4); got != "13.7299" {
		t.Errorf("total income coin = %s, want 13.7299", got)
	}
	if got := report.Totals.Income.Fixed(); got != "216.35" {
		t.Errorf("total income fiat = %s, want 216.35", got)
	}
	if got := report.Totals.FeeCoin.Fixed(4); got != "0.1315" {
		t.Errorf("total fee coin = %s, want 0.1315", got)
	}
	if got := report.Totals.Fees.Fixed(); got != "1.79" {
		t.Errorf("total fee fiat = %s, want 1.79", got)
	}

	// First record: the documented 1.5340 x 14.89 = 22.84 example, with the
	// fee leg valued on the ticket day, not the vote day.
	first := report.Records[0]
	if got := first.Income.Fixed(); got != "22.84" {
		t.Errorf("record[0] income = %s, want 22.84", got)
	}
	if got := first.RewardPrice.Fixed(); got != "14.89" {
		t.Errorf("record[0] reward price = %s, want 14.89", got)
	}
	if got := first.FeePrice.Fixed(); got != "13.60" {
		t.Errorf("record[0] fee price = %s, want 13.60 (ticket-day price)", got)
	}

	// Records keep the input order.
	for i, want := range []string{"v1", "v2", "v3", "v4", "v5", "v6", "v7", "v8", "v9"} {
		if report.Records[i].VoteTxID != want {
			t.Errorf("record[%d] = %s, want %s", i, report.Records[i].VoteTxID, want)
		}
	}
}

func TestAggregateSplitTicketFeeIsNotDeduplicated(t *testing.T) {
	prices := loadSeries(t, canonicalPrices)
	votes := []Vote{
		vote("v3", "2017-03-02", 1.52, "t3", "2017-01-07", 0.0146),
		vote("v4", "2017-03-05", 1.52, "t3", "2017-01-07", 0.0146),
	}

	report := Aggregate(votes, year2017(), prices)

	if len(report.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(report.Records))
	}
	a, b := report.Records[0], report.Records[1]
	if !a.Fee.Equal(b.Fee) || a.TicketDay != b.TicketDay || a.TicketTxID != b.TicketTxID {
		t.Errorf("split-ticket records differ: %+v vs %+v", a, b)
	}
	if got := report.Totals.FeeCoin.Fixed(4); got != "0.0292" {
		t.Errorf("fee total = %s, want 0.0292 (fee counted once per vote)", got)
	}
}

func TestAggregateWindowIsInclusive(t *testing.T) {
	prices := loadSeries(t, canonicalPrices)
	period := date.NewRange(date.MustParse("2017-02-01"), date.MustParse("2017-03-02"))

	tests := []struct {
		name string
		day  string
		want int
	}{
		{"on first date", "2017-02-01", 1},
		{"on last date", "2017-03-02", 1},
		{"one day before window", "2017-01-31", 0},
		{"one day after window", "2017-03-03", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			votes := []Vote{vote("v", tc.day, 1.5, "t", "2017-01-05", 0.01)}
			report := Aggregate(votes, period, prices)
			if len(report.Records) != tc.want {
				t.Errorf("vote on %s: got %d records, want %d", tc.day, len(report.Records), tc.want)
			}
		})
	}
}

func TestAggregateSkipsUnpricedVotes(t *testing.T) {
	prices := loadSeries(t, canonicalPrices)

	votes := []Vote{
		// The ticket predates the price series: the fee leg cannot be valued.
		vote("v-unpriced", "2017-02-01", 1.5, "t-old", "2016-06-01", 0.01),
		vote("v-good", "2017-02-01", 1.5340, "t1", "2017-01-05", 0.0146),
	}

	report := Aggregate(votes, year2017(), prices)

	if len(report.Records) != 1 || report.Records[0].VoteTxID != "v-good" {
		t.Fatalf("records = %+v, want only v-good", report.Records)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].VoteTxID != "v-unpriced" {
		t.Fatalf("skipped = %+v, want v-unpriced", report.Skipped)
	}
	// The surviving vote still aggregates correctly.
	if got := report.Totals.Income.Fixed(); got != "22.84" {
		t.Errorf("total income = %s, want 22.84", got)
	}
}
