package stakereport

import (
	"github.com/brainwerk/stakereport/date"
)

// NativeCoin is the native coin code reports are denominated in.
const NativeCoin = "DCR"

// IncomeRecord is one vote joined with its ticket and the prices effective
// on both days. Derived data, never persisted.
type IncomeRecord struct {
	VoteTxID    string
	VoteDay     date.Date
	Reward      Amount
	RewardPrice Money // price effective on the vote day
	Income      Money // Reward valued at RewardPrice

	TicketTxID string
	TicketDay  date.Date
	Fee        Amount
	FeePrice   Money // price effective on the ticket purchase day
	FeeCost    Money // Fee valued at FeePrice
}

// Totals accumulates the four running sums over all records of a report.
type Totals struct {
	RewardCoin Amount
	Income     Money
	FeeCoin    Amount
	Fees       Money
}

// SkippedVote records a vote inside the window that could not be valued.
type SkippedVote struct {
	VoteTxID string
	Err      error
}

// Report is the aggregation result handed to the formatters.
type Report struct {
	Coin     string
	Currency string
	Period   date.Range
	Records  []IncomeRecord
	Totals   Totals
	Skipped  []SkippedVote
}

// Aggregate filters votes to the period (both bounds inclusive), values each
// surviving vote's reward at the vote-day price and its ticket fee at the
// ticket-day price, and accumulates the totals. It is a pure function of
// already-resolved data.
//
// A vote whose reward or fee day has no usable price is skipped and counted,
// not fatal: the other records are still worth reporting. Fees are counted
// once per vote: two votes funded by the same split ticket each carry the
// full ticket fee, matching how the chain actually billed them.
func Aggregate(votes []Vote, period date.Range, prices *PriceSeries) *Report {
	r := &Report{
		Coin:     NativeCoin,
		Currency: prices.Currency(),
		Period:   period,
		Totals: Totals{
			Income: M(0, prices.Currency()),
			Fees:   M(0, prices.Currency()),
		},
	}

	for _, v := range votes {
		if !period.Contains(v.Day) {
			continue
		}

		rewardPrice, err := prices.PriceOn(v.Day)
		if err != nil {
			r.Skipped = append(r.Skipped, SkippedVote{VoteTxID: v.TxID, Err: err})
			continue
		}
		feePrice, err := prices.PriceOn(v.Ticket.Day)
		if err != nil {
			r.Skipped = append(r.Skipped, SkippedVote{VoteTxID: v.TxID, Err: err})
			continue
		}

		rec := IncomeRecord{
			VoteTxID:    v.TxID,
			VoteDay:     v.Day,
			Reward:      v.Reward,
			RewardPrice: rewardPrice,
			Income:      rewardPrice.Mul(v.Reward),
			TicketTxID:  v.Ticket.TxID,
			TicketDay:   v.Ticket.Day,
			Fee:         v.Ticket.Fee,
			FeePrice:    feePrice,
			FeeCost:     feePrice.Mul(v.Ticket.Fee),
		}
		r.Records = append(r.Records, rec)

		r.Totals.RewardCoin = r.Totals.RewardCoin.Add(rec.Reward)
		r.Totals.Income = r.Totals.Income.Add(rec.Income)
		r.Totals.FeeCoin = r.Totals.FeeCoin.Add(rec.Fee)
		r.Totals.Fees = r.Totals.Fees.Add(rec.FeeCost)
	}
	return r
}
