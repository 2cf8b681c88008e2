package stakereport

import (
	"fmt"

	"github.com/brainwerk/stakereport/date"
)

// MalformedPriceDataError reports a price table that violates the load
// invariants (unsorted, duplicate dates, non-positive or unparseable price).
// It is fatal: a bad table makes every valuation untrustworthy.
type MalformedPriceDataError struct {
	Line   int // 1-based line in the source table, 0 when unknown
	Reason string
}

func (e *MalformedPriceDataError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed price data at line %d: %s", e.Line, e.Reason)
	}
	return "malformed price data: " + e.Reason
}

// NoPriceDataError reports a price lookup for a day that precedes the
// earliest entry of the series. Only the record being valued is lost.
type NoPriceDataError struct {
	Day      date.Date
	Earliest date.Date
}

func (e *NoPriceDataError) Error() string {
	return fmt.Sprintf("no price data on or before %s (series starts %s)", e.Day, e.Earliest)
}

// ExternalQueryError reports a failed chain query for one transaction.
// NotFound distinguishes an unknown txid from an unreachable service.
type ExternalQueryError struct {
	TxID     string
	NotFound bool
	Err      error
}

func (e *ExternalQueryError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("chain query %s: transaction not found", e.TxID)
	}
	return fmt.Sprintf("chain query %s: %v", e.TxID, e.Err)
}

func (e *ExternalQueryError) Unwrap() error { return e.Err }

// UnresolvedTicketError reports a vote whose funding ticket could not be
// resolved. The vote is excluded from aggregation; the run continues.
type UnresolvedTicketError struct {
	VoteTxID string
	Err      error
}

func (e *UnresolvedTicketError) Error() string {
	return fmt.Sprintf("vote %s: cannot resolve funding ticket: %v", e.VoteTxID, e.Err)
}

func (e *UnresolvedTicketError) Unwrap() error { return e.Err }
