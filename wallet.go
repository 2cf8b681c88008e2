package stakereport

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/brainwerk/stakereport/date"
	"github.com/shopspring/decimal"
)

// Transaction type tags found in wallet dumps.
const (
	TxTypeVote   = "vote"
	TxTypeTicket = "ticket"
)

// WalletTx is one record of the wallet transaction dump, as produced by
// dcrwallet's listtransactions output.
type WalletTx struct {
	TxID      string          `json:"txid"`
	TxType    string          `json:"txtype"`
	Vout      uint32          `json:"vout"`
	BlockTime int64           `json:"blocktime"`
	Amount    decimal.Decimal `json:"amount"`
	// Ticket is the funding ticket's txid when the wallet recorded the
	// linkage. When empty, the resolver recovers it from the vote's
	// transaction detail on chain.
	Ticket string `json:"ticket,omitempty"`
}

// Day returns the UTC calendar day of the transaction's block.
func (tx WalletTx) Day() date.Date { return date.FromUnix(tx.BlockTime) }

// IsVoteReward reports whether this record is the reward output of a vote.
// A vote transaction appears once per output; only the first one carries
// the subsidy.
func (tx WalletTx) IsVoteReward() bool { return tx.TxType == TxTypeVote && tx.Vout == 0 }

// DecodeWalletDump reads the wallet's JSON transaction dump, an array of
// WalletTx records.
func DecodeWalletDump(r io.Reader) ([]WalletTx, error) {
	var txs []WalletTx
	if err := json.NewDecoder(r).Decode(&txs); err != nil {
		return nil, fmt.Errorf("cannot decode wallet transaction dump: %w", err)
	}
	return txs, nil
}
