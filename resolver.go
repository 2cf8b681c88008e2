package stakereport

import (
	"context"
	"errors"
	"fmt"

	"github.com/brainwerk/stakereport/date"
	"golang.org/x/sync/errgroup"
)

// Ticket is a stake purchase: the transaction that funded a vote.
type Ticket struct {
	TxID string
	Day  date.Date
	Fee  Amount
}

// Vote is a resolved voting reward and the ticket that produced it.
// A split ticket can back several votes; each vote is its own record
// referencing the same ticket.
type Vote struct {
	TxID   string
	Day    date.Date
	Reward Amount
	Ticket Ticket
}

// ResolutionFailure records a vote that could not be resolved. The vote is
// excluded from aggregation but never silently dropped.
type ResolutionFailure struct {
	VoteTxID string
	Err      error
}

// Resolver turns wallet dump records into resolved votes, consulting the
// query cache for everything the wallet does not know (ticket purchase day
// and fee).
type Resolver struct {
	cache *QueryCache
	// jobs bounds concurrent chain lookups; in-flight dedup and write
	// serialization live in the cache.
	jobs int
}

// NewResolver returns a resolver issuing at most jobs concurrent lookups.
// jobs < 1 means sequential.
func NewResolver(cache *QueryCache, jobs int) *Resolver {
	if jobs < 1 {
		jobs = 1
	}
	return &Resolver{cache: cache, jobs: jobs}
}

// Resolve filters the dump to vote rewards and resolves each one. The vote's
// day and reward come straight from the wallet record; the funding ticket
// comes from the record's linkage field, or failing that from the vote's
// on-chain detail. Votes are returned in dump order whatever the completion
// order of the lookups. One failed vote never aborts the others.
func (r *Resolver) Resolve(ctx context.Context, dump []WalletTx) ([]Vote, []ResolutionFailure) {
	var rewards []WalletTx
	for _, tx := range dump {
		if tx.IsVoteReward() {
			rewards = append(rewards, tx)
		}
	}

	votes := make([]Vote, len(rewards))
	errs := make([]error, len(rewards))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)
	for i, tx := range rewards {
		g.Go(func() error {
			votes[i], errs[i] = r.resolveOne(ctx, tx)
			return nil
		})
	}
	g.Wait() // goroutines only report through the slices

	out := votes[:0]
	var failures []ResolutionFailure
	for i, tx := range rewards {
		if errs[i] != nil {
			failures = append(failures, ResolutionFailure{VoteTxID: tx.TxID, Err: errs[i]})
			continue
		}
		out = append(out, votes[i])
	}
	return out, failures
}

func (r *Resolver) resolveOne(ctx context.Context, tx WalletTx) (Vote, error) {
	ticketID := tx.Ticket
	if ticketID == "" {
		// The wallet did not record the linkage: read it from the vote
		// transaction itself.
		detail, err := r.cache.Lookup(ctx, tx.TxID)
		if err != nil {
			return Vote{}, &UnresolvedTicketError{VoteTxID: tx.TxID, Err: err}
		}
		ticketID = detail.Ticket
	}
	if ticketID == "" {
		return Vote{}, &UnresolvedTicketError{VoteTxID: tx.TxID, Err: errors.New("no funding ticket reference")}
	}

	ticket, err := r.cache.Lookup(ctx, ticketID)
	if err != nil {
		return Vote{}, &UnresolvedTicketError{VoteTxID: tx.TxID, Err: err}
	}
	if ticket.Fee.IsNegative() {
		return Vote{}, &UnresolvedTicketError{VoteTxID: tx.TxID,
			Err: fmt.Errorf("ticket %s has negative fee %s", ticketID, ticket.Fee)}
	}

	return Vote{
		TxID:   tx.TxID,
		Day:    tx.Day(),
		Reward: A(tx.Amount),
		Ticket: Ticket{TxID: ticketID, Day: ticket.Day, Fee: A(ticket.Fee)},
	}, nil
}
