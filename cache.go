package stakereport

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CacheStore is the durable side of the query cache: a key-value store of
// resolved transaction details, fully loaded at start and appended to on
// each new entry. Implementations must serialize their own writes.
type CacheStore interface {
	Load() (map[string]TxDetail, error)
	Put(TxDetail) error
	Close() error
}

// QueryCache memoizes chain queries. Hits never touch the network; misses
// query the chain, record the result in memory and append it to the durable
// store. Failed queries are never cached, so a later run retries them.
//
// A nil store gives the -no-cache behaviour: lookups within the run are
// still deduplicated in memory, nothing is persisted.
type QueryCache struct {
	chain ChainService
	store CacheStore

	mu  sync.RWMutex
	mem map[string]TxDetail

	group singleflight.Group
}

// NewQueryCache builds a cache over the chain service, seeded from the
// store's existing entries. store may be nil.
func NewQueryCache(chain ChainService, store CacheStore) (*QueryCache, error) {
	mem := make(map[string]TxDetail)
	if store != nil {
		loaded, err := store.Load()
		if err != nil {
			return nil, err
		}
		mem = loaded
	}
	return &QueryCache{chain: chain, store: store, mem: mem}, nil
}

// Len returns the number of cached entries.
func (c *QueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mem)
}

// Entries returns a snapshot of all cached details.
func (c *QueryCache) Entries() []TxDetail {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]TxDetail, 0, len(c.mem))
	for _, d := range c.mem {
		out = append(out, d)
	}
	return out
}

// Lookup returns the detail for txid, querying the chain only on a miss.
// Concurrent lookups for the same txid share a single external call.
func (c *QueryCache) Lookup(ctx context.Context, txid string) (TxDetail, error) {
	c.mu.RLock()
	d, ok := c.mem[txid]
	c.mu.RUnlock()
	if ok {
		return d, nil
	}

	v, err, _ := c.group.Do(txid, func() (any, error) {
		// A concurrent lookup may have filled the entry while this one
		// waited on the flight group.
		c.mu.RLock()
		d, ok := c.mem[txid]
		c.mu.RUnlock()
		if ok {
			return d, nil
		}

		d, err := c.chain.TransactionDetail(ctx, txid)
		if err != nil {
			return TxDetail{}, err
		}

		c.mu.Lock()
		c.mem[txid] = d
		c.mu.Unlock()

		if c.store != nil {
			if err := c.store.Put(d); err != nil {
				// The answer is valid even if it cannot be persisted.
				slog.Warn("cache write failed", "txid", txid, "err", err)
			}
		}
		return d, nil
	})
	if err != nil {
		return TxDetail{}, err
	}
	return v.(TxDetail), nil
}
