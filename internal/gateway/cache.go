package gateway

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/safewatch/safewatch/internal/session"
)

// Persister stores query results across restarts. *session.Store satisfies it.
type Persister interface {
	PutCacheEntry(ctx context.Context, e session.CacheEntry) error
	CacheEntries(ctx context.Context, since time.Time) ([]session.CacheEntry, error)
	PruneCache(ctx context.Context, cutoff time.Time) (int64, error)
}

type cacheEntry struct {
	proc      string
	data      json.RawMessage
	fetchedAt time.Time
	stale     bool
}

// queryCache holds the last successful result per query key. Entries are
// fresh for staleTime and dropped after gcTime.
//
// Each procedure has an epoch that invalidation bumps. A fetch records the
// epoch before it starts and its result is only stored if the epoch is
// unchanged, so a read that raced a mutation cannot re-cache old data.
type queryCache struct {
	mu        sync.Mutex
	entries   map[string]*cacheEntry
	epochs    map[string]uint64
	staleTime time.Duration
	gcTime    time.Duration
	now       func() time.Time
	persister Persister
}

func newQueryCache(staleTime, gcTime time.Duration, persister Persister, now func() time.Time) *queryCache {
	return &queryCache{
		entries:   make(map[string]*cacheEntry),
		epochs:    make(map[string]uint64),
		staleTime: staleTime,
		gcTime:    gcTime,
		now:       now,
		persister: persister,
	}
}

// cacheKey identifies a query by procedure and canonical input.
func cacheKey(proc string, input any) string {
	b, err := json.Marshal(input)
	if err != nil {
		return proc
	}
	return proc + "?" + string(b)
}

func (c *queryCache) get(key string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return cacheEntry{}, false
	}
	if c.gcTime > 0 && c.now().Sub(e.fetchedAt) > c.gcTime {
		delete(c.entries, key)
		return cacheEntry{}, false
	}
	return *e, true
}

func (c *queryCache) fresh(e cacheEntry) bool {
	if e.stale {
		return false
	}
	return c.now().Sub(e.fetchedAt) < c.staleTime
}

// epoch returns the invalidation epoch of proc.
func (c *queryCache) epoch(proc string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epochs[proc]
}

// put replaces the entry for key with a result fetched at epoch since. It
// reports false and stores nothing when proc was invalidated after since.
// Persistence is best-effort.
func (c *queryCache) put(ctx context.Context, key, proc string, data json.RawMessage, since uint64) bool {
	now := c.now()
	c.mu.Lock()
	if c.epochs[proc] != since {
		c.mu.Unlock()
		return false
	}
	c.entries[key] = &cacheEntry{proc: proc, data: data, fetchedAt: now}
	c.mu.Unlock()

	if c.persister != nil {
		_ = c.persister.PutCacheEntry(ctx, session.CacheEntry{
			Key:       key,
			Procedure: proc,
			Payload:   data,
			FetchedAt: now,
		})
	}
	return true
}

// invalidate bumps the epoch of each procedure and marks its entries stale
// so the next read refetches. Data is kept for display until then.
func (c *queryCache) invalidate(ctx context.Context, procs ...string) {
	var changed []session.CacheEntry
	c.mu.Lock()
	for _, p := range procs {
		c.epochs[p]++
	}
	for key, e := range c.entries {
		if e.stale || !slices.Contains(procs, e.proc) {
			continue
		}
		e.stale = true
		changed = append(changed, session.CacheEntry{
			Key:       key,
			Procedure: e.proc,
			Payload:   e.data,
			FetchedAt: e.fetchedAt,
			Stale:     true,
		})
	}
	c.mu.Unlock()

	// Persist the flag so a restart does not revive outdated results.
	if c.persister == nil {
		return
	}
	for _, ce := range changed {
		_ = c.persister.PutCacheEntry(ctx, ce)
	}
}

// restore loads persisted entries younger than gcTime and prunes the rest.
func (c *queryCache) restore(ctx context.Context) (int, error) {
	if c.persister == nil {
		return 0, nil
	}
	cutoff := c.now().Add(-c.gcTime)
	if _, err := c.persister.PruneCache(ctx, cutoff); err != nil {
		return 0, err
	}
	entries, err := c.persister.CacheEntries(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entries {
		c.entries[e.Key] = &cacheEntry{proc: e.Procedure, data: e.Payload, fetchedAt: e.FetchedAt, stale: e.Stale}
	}
	return len(entries), nil
}

func (c *queryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
