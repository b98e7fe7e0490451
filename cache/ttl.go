// Package cache memoizes per-domain summaries for a fixed time window.
//
// Entries are domain-scoped: refreshing or invalidating one domain never touches another.
// Concurrent refreshes of the same domain collapse into one computation, and a refresh
// never overwrites a value that was Put after it started.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

// DefaultTTL is how long a computed summary stays fresh
const DefaultTTL = 60 * time.Second

// ComputeFunc produces a fresh value for a domain
type ComputeFunc func() (any, error)

// Entry is a cached value plus the time it was computed. A zero ComputedAt marks an
// invalidated entry whose value is kept only as a fallback.
type Entry struct {
	Value      any
	ComputedAt time.Time
}

// Stats are cumulative cache counters
type Stats struct {
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Superseded int64 `json:"superseded"` // refreshes discarded because a newer value landed first
}

// Option configures a Cache
type Option func(*Cache)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// Cache is a TTL cache keyed by domain
type Cache struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.RWMutex
	entries map[quality.Domain]Entry
	seqs    map[quality.Domain]uint64 // bumped by every write

	hits       atomic.Int64
	misses     atomic.Int64
	superseded atomic.Int64
}

// New creates a cache; a non-positive ttl falls back to DefaultTTL
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[quality.Domain]Entry),
		seqs:    make(map[quality.Domain]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the freshness window
func (c *Cache) TTL() time.Duration { return c.ttl }

// SetTTL changes the freshness window for subsequent reads
func (c *Cache) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.mu.Lock()
	c.ttl = ttl
	c.mu.Unlock()
}

func (c *Cache) fresh(e Entry, ok bool) bool {
	return ok && !e.ComputedAt.IsZero() && c.now().Sub(e.ComputedAt) < c.ttl
}

// Get returns the cached value for domain while it is fresh; otherwise it runs compute
// (once, however many callers are waiting) and caches the result. When compute fails the
// previous value, if any, is returned along with the error and the entry stays stale.
// When another writer Puts the domain while compute runs, that value wins and is returned.
func (c *Cache) Get(domain quality.Domain, compute ComputeFunc) (any, error) {
	c.mu.RLock()
	e, ok := c.entries[domain]
	isFresh := c.fresh(e, ok)
	c.mu.RUnlock()
	if isFresh {
		c.hits.Add(1)
		return e.Value, nil
	}

	v, err, _ := c.group.Do(string(domain), func() (interface{}, error) {
		c.mu.RLock()
		e, ok := c.entries[domain]
		isFresh := c.fresh(e, ok)
		seq := c.seqs[domain]
		c.mu.RUnlock()
		if isFresh {
			return e.Value, nil
		}

		c.misses.Add(1)
		value, err := compute()
		if err != nil {
			return e.Value, err
		}
		if current, stored := c.putIf(domain, value, seq); !stored {
			c.superseded.Add(1)
			return current, nil
		}
		return value, nil
	})
	return v, err
}

// Peek returns the last value for domain regardless of age. It never computes.
func (c *Cache) Peek(domain quality.Domain) (any, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[domain]
	return e.Value, e.ComputedAt, ok
}

// Fresh reports whether domain has a value inside the TTL window
func (c *Cache) Fresh(domain quality.Domain) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[domain]
	return c.fresh(e, ok)
}

// Put stores value for domain, computed now
func (c *Cache) Put(domain quality.Domain, value any) {
	c.mu.Lock()
	c.entries[domain] = Entry{Value: value, ComputedAt: c.now()}
	c.seqs[domain]++
	c.mu.Unlock()
}

// putIf stores value only if no write happened since seq was read. Otherwise it returns
// the value that is already there.
func (c *Cache) putIf(domain quality.Domain, value any, seq uint64) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seqs[domain] != seq {
		return c.entries[domain].Value, false
	}
	c.entries[domain] = Entry{Value: value, ComputedAt: c.now()}
	c.seqs[domain]++
	return value, true
}

// Invalidate clears domain's timestamp so the next Get recomputes. The value is kept for Peek.
func (c *Cache) Invalidate(domain quality.Domain) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[domain]; ok {
		e.ComputedAt = time.Time{}
		c.entries[domain] = e
	}
}

// InvalidateAll invalidates every domain
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for d, e := range c.entries {
		e.ComputedAt = time.Time{}
		c.entries[d] = e
	}
}

// Timestamps returns each domain's ComputedAt (zero when invalidated)
func (c *Cache) Timestamps() map[quality.Domain]time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[quality.Domain]time.Time, len(c.entries))
	for d, e := range c.entries {
		out[d] = e.ComputedAt
	}
	return out
}

// Stats returns hit/miss counters
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Superseded: c.superseded.Load()}
}
