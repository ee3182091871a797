package weather

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const DefaultTTL = 10 * time.Minute

// Fetcher is implemented by Client; tests stub it.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lon float64) (*Snapshot, error)
}

type cacheEntry struct {
	capturedAt time.Time
	snap       *Snapshot
}

// Cache is a TTL cache over the provider, keyed by coordinates rounded to
// two decimal degrees (~1 km). Two callers racing on the same expired
// bucket may both call the provider; the loser's write wins and both
// results are equally valid reads of a time-varying fact, so no lock is
// held across the fetch.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry

	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time
}

func NewCache(fetcher Fetcher, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: map[string]cacheEntry{},
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
	}
}

// BucketKey quantizes coordinates into the cache partition key.
func BucketKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", lat, lon)
}

// GetOrFetch returns a non-expired cached snapshot for the coordinate
// bucket, or fetches a fresh one and stores it. A failed fetch is returned
// uncached so the next caller retries.
func (c *Cache) GetOrFetch(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	key := BucketKey(lat, lon)

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Sub(e.capturedAt) < c.ttl {
		return e.snap, nil
	}

	snap, err := c.fetcher.Fetch(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{capturedAt: c.now(), snap: snap}
	c.mu.Unlock()
	return snap, nil
}

// SweepExpired drops entries past their TTL and reports how many were
// removed. Called periodically by the janitor; correctness never depends
// on it since GetOrFetch checks age on every read.
func (c *Cache) SweepExpired() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.entries {
		if now.Sub(e.capturedAt) >= c.ttl {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len reports the number of cached buckets.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
