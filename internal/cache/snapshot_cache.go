// Package cache provides a TTL cache for token snapshots so repeated
// analyses of the same token within a short window reuse one fetch.
package cache

import (
	"context"
	"sync"
	"time"

	"solana-token-analyst/internal/datasource"
	"solana-token-analyst/internal/domain"
	"solana-token-analyst/internal/observability"
)

// DefaultTTL bounds snapshot staleness.
const DefaultTTL = 5 * time.Minute

type entry struct {
	snapshot  *domain.TokenSnapshot
	expiresAt time.Time
}

// SnapshotCache wraps a MarketDataSource with a per-address TTL cache.
// Errors are never cached.
type SnapshotCache struct {
	source datasource.MarketDataSource
	ttl    time.Duration
	now    func() time.Time

	mu   sync.RWMutex
	data map[string]entry
}

// NewSnapshotCache creates a cache in front of source. A non-positive
// ttl falls back to DefaultTTL.
func NewSnapshotCache(source datasource.MarketDataSource, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SnapshotCache{
		source: source,
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
		data:   make(map[string]entry),
	}
}

// WithClock sets a custom clock for tests.
func (c *SnapshotCache) WithClock(now func() time.Time) *SnapshotCache {
	c.now = now
	return c
}

// FetchSnapshot implements datasource.MarketDataSource. A fresh cached
// snapshot is returned as a copy; otherwise the inner source is called
// and its result cached.
func (c *SnapshotCache) FetchSnapshot(ctx context.Context, address string) (*domain.TokenSnapshot, error) {
	now := c.now()

	c.mu.RLock()
	e, ok := c.data[address]
	c.mu.RUnlock()
	if ok && now.Before(e.expiresAt) {
		return copySnapshot(e.snapshot), nil
	}

	snapshot, err := c.source.FetchSnapshot(ctx, address)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.data[address] = entry{snapshot: copySnapshot(snapshot), expiresAt: now.Add(c.ttl)}
	c.evictExpiredLocked(now)
	observability.UpdateCachedSnapshots(len(c.data))
	c.mu.Unlock()

	return snapshot, nil
}

// Invalidate drops the cached snapshot for an address.
func (c *SnapshotCache) Invalidate(address string) {
	c.mu.Lock()
	delete(c.data, address)
	observability.UpdateCachedSnapshots(len(c.data))
	c.mu.Unlock()
}

// Len reports the number of cached entries, expired ones included.
func (c *SnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func (c *SnapshotCache) evictExpiredLocked(now time.Time) {
	for addr, e := range c.data {
		if !now.Before(e.expiresAt) {
			delete(c.data, addr)
		}
	}
}

func copySnapshot(s *domain.TokenSnapshot) *domain.TokenSnapshot {
	cp := *s
	cp.PriceSeries = append([]domain.PricePoint(nil), s.PriceSeries...)
	return &cp
}
