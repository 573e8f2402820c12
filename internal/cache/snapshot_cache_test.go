package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-analyst/internal/datasource"
	"solana-token-analyst/internal/datasource/stub"
	"solana-token-analyst/internal/domain"
)

const testMint = "So11111111111111111111111111111111111111112"

func testSnapshot() *domain.TokenSnapshot {
	return &domain.TokenSnapshot{
		Address:      testMint,
		Symbol:       "SOL",
		PriceUSD:     150.25,
		LiquidityUSD: 500000,
		PriceSeries: []domain.PricePoint{
			{TimestampMs: 1000, Price: 149, Volume: 10},
			{TimestampMs: 2000, Price: 150.25, Volume: 12},
		},
	}
}

func TestFetchSnapshot_HitWithinTTL(t *testing.T) {
	source := stub.NewMarketSource()
	source.Add(testSnapshot())

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := NewSnapshotCache(source, time.Minute).WithClock(func() time.Time { return now })

	_, err := cache.FetchSnapshot(context.Background(), testMint)
	require.NoError(t, err)
	require.Equal(t, 1, source.Calls)

	now = now.Add(30 * time.Second)
	snapshot, err := cache.FetchSnapshot(context.Background(), testMint)
	require.NoError(t, err)
	assert.Equal(t, 1, source.Calls, "fresh entry should not hit the source")
	assert.Equal(t, 150.25, snapshot.PriceUSD)
}

func TestFetchSnapshot_ExpiryRefetches(t *testing.T) {
	source := stub.NewMarketSource()
	source.Add(testSnapshot())

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := NewSnapshotCache(source, time.Minute).WithClock(func() time.Time { return now })

	_, err := cache.FetchSnapshot(context.Background(), testMint)
	require.NoError(t, err)

	// Exactly at the TTL boundary counts as stale.
	now = now.Add(time.Minute)
	_, err = cache.FetchSnapshot(context.Background(), testMint)
	require.NoError(t, err)
	assert.Equal(t, 2, source.Calls, "stale entry should refetch")
}

func TestFetchSnapshot_ErrorsNotCached(t *testing.T) {
	source := stub.NewMarketSource()
	source.Fail(testMint, datasource.ErrDataUnavailable)

	cache := NewSnapshotCache(source, time.Minute)

	_, err := cache.FetchSnapshot(context.Background(), testMint)
	require.ErrorIs(t, err, datasource.ErrDataUnavailable)
	assert.Equal(t, 0, cache.Len(), "errors must not be cached")

	// Source recovers; the cache should try again immediately.
	delete(source.Errs, testMint)
	source.Add(testSnapshot())
	_, err = cache.FetchSnapshot(context.Background(), testMint)
	require.NoError(t, err)
}

func TestFetchSnapshot_ReturnsCopies(t *testing.T) {
	source := stub.NewMarketSource()
	source.Add(testSnapshot())

	cache := NewSnapshotCache(source, time.Minute)

	first, err := cache.FetchSnapshot(context.Background(), testMint)
	require.NoError(t, err)
	first.PriceUSD = 0
	first.PriceSeries[0].Price = 0

	second, err := cache.FetchSnapshot(context.Background(), testMint)
	require.NoError(t, err)
	assert.Equal(t, 150.25, second.PriceUSD, "caller mutation must not leak into the cache")
	assert.Equal(t, 149.0, second.PriceSeries[0].Price, "caller mutation must not leak into the cached series")
}

func TestInvalidate(t *testing.T) {
	source := stub.NewMarketSource()
	source.Add(testSnapshot())

	cache := NewSnapshotCache(source, time.Minute)

	_, err := cache.FetchSnapshot(context.Background(), testMint)
	require.NoError(t, err)

	cache.Invalidate(testMint)
	assert.Equal(t, 0, cache.Len())

	_, err = cache.FetchSnapshot(context.Background(), testMint)
	require.NoError(t, err)
	assert.Equal(t, 2, source.Calls, "invalidate should force a refetch")
}

func TestEvictExpired(t *testing.T) {
	other := testSnapshot()
	other.Address = "other-address"

	source := stub.NewMarketSource()
	source.Add(testSnapshot())
	source.Add(other)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := NewSnapshotCache(source, time.Minute).WithClock(func() time.Time { return now })

	_, err := cache.FetchSnapshot(context.Background(), testMint)
	require.NoError(t, err)

	// The stale first entry is swept when the second fetch stores.
	now = now.Add(2 * time.Minute)
	_, err = cache.FetchSnapshot(context.Background(), "other-address")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len(), "expired entries should be evicted on store")
}

func TestNewSnapshotCache_DefaultTTL(t *testing.T) {
	cache := NewSnapshotCache(stub.NewMarketSource(), 0)
	assert.Equal(t, DefaultTTL, cache.ttl)
}
