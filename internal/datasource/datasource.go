// Package datasource defines the contracts the analysis core expects
// from market-data providers, plus the typed errors they must return.
// The core never retries a failed fetch; callers may.
package datasource

import (
	"context"
	"errors"

	"solana-token-analyst/internal/domain"
)

// Typed fetch errors. Adapters wrap these so the orchestrator can
// distinguish fatal-for-token from transient conditions.
var (
	// ErrDataUnavailable means the provider has no data for the token.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrRateLimited means the provider rejected the request for quota
	// reasons. The batch treats it as a per-token failure.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidAddress means the token address is malformed.
	ErrInvalidAddress = errors.New("invalid address")
)

// MarketDataSource supplies validated-shape token snapshots.
type MarketDataSource interface {
	// FetchSnapshot retrieves the current market snapshot for a token.
	// Returns ErrInvalidAddress, ErrDataUnavailable or ErrRateLimited
	// (possibly wrapped) on failure.
	FetchSnapshot(ctx context.Context, address string) (*domain.TokenSnapshot, error)
}

// CommunitySource supplies an optional community score, already
// normalized to 0-100. Absence of community data is not an error the
// orchestrator treats as fatal.
type CommunitySource interface {
	// FetchCommunityScore returns the normalized community score for a
	// token. Returns ErrDataUnavailable when the provider does not know
	// the token.
	FetchCommunityScore(ctx context.Context, address string) (float64, error)
}
