// Package market validates provider-agnostic token snapshots and provides
// helpers over chronological price series. Range and threshold judgment
// belongs to the scoring engines, not here.
package market

import (
	"errors"
	"fmt"

	"solana-token-analyst/internal/domain"
)

// ErrInvalidSnapshot is the sentinel all snapshot validation failures wrap.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// InvalidSnapshotError names the offending field of a malformed snapshot.
type InvalidSnapshotError struct {
	Field  string
	Reason string
}

func (e *InvalidSnapshotError) Error() string {
	return fmt.Sprintf("invalid snapshot: field %s: %s", e.Field, e.Reason)
}

// Unwrap makes errors.Is(err, ErrInvalidSnapshot) work.
func (e *InvalidSnapshotError) Unwrap() error {
	return ErrInvalidSnapshot
}

// ValidateSnapshot checks the structural invariants of a snapshot:
// non-empty price series, no negative prices or volumes, strictly
// increasing timestamps. It performs no range or threshold judgment.
func ValidateSnapshot(s *domain.TokenSnapshot) error {
	if s == nil {
		return &InvalidSnapshotError{Field: "snapshot", Reason: "nil"}
	}
	if s.Address == "" {
		return &InvalidSnapshotError{Field: "address", Reason: "empty"}
	}
	if len(s.PriceSeries) == 0 {
		return &InvalidSnapshotError{Field: "price_series", Reason: "empty"}
	}
	if s.LiquidityUSD < 0 {
		return &InvalidSnapshotError{Field: "liquidity_usd", Reason: "negative"}
	}
	if s.Volume24hUSD < 0 {
		return &InvalidSnapshotError{Field: "volume_24h_usd", Reason: "negative"}
	}
	if s.BuyCount24h < 0 || s.SellCount24h < 0 {
		return &InvalidSnapshotError{Field: "txns_24h", Reason: "negative count"}
	}

	var prevTs int64
	for i, p := range s.PriceSeries {
		if p.Price < 0 {
			return &InvalidSnapshotError{
				Field:  "price_series",
				Reason: fmt.Sprintf("negative price at index %d", i),
			}
		}
		if p.Volume < 0 {
			return &InvalidSnapshotError{
				Field:  "price_series",
				Reason: fmt.Sprintf("negative volume at index %d", i),
			}
		}
		if i > 0 && p.TimestampMs <= prevTs {
			return &InvalidSnapshotError{
				Field:  "price_series",
				Reason: fmt.Sprintf("non-monotonic timestamp at index %d", i),
			}
		}
		prevTs = p.TimestampMs
	}

	return nil
}
