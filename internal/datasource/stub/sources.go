// Package stub provides in-memory data sources for tests and offline
// runs.
package stub

import (
	"context"
	"fmt"

	"solana-token-analyst/internal/datasource"
	"solana-token-analyst/internal/domain"
)

// MarketSource implements datasource.MarketDataSource from a fixed map.
type MarketSource struct {
	Snapshots map[string]*domain.TokenSnapshot
	Errs      map[string]error
	Calls     int
}

// NewMarketSource creates an empty stub market source.
func NewMarketSource() *MarketSource {
	return &MarketSource{
		Snapshots: make(map[string]*domain.TokenSnapshot),
		Errs:      make(map[string]error),
	}
}

// Add registers a snapshot under its address.
func (s *MarketSource) Add(snapshot *domain.TokenSnapshot) {
	s.Snapshots[snapshot.Address] = snapshot
}

// Fail registers an error for an address.
func (s *MarketSource) Fail(address string, err error) {
	s.Errs[address] = err
}

// FetchSnapshot returns the registered snapshot or error. Unknown
// addresses map to datasource.ErrDataUnavailable. A copy is returned
// so callers can mutate safely.
func (s *MarketSource) FetchSnapshot(_ context.Context, address string) (*domain.TokenSnapshot, error) {
	s.Calls++
	if err, ok := s.Errs[address]; ok {
		return nil, err
	}
	snapshot, ok := s.Snapshots[address]
	if !ok {
		return nil, fmt.Errorf("stub: %s: %w", address, datasource.ErrDataUnavailable)
	}
	cp := *snapshot
	cp.PriceSeries = append([]domain.PricePoint(nil), snapshot.PriceSeries...)
	return &cp, nil
}

// CommunitySource implements datasource.CommunitySource from a fixed map.
type CommunitySource struct {
	Scores map[string]float64
	Err    error
}

// NewCommunitySource creates an empty stub community source.
func NewCommunitySource() *CommunitySource {
	return &CommunitySource{Scores: make(map[string]float64)}
}

// FetchCommunityScore returns the registered score. Unknown addresses
// map to datasource.ErrDataUnavailable.
func (s *CommunitySource) FetchCommunityScore(_ context.Context, address string) (float64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	score, ok := s.Scores[address]
	if !ok {
		return 0, fmt.Errorf("stub: %s: %w", address, datasource.ErrDataUnavailable)
	}
	return score, nil
}
