// Package narrative produces optional free-text commentary for a
// finished numeric analysis. The core treats a missing or failed
// narrative as "no narrative", never as a fatal condition.
package narrative

import (
	"context"
	"errors"

	"solana-token-analyst/internal/domain"
)

// ErrNarrativeUnavailable is returned when the provider cannot produce
// a narrative. Callers degrade to empty narrative fields.
var ErrNarrativeUnavailable = errors.New("narrative unavailable")

// Provider generates a narrative from a complete numeric result.
type Provider interface {
	Generate(ctx context.Context, result *domain.AnalysisResult) (*domain.Narrative, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, result *domain.AnalysisResult) (*domain.Narrative, error)

// Generate calls f.
func (f ProviderFunc) Generate(ctx context.Context, result *domain.AnalysisResult) (*domain.Narrative, error) {
	return f(ctx, result)
}
