// Package verdict fuses the three sub-scores into a combined score,
// derives a 1-100 strength and classifies the result into one of seven
// ordered bands.
package verdict

import (
	"fmt"
	"math"

	"solana-token-analyst/internal/domain"
)

// Config holds the aggregation weights for one aggregator instance.
// Immutable after construction; concurrent analyses with different weight
// profiles each build their own aggregator.
type Config struct {
	Technical   float64
	Fundamental float64
	Sentiment   float64
}

// DefaultConfig returns the default weight profile.
func DefaultConfig() Config {
	return Config{
		Technical:   0.40,
		Fundamental: 0.35,
		Sentiment:   0.25,
	}
}

// Validate checks that all weights are non-negative and sum to 1.0.
func (c Config) Validate() error {
	if c.Technical < 0 || c.Fundamental < 0 || c.Sentiment < 0 {
		return fmt.Errorf("verdict config: negative weight")
	}
	sum := c.Technical + c.Fundamental + c.Sentiment
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("verdict config: weights sum to %.6f, want 1.0", sum)
	}
	return nil
}

// Weights converts the config to the serializable domain form.
func (c Config) Weights() domain.Weights {
	return domain.Weights{
		Technical:   c.Technical,
		Fundamental: c.Fundamental,
		Sentiment:   c.Sentiment,
	}
}
