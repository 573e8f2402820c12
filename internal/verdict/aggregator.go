package verdict

import (
	"math"

	"solana-token-analyst/internal/domain"
)

// bandRow is one row of the ordered verdict table. Lower bounds are
// inclusive; the table is contiguous and exhaustive over [0,100], so a
// boundary value always lands in the higher band.
type bandRow struct {
	LowerBound float64
	Verdict    domain.Verdict
}

// bands ordered from most bullish down. Scanned top to bottom; the first
// row whose lower bound does not exceed the score wins.
var bands = []bandRow{
	{80, domain.VerdictExtremelyBullish},
	{65, domain.VerdictBullish},
	{55, domain.VerdictSlightlyBullish},
	{46, domain.VerdictNeutral},
	{36, domain.VerdictSlightlyBearish},
	{21, domain.VerdictBearish},
	{0, domain.VerdictExtremelyBearish},
}

// Strength shaping constants. Agreement is measured as the population
// standard deviation of the three sub-scores: zero spread keeps full
// strength, a spread of maxDisagreement or more caps it at the floor
// factor.
const (
	maxDisagreement  = 25.0
	minAgreementMult = 0.4
)

// Outcome is the aggregation result for one analysis.
type Outcome struct {
	CombinedScore float64
	Verdict       domain.Verdict
	Strength      int
}

// Aggregator combines sub-scores under a fixed weight profile.
type Aggregator struct {
	cfg Config
}

// NewAggregator creates an aggregator. The config must have been
// validated by the caller (Config.Validate).
func NewAggregator(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Config returns the aggregator's weight profile.
func (a *Aggregator) Config() Config {
	return a.cfg
}

// Aggregate computes the combined score, classifies it and derives the
// strength. Pure function of the three sub-scores.
func (a *Aggregator) Aggregate(technical, fundamental, sentiment domain.SubScore) Outcome {
	combined := technical.Score*a.cfg.Technical +
		fundamental.Score*a.cfg.Fundamental +
		sentiment.Score*a.cfg.Sentiment

	if combined < 0 {
		combined = 0
	}
	if combined > 100 {
		combined = 100
	}

	return Outcome{
		CombinedScore: combined,
		Verdict:       Classify(combined),
		Strength:      strength(combined, technical.Score, fundamental.Score, sentiment.Score),
	}
}

// Classify maps a combined score in [0,100] to its verdict band.
func Classify(score float64) domain.Verdict {
	for _, row := range bands {
		if score >= row.LowerBound {
			return row.Verdict
		}
	}
	return domain.VerdictExtremelyBearish
}

// strength grows with distance from the neutral midpoint and shrinks
// with disagreement across the sub-scores. High disagreement caps
// strength even at extreme combined scores. Result is clamped to
// [1,100].
func strength(combined float64, scores ...float64) int {
	base := math.Abs(combined-50) * 2

	spread := stddev(scores)
	mult := 1.0
	if spread > 0 {
		if spread >= maxDisagreement {
			mult = minAgreementMult
		} else {
			mult = 1 - (1-minAgreementMult)*(spread/maxDisagreement)
		}
	}

	s := int(math.Round(base * mult))
	if s < 1 {
		s = 1
	}
	if s > 100 {
		s = 100
	}
	return s
}

// stddev is the population standard deviation.
func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
