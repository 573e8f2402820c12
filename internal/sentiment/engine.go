// Package sentiment derives a 0-100 sentiment sub-score from recent price
// momentum, the 24h buy/sell transaction ratio and the normalized
// community score.
package sentiment

import (
	"fmt"
	"math"
	"strings"

	"solana-token-analyst/internal/domain"
	"solana-token-analyst/internal/market"
)

// Component names as they appear in SubScore.Components.
const (
	ComponentMomentum  = "momentum"
	ComponentTxRatio   = "tx_ratio"
	ComponentCommunity = "community"
)

// Input weights. They sum to 1.0.
const (
	weightMomentum  = 0.40
	weightTxRatio   = 0.35
	weightCommunity = 0.25
)

// MomentumLookback is the number of series steps used for the short
// momentum window.
const MomentumLookback = 6

// Engine computes the sentiment sub-score. Stateless.
type Engine struct{}

// NewEngine creates a sentiment engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Analyze blends momentum, transaction ratio and community score, and
// classifies the overall label. The label is MIXED exactly when momentum
// and the transaction ratio disagree in sign.
func (e *Engine) Analyze(snapshot *domain.TokenSnapshot) domain.SubScore {
	momentumPct := market.ChangePercent(snapshot.PriceSeries, MomentumLookback)
	momentumScore := momentumContribution(momentumPct)

	txScore := txRatioContribution(snapshot.BuyCount24h, snapshot.SellCount24h)

	community := snapshot.CommunityScore
	if community < 0 {
		community = 0
	}
	if community > 100 {
		community = 100
	}

	score := weightMomentum*momentumScore +
		weightTxRatio*txScore +
		weightCommunity*community

	components := map[string]domain.Component{
		ComponentMomentum: {
			Raw:          momentumPct,
			Contribution: momentumScore,
			Weight:       weightMomentum,
		},
		ComponentTxRatio: {
			Raw:          rawTxRatio(snapshot.BuyCount24h, snapshot.SellCount24h),
			Contribution: txScore,
			Weight:       weightTxRatio,
		},
		ComponentCommunity: {
			Raw:          snapshot.CommunityScore,
			Contribution: community,
			Weight:       weightCommunity,
		},
	}

	overall := classify(momentumScore, txScore, score)

	return domain.SubScore{
		Score:      score,
		Label:      overall,
		Components: components,
		Summary:    summarize(overall, momentumPct, snapshot),
	}
}

// momentumContribution maps a short-lookback percent change onto 0-100:
// +20% saturates at 100, -20% at 0.
func momentumContribution(changePct float64) float64 {
	score := 50 + changePct*2.5
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// txRatioContribution maps the buy/sell ratio through a bounded logistic
// curve on log(buys/sells). Small sample counts are damped toward 50 so
// a 3:1 ratio on four trades cannot swing the score the way a 3:1 ratio
// on four thousand can.
func txRatioContribution(buys, sells int) float64 {
	total := buys + sells
	if total == 0 {
		return 50
	}
	// Add-one smoothing keeps the log finite for one-sided flow.
	logRatio := math.Log(float64(buys+1) / float64(sells+1))

	// Logistic squashes log-ratio into (0,1); k tuned so a 2:1 ratio
	// lands near 0.66.
	const k = 1.0
	logistic := 1 / (1 + math.Exp(-k*logRatio))

	// Sample damping: full weight from ~50 transactions up.
	damp := float64(total) / (float64(total) + 50.0)

	return 50 + (logistic-0.5)*100*damp
}

func rawTxRatio(buys, sells int) float64 {
	if sells == 0 {
		if buys == 0 {
			return 1
		}
		return float64(buys)
	}
	return float64(buys) / float64(sells)
}

// classify picks the qualitative label from sign agreement between
// momentum and transaction flow.
func classify(momentumScore, txScore, overall float64) string {
	momentumSign := sign(momentumScore - 50)
	txSign := sign(txScore - 50)

	if momentumSign != 0 && txSign != 0 && momentumSign != txSign {
		return domain.SentimentMixed
	}
	switch {
	case overall >= 60:
		return domain.SentimentPositive
	case overall <= 40:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func summarize(overall string, momentumPct float64, s *domain.TokenSnapshot) string {
	points := []string{
		"Overall sentiment: " + overall,
		fmt.Sprintf("Momentum %+.2f%% over recent window", momentumPct),
	}
	if total := s.BuyCount24h + s.SellCount24h; total > 0 {
		points = append(points, fmt.Sprintf("24h flow %d buys / %d sells", s.BuyCount24h, s.SellCount24h))
	}
	return strings.Join(points, ". ")
}
