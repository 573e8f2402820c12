package fundamental

import (
	"fmt"
	"strings"

	"solana-token-analyst/internal/domain"
)

// Component names as they appear in SubScore.Components.
const (
	ComponentLiquidity   = "liquidity"
	ComponentVolume      = "volume"
	ComponentAge         = "age"
	ComponentDEXPresence = "dex_presence"
)

// Metric weights. They sum to 1.0 and are fixed for a given engine.
const (
	weightLiquidity = 0.35
	weightVolume    = 0.25
	weightAge       = 0.20
	weightDEX       = 0.20
)

// Engine rates snapshot-level fundamentals. Stateless.
type Engine struct{}

// NewEngine creates a fundamental engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Analyze maps liquidity, volume, age and DEX presence through their
// threshold tables and blends the contributions. No time series is read.
func (e *Engine) Analyze(snapshot *domain.TokenSnapshot) domain.SubScore {
	components := make(map[string]domain.Component, 4)

	liqBand := lookup(liquidityBands, snapshot.LiquidityUSD)
	components[ComponentLiquidity] = domain.Component{
		Raw:          snapshot.LiquidityUSD,
		Contribution: liqBand.Score,
		Weight:       weightLiquidity,
		Reason:       liqBand.Label,
	}

	volBand := lookup(volumeBands, snapshot.Volume24hUSD)
	volContribution := volBand.Score
	volLabel := volBand.Label
	if snapshot.LiquidityUSD > 0 {
		ratio := snapshot.Volume24hUSD / snapshot.LiquidityUSD
		switch {
		case ratio > ratioSuspicious:
			volContribution *= suspiciousDampen
			volLabel += " (suspicious volume/liquidity ratio)"
		case ratio < ratioQuiet && snapshot.Volume24hUSD > 0:
			volLabel += " (quiet relative to pool size)"
		}
	}
	components[ComponentVolume] = domain.Component{
		Raw:          snapshot.Volume24hUSD,
		Contribution: volContribution,
		Weight:       weightVolume,
		Reason:       volLabel,
	}

	ageBand := lookup(ageBands, snapshot.AgeInDays)
	components[ComponentAge] = domain.Component{
		Raw:          snapshot.AgeInDays,
		Contribution: ageBand.Score,
		Weight:       weightAge,
		Reason:       ageBand.Label,
	}

	dexContribution := (poolScore(snapshot.PoolCount) + dexScore(snapshot.DEXCount)) / 2
	components[ComponentDEXPresence] = domain.Component{
		Raw:          float64(snapshot.PoolCount),
		Contribution: dexContribution,
		Weight:       weightDEX,
	}

	score := weightLiquidity*liqBand.Score +
		weightVolume*volContribution +
		weightAge*ageBand.Score +
		weightDEX*dexContribution

	return domain.SubScore{
		Score:      score,
		Label:      label(score),
		Components: components,
		Summary:    summarize(snapshot, liqBand.Label, volLabel, ageBand.Label),
	}
}

func label(score float64) string {
	switch {
	case score >= 65:
		return domain.SignalBullish
	case score <= 35:
		return domain.SignalBearish
	default:
		return domain.SignalNeutral
	}
}

func summarize(s *domain.TokenSnapshot, liqLabel, volLabel, ageLabel string) string {
	var points []string

	points = append(points, fmt.Sprintf("Liquidity $%.0f (%s)", s.LiquidityUSD, liqLabel))
	points = append(points, fmt.Sprintf("24h volume $%.0f (%s)", s.Volume24hUSD, volLabel))
	points = append(points, fmt.Sprintf("Token age %.1f days (%s)", s.AgeInDays, ageLabel))
	if s.PoolCount > 0 {
		points = append(points, fmt.Sprintf("Listed in %d pools across %d DEXs", s.PoolCount, s.DEXCount))
	}
	if s.FDVUSD > 0 {
		points = append(points, fmt.Sprintf("FDV $%.0f", s.FDVUSD))
	}

	return strings.Join(points, ". ")
}
