package market

import (
	"errors"

	"solana-token-analyst/internal/domain"
)

// ErrNoPriceData is returned by series helpers on an empty series.
var ErrNoPriceData = errors.New("no price data available")

// Prices extracts the price column from a series.
func Prices(series []domain.PricePoint) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Price
	}
	return out
}

// Volumes extracts the volume column from a series.
func Volumes(series []domain.PricePoint) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Volume
	}
	return out
}

// PriceAt returns the price at or before the target timestamp.
// If no point exists before target, the first available price is used.
// Returns ErrNoPriceData if the series is empty.
func PriceAt(target int64, series []domain.PricePoint) (float64, error) {
	if len(series) == 0 {
		return 0, ErrNoPriceData
	}
	for i := len(series) - 1; i >= 0; i-- {
		if series[i].TimestampMs <= target {
			return series[i].Price, nil
		}
	}
	return series[0].Price, nil
}

// ChangePercent returns the percent change from the point `lookback`
// positions before the last point to the last point. A shorter series
// falls back to its first point. Returns 0 when the base price is 0.
func ChangePercent(series []domain.PricePoint, lookback int) float64 {
	if len(series) < 2 {
		return 0
	}
	start := len(series) - 1 - lookback
	if start < 0 {
		start = 0
	}
	base := series[start].Price
	if base == 0 {
		return 0
	}
	last := series[len(series)-1].Price
	return (last - base) / base * 100
}
