// Package fundamental rates snapshot-level metrics (liquidity, volume,
// age, DEX presence) against fixed threshold tables and blends them into
// a 0-100 fundamental sub-score.
package fundamental

import "math"

// band is one row of an ordered threshold table: the first row whose
// upper bound exceeds the value wins. Upper bounds are exclusive; the
// last row uses +Inf. Keeping the tables as sorted rows keeps boundary
// semantics auditable in isolation.
type band struct {
	UpperBound float64
	Label      string
	Score      float64
}

// lookup returns the first band whose upper bound is strictly greater
// than v.
func lookup(table []band, v float64) band {
	for _, b := range table {
		if v < b.UpperBound {
			return b
		}
	}
	return table[len(table)-1]
}

// Liquidity bands in USD.
var liquidityBands = []band{
	{10_000, "very_low", 15},
	{50_000, "low", 35},
	{250_000, "medium", 55},
	{1_000_000, "high", 75},
	{math.Inf(1), "excellent", 95},
}

// 24h volume bands in USD. Monotone non-decreasing so more volume never
// scores worse, up to saturation.
var volumeBands = []band{
	{1_000, "very_low", 15},
	{10_000, "low", 35},
	{100_000, "medium", 55},
	{1_000_000, "high", 75},
	{math.Inf(1), "excellent", 95},
}

// Volume/liquidity ratio thresholds. A healthy pool turns over a
// fraction of its liquidity daily. An extreme ratio looks like wash
// trading: it gets flagged and mildly dampened, never zeroed.
const (
	ratioQuiet      = 0.01 // below: barely trading relative to pool size
	ratioSuspicious = 5.0  // above: wash-trading-like turnover

	suspiciousDampen = 0.85
)

// Token age bands in days. Contribution saturates: past "mature" extra
// age adds nothing.
var ageBands = []band{
	{1, "new", 20},
	{7, "young", 45},
	{30, "established", 70},
	{math.Inf(1), "mature", 90},
}

// Saturation caps for DEX presence. Listings beyond the cap add no score.
const (
	poolCountCap = 5
	dexCountCap  = 3
)

// poolScore saturates at poolCountCap pools.
func poolScore(pools int) float64 {
	if pools <= 0 {
		return 10
	}
	if pools >= poolCountCap {
		return 90
	}
	return 10 + 80*float64(pools)/float64(poolCountCap)
}

// dexScore saturates at dexCountCap distinct DEXes.
func dexScore(dexes int) float64 {
	if dexes <= 0 {
		return 10
	}
	if dexes >= dexCountCap {
		return 90
	}
	return 10 + 80*float64(dexes)/float64(dexCountCap)
}
