package technical

import (
	"fmt"
	"strings"

	"solana-token-analyst/internal/domain"
)

// Component names as they appear in SubScore.Components.
const (
	ComponentRSI            = "rsi"
	ComponentMACD           = "macd"
	ComponentBollinger      = "bollinger"
	ComponentMovingAverages = "moving_averages"
	ComponentVolumeTrend    = "volume_trend"
	ComponentSupportResist  = "support_resistance"
)

// Indicator weights before renormalization. They sum to 1.0.
var indicatorWeights = map[string]float64{
	ComponentRSI:            0.20,
	ComponentMACD:           0.20,
	ComponentBollinger:      0.15,
	ComponentMovingAverages: 0.20,
	ComponentVolumeTrend:    0.15,
	ComponentSupportResist:  0.10,
}

// Engine computes the technical sub-score from a price/volume series.
// Stateless; one instance may serve concurrent analyses.
type Engine struct{}

// NewEngine creates a technical engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Analyze runs every indicator with enough history and blends their
// contributions. Indicators without enough points are present in
// Components with Omitted=true and are excluded from the weighted blend;
// the remaining weights are renormalized so the score stays on a 0-100
// scale. A series shorter than 2 points scores a neutral 50 with every
// indicator omitted.
func (e *Engine) Analyze(snapshot *domain.TokenSnapshot) domain.SubScore {
	prices := make([]float64, len(snapshot.PriceSeries))
	volumes := make([]float64, len(snapshot.PriceSeries))
	for i, p := range snapshot.PriceSeries {
		prices[i] = p.Price
		volumes[i] = p.Volume
	}

	components := make(map[string]domain.Component, len(indicatorWeights))

	if len(prices) < 2 {
		for name := range indicatorWeights {
			components[name] = omitted("fewer than 2 price points")
		}
		return domain.SubScore{
			Score:      50,
			Label:      domain.SignalNeutral,
			Components: components,
			Summary:    "Insufficient price data for technical analysis",
		}
	}

	currentPrice := prices[len(prices)-1]

	// RSI
	if rsi, ok := RSI(prices, RSIPeriod); ok {
		components[ComponentRSI] = domain.Component{
			Raw:          rsi,
			Contribution: clamp(100 - rsi),
		}
	} else {
		components[ComponentRSI] = omitted(needs(RSIPeriod + 1))
	}

	// MACD
	if macd, ok := MACD(prices); ok {
		components[ComponentMACD] = domain.Component{
			Raw:          macd.Histogram,
			Contribution: macdContribution(macd),
		}
	} else {
		components[ComponentMACD] = omitted(needs(MACDSlowPeriod))
	}

	// Bollinger Bands
	if bands, ok := Bollinger(prices, BollingerPeriod, BollingerWidth); ok {
		components[ComponentBollinger] = domain.Component{
			Raw:          bandPosition(currentPrice, bands),
			Contribution: bollingerContribution(currentPrice, bands),
		}
	} else {
		components[ComponentBollinger] = omitted(needs(BollingerPeriod))
	}

	// Moving average stack
	if len(prices) >= SMALongPeriod {
		raw, contribution := movingAverageContribution(prices, currentPrice)
		components[ComponentMovingAverages] = domain.Component{
			Raw:          raw,
			Contribution: contribution,
		}
	} else {
		components[ComponentMovingAverages] = omitted(needs(SMALongPeriod))
	}

	// Volume trend
	volTrend, volTrendOK := VolumeTrend(volumes)
	if volTrendOK {
		components[ComponentVolumeTrend] = domain.Component{
			Raw:          trendDirectionRaw(prices),
			Contribution: volumeContribution(volTrend, prices),
		}
	} else {
		components[ComponentVolumeTrend] = omitted(needs(2 * VolumeShortWin))
	}

	// Support / resistance
	if support, resistance, ok := SupportResistance(prices); ok {
		components[ComponentSupportResist] = domain.Component{
			Raw:          resistance - support,
			Contribution: srContribution(currentPrice, support, resistance),
		}
	} else {
		components[ComponentSupportResist] = omitted(needs(5))
	}

	score := blend(components)

	return domain.SubScore{
		Score:      score,
		Label:      label(score),
		Components: components,
		Summary:    summarize(components, prices, volTrend),
	}
}

// blend computes the weighted average over non-omitted components and
// writes each component's renormalized effective weight back into the map.
func blend(components map[string]domain.Component) float64 {
	var totalWeight float64
	for name, c := range components {
		if !c.Omitted {
			totalWeight += indicatorWeights[name]
		}
	}
	if totalWeight == 0 {
		return 50
	}

	var score float64
	for name, c := range components {
		if c.Omitted {
			continue
		}
		w := indicatorWeights[name] / totalWeight
		c.Weight = w
		components[name] = c
		score += c.Contribution * w
	}
	return clamp(score)
}

// macdContribution scores the histogram sign and its slope. A cross from
// negative to positive outranks an already-positive histogram.
func macdContribution(m MACDResult) float64 {
	switch {
	case m.Histogram > 0 && m.PrevHistogram <= 0:
		return 85 // bullish crossover
	case m.Histogram < 0 && m.PrevHistogram >= 0:
		return 15 // bearish crossover
	case m.Histogram > 0 && m.Histogram > m.PrevHistogram:
		return 75
	case m.Histogram > 0:
		return 62
	case m.Histogram < 0 && m.Histogram < m.PrevHistogram:
		return 25
	case m.Histogram < 0:
		return 38
	default:
		return 50
	}
}

// bandPosition maps price location in the bands to [-1, 1]:
// -1 at/below lower, 0 at middle, 1 at/above upper.
func bandPosition(price float64, b Bands) float64 {
	half := b.Upper - b.Middle
	if half == 0 {
		return 0
	}
	pos := (price - b.Middle) / half
	if pos > 1 {
		pos = 1
	}
	if pos < -1 {
		pos = -1
	}
	return pos
}

// bollingerContribution leans bullish below the lower band, bearish above
// the upper, and drifts toward whichever band is nearer inside.
func bollingerContribution(price float64, b Bands) float64 {
	switch {
	case price < b.Lower:
		return 80
	case price > b.Upper:
		return 20
	}
	// Inside the bands: linear drift, nearer the lower band scores higher.
	return clamp(50 - bandPosition(price, b)*15)
}

// movingAverageContribution scores the price against the SMA20/SMA50/
// EMA12/EMA26 stack. Price above every average with the short SMA above
// the long one is the golden-cross-like best case.
func movingAverageContribution(prices []float64, price float64) (raw, contribution float64) {
	sma20 := SMA(prices, SMAShortPeriod)
	sma50 := SMA(prices, SMALongPeriod)
	ema12 := EMA(prices, MACDFastPeriod)
	ema26 := EMA(prices, MACDSlowPeriod)

	above := 0
	for _, ma := range []float64{sma20, sma50, ema12, ema26} {
		if price > ma {
			above++
		}
	}
	raw = float64(above)

	switch above {
	case 4:
		if sma20 > sma50 {
			return raw, 85 // golden-cross-like
		}
		return raw, 75
	case 3:
		return raw, 65
	case 2:
		return raw, 50
	case 1:
		return raw, 35
	default:
		if sma20 < sma50 {
			return raw, 15 // death-cross-like
		}
		return raw, 25
	}
}

// trendDirectionRaw compares the recent average to the prior one:
// 1 uptrend, -1 downtrend, 0 sideways.
func trendDirectionRaw(prices []float64) float64 {
	if len(prices) < 2*VolumeShortWin {
		return 0
	}
	recent := SMA(prices[len(prices)-VolumeShortWin:], VolumeShortWin)
	older := SMA(prices[len(prices)-2*VolumeShortWin:len(prices)-VolumeShortWin], VolumeShortWin)
	switch {
	case recent > older*1.05:
		return 1
	case recent < older*0.95:
		return -1
	default:
		return 0
	}
}

// volumeContribution confirms the price trend: rising volume on a rising
// price is bullish, on a falling price bearish, anything else neutral.
func volumeContribution(trend string, prices []float64) float64 {
	dir := trendDirectionRaw(prices)
	if trend == VolumeIncreasing {
		switch {
		case dir > 0:
			return 70
		case dir < 0:
			return 30
		}
	}
	return 50
}

// srContribution adds a small bounded bias from the price's position
// between trailing support and resistance. Proximity to support leans
// bullish.
func srContribution(price, support, resistance float64) float64 {
	span := resistance - support
	if span == 0 {
		return 50
	}
	pos := (price - support) / span
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return clamp(50 + (0.5-pos)*30)
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

func summarize(components map[string]domain.Component, prices []float64, volTrend string) string {
	var points []string

	if c := components[ComponentRSI]; !c.Omitted {
		points = append(points, fmt.Sprintf("RSI at %.1f (%s)", c.Raw, rsiSignal(c.Raw)))
	}
	if c := components[ComponentMACD]; !c.Omitted {
		momentum := "neutral"
		if c.Raw > 0 {
			momentum = "bullish"
		} else if c.Raw < 0 {
			momentum = "bearish"
		}
		points = append(points, fmt.Sprintf("MACD showing %s momentum", momentum))
	}
	switch trendDirectionRaw(prices) {
	case 1:
		points = append(points, "Price in uptrend")
	case -1:
		points = append(points, "Price in downtrend")
	default:
		points = append(points, "Price moving sideways")
	}
	if c := components[ComponentVolumeTrend]; !c.Omitted && volTrend != "" {
		points = append(points, "Volume "+volTrend)
	}

	if len(points) == 0 {
		return "Insufficient data for detailed analysis"
	}
	return strings.Join(points, ". ")
}

func rsiSignal(rsi float64) string {
	switch {
	case rsi >= 70:
		return "overbought"
	case rsi <= 30:
		return "oversold"
	default:
		return "neutral"
	}
}

func needs(points int) string {
	return fmt.Sprintf("needs %d price points", points)
}

func omitted(reason string) domain.Component {
	return domain.Component{Omitted: true, Reason: reason}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
