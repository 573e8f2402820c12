// Package technical computes price/volume indicators and blends them into
// a 0-100 technical sub-score. All functions are pure; indicators that
// lack history are omitted and the blend renormalizes over the rest.
package technical

import "math"

// Indicator periods. Fixed, not user-tunable at runtime.
const (
	RSIPeriod       = 14
	MACDFastPeriod  = 12
	MACDSlowPeriod  = 26
	BollingerPeriod = 20
	BollingerWidth  = 2.0
	SMAShortPeriod  = 20
	SMALongPeriod   = 50
	SRWindow        = 20
	VolumeShortWin  = 5
)

// RSI computes the Wilder Relative Strength Index over the last `period`
// period-over-period changes. A flat window (no gains, no losses) yields
// the neutral value 50. The second return is false when the series is too
// short (needs period+1 points).
func RSI(prices []float64, period int) (float64, bool) {
	if len(prices) < period+1 {
		return 0, false
	}

	var avgGain, avgLoss float64
	start := len(prices) - period
	for i := start; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgGain == 0 && avgLoss == 0 {
		return 50, true
	}
	if avgLoss == 0 {
		return 100, true
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// SMA computes the simple moving average of the last `period` values.
// A shorter slice averages everything it has.
func SMA(data []float64, period int) float64 {
	if len(data) == 0 {
		return 0
	}
	if len(data) < period {
		period = len(data)
	}
	sum := 0.0
	for _, v := range data[len(data)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// EMA computes the exponential moving average over the whole slice,
// seeded with the first value.
func EMA(data []float64, period int) float64 {
	if len(data) == 0 {
		return 0
	}
	k := 2.0 / (float64(period) + 1.0)
	ema := data[0]
	for _, v := range data[1:] {
		ema = (v-ema)*k + ema
	}
	return ema
}

// emaSeries returns the running EMA at every index, seeded with data[0].
func emaSeries(data []float64, period int) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}
	k := 2.0 / (float64(period) + 1.0)
	out[0] = data[0]
	for i := 1; i < len(data); i++ {
		out[i] = (data[i]-out[i-1])*k + out[i-1]
	}
	return out
}

// macdSignalRatio scales the line into the signal. The ratio keeps the
// histogram a fixed fraction of the line, so the histogram changes sign
// exactly when the fast EMA crosses the slow one.
const macdSignalRatio = 0.9

// MACDResult holds the last values of the MACD computation.
type MACDResult struct {
	Line          float64 // EMA12 - EMA26
	Signal        float64 // line scaled by macdSignalRatio
	Histogram     float64 // Line - Signal; same sign as Line
	PrevHistogram float64 // histogram one point earlier, for crossing detection
}

// MACD computes the MACD line, its signal and the histogram. Needs
// MACDSlowPeriod points.
func MACD(prices []float64) (MACDResult, bool) {
	if len(prices) < MACDSlowPeriod {
		return MACDResult{}, false
	}

	fast := emaSeries(prices, MACDFastPeriod)
	slow := emaSeries(prices, MACDSlowPeriod)

	line := make([]float64, len(prices))
	for i := range prices {
		line[i] = fast[i] - slow[i]
	}

	n := len(prices) - 1
	res := MACDResult{
		Line:      line[n],
		Signal:    line[n] * macdSignalRatio,
		Histogram: line[n] * (1 - macdSignalRatio),
	}
	if n > 0 {
		res.PrevHistogram = line[n-1] * (1 - macdSignalRatio)
	}
	return res, true
}

// Bands holds Bollinger band levels.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Bollinger computes SMA20 +/- 2 population standard deviations over the
// trailing window. Needs BollingerPeriod points.
func Bollinger(prices []float64, period int, width float64) (Bands, bool) {
	if len(prices) < period {
		return Bands{}, false
	}
	window := prices[len(prices)-period:]
	mid := SMA(window, period)

	var sumSq float64
	for _, p := range window {
		d := p - mid
		sumSq += d * d
	}
	std := math.Sqrt(sumSq / float64(period))

	return Bands{
		Upper:  mid + width*std,
		Middle: mid,
		Lower:  mid - width*std,
	}, true
}

// Volume trend classifications.
const (
	VolumeIncreasing = "increasing"
	VolumeDecreasing = "decreasing"
	VolumeStable     = "stable"
)

// VolumeTrend compares the short recent window against the baseline that
// precedes it. Rising by more than 20% is increasing, falling by more
// than 20% is decreasing. Needs twice the short window.
func VolumeTrend(volumes []float64) (string, bool) {
	if len(volumes) < 2*VolumeShortWin {
		return "", false
	}
	recent := SMA(volumes[len(volumes)-VolumeShortWin:], VolumeShortWin)
	baseline := volumes[:len(volumes)-VolumeShortWin]
	if len(baseline) > SRWindow-VolumeShortWin {
		baseline = baseline[len(baseline)-(SRWindow-VolumeShortWin):]
	}
	older := SMA(baseline, len(baseline))

	switch {
	case older == 0 && recent == 0:
		return VolumeStable, true
	case recent > older*1.2:
		return VolumeIncreasing, true
	case recent < older*0.8:
		return VolumeDecreasing, true
	default:
		return VolumeStable, true
	}
}

// SupportResistance returns the trailing local min and max over the last
// SRWindow points (or the whole series when shorter). Needs 5 points.
func SupportResistance(prices []float64) (support, resistance float64, ok bool) {
	if len(prices) < 5 {
		return 0, 0, false
	}
	window := prices
	if len(window) > SRWindow {
		window = window[len(window)-SRWindow:]
	}
	support, resistance = window[0], window[0]
	for _, p := range window[1:] {
		if p < support {
			support = p
		}
		if p > resistance {
			resistance = p
		}
	}
	return support, resistance, true
}
