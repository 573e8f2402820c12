package technical

import (
	"math"
	"testing"

	"solana-token-analyst/internal/domain"
)

// Helper to build a snapshot from parallel price/volume slices. When
// volumes is shorter than prices the last value is repeated.
func makeSnapshot(prices, volumes []float64) *domain.TokenSnapshot {
	series := make([]domain.PricePoint, len(prices))
	for i, p := range prices {
		v := 100.0
		if i < len(volumes) {
			v = volumes[i]
		} else if len(volumes) > 0 {
			v = volumes[len(volumes)-1]
		}
		series[i] = domain.PricePoint{
			TimestampMs: int64(1700000000000 + i*60000),
			Price:       p,
			Volume:      v,
		}
	}
	return &domain.TokenSnapshot{
		Address:     "So11111111111111111111111111111111111111112",
		Symbol:      "TEST",
		PriceSeries: series,
	}
}

func TestAnalyze_TooFewPointsIsNeutral(t *testing.T) {
	engine := NewEngine()
	sub := engine.Analyze(makeSnapshot([]float64{1.0}, nil))

	if sub.Score != 50 {
		t.Errorf("score: got %.2f, want 50", sub.Score)
	}
	if sub.Label != domain.SignalNeutral {
		t.Errorf("label: got %q, want %q", sub.Label, domain.SignalNeutral)
	}
	for name, c := range sub.Components {
		if !c.Omitted {
			t.Errorf("component %s should be omitted", name)
		}
	}
	if len(sub.Components) != len(indicatorWeights) {
		t.Errorf("components: got %d, want %d", len(sub.Components), len(indicatorWeights))
	}
}

// oscillate walks the price two steps forward, one step back so the
// trend is clear without pinning RSI at an extreme.
func oscillate(start, up, down float64, n int) []float64 {
	out := make([]float64, 0, n)
	price := start
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			price += up
		} else {
			price -= down
		}
		out = append(out, price)
	}
	return out
}

func TestAnalyze_OrderlyUptrendLeansBullish(t *testing.T) {
	prices := append(flatSeries(5, 30), oscillate(5, 0.1, 0.04, 40)...)

	engine := NewEngine()
	sub := engine.Analyze(makeSnapshot(prices, flatSeries(100, len(prices))))

	if sub.Score <= 50 {
		t.Errorf("orderly uptrend: got score %.2f, want > 50", sub.Score)
	}
	for name, c := range sub.Components {
		if c.Omitted {
			t.Errorf("component %s unexpectedly omitted: %s", name, c.Reason)
		}
	}
}

func TestAnalyze_OrderlyDowntrendLeansBearish(t *testing.T) {
	prices := append(flatSeries(5, 30), oscillate(5, -0.1, -0.04, 40)...)

	engine := NewEngine()
	sub := engine.Analyze(makeSnapshot(prices, flatSeries(100, len(prices))))

	if sub.Score >= 50 {
		t.Errorf("orderly downtrend: got score %.2f, want < 50", sub.Score)
	}
}

func TestAnalyze_OversoldSelloffOutscoresOverboughtRally(t *testing.T) {
	// Mean-reversion components dominate at the extremes: a long
	// monotonic selloff (RSI 0) scores above the mirrored rally.
	engine := NewEngine()
	selloff := engine.Analyze(makeSnapshot(linearSeries(10, -0.1, 60), flatSeries(100, 60)))
	rally := engine.Analyze(makeSnapshot(linearSeries(1, 0.1, 60), flatSeries(100, 60)))

	if selloff.Score <= rally.Score {
		t.Errorf("selloff %.2f should outscore rally %.2f on mean reversion",
			selloff.Score, rally.Score)
	}
}

func TestAnalyze_ScoreWithinBounds(t *testing.T) {
	cases := [][]float64{
		linearSeries(1, 1, 60),
		linearSeries(100, -1.5, 60),
		flatSeries(3, 60),
		append(linearSeries(1, 0.5, 30), linearSeries(16, -0.5, 30)...),
	}

	engine := NewEngine()
	for i, prices := range cases {
		sub := engine.Analyze(makeSnapshot(prices, flatSeries(10, len(prices))))
		if sub.Score < 0 || sub.Score > 100 {
			t.Errorf("case %d: score %.2f out of [0, 100]", i, sub.Score)
		}
	}
}

func TestAnalyze_FlatSeriesIsNeutral(t *testing.T) {
	engine := NewEngine()
	sub := engine.Analyze(makeSnapshot(flatSeries(2.5, 60), flatSeries(10, 60)))

	if sub.Label != domain.SignalNeutral {
		t.Errorf("flat series: got label %q, want %q", sub.Label, domain.SignalNeutral)
	}
	if math.Abs(sub.Score-50) > 15 {
		t.Errorf("flat series: score %.2f too far from neutral", sub.Score)
	}
}

func TestAnalyze_ShortHistoryRenormalizesWeights(t *testing.T) {
	// 10 points: RSI, MACD, Bollinger and the MA stack all lack history;
	// volume trend and support/resistance remain.
	engine := NewEngine()
	sub := engine.Analyze(makeSnapshot(linearSeries(1, 0.1, 10), flatSeries(10, 10)))

	omittedNames := map[string]bool{
		ComponentRSI:            true,
		ComponentMACD:           true,
		ComponentBollinger:      true,
		ComponentMovingAverages: true,
	}
	var weightSum float64
	for name, c := range sub.Components {
		if omittedNames[name] {
			if !c.Omitted {
				t.Errorf("component %s should be omitted with 10 points", name)
			}
			continue
		}
		if c.Omitted {
			t.Errorf("component %s unexpectedly omitted: %s", name, c.Reason)
			continue
		}
		weightSum += c.Weight
	}
	if math.Abs(weightSum-1.0) > 1e-9 {
		t.Errorf("effective weights of active components sum to %.6f, want 1", weightSum)
	}
	if sub.Score < 0 || sub.Score > 100 {
		t.Errorf("score %.2f out of [0, 100]", sub.Score)
	}
}

func TestAnalyze_MidHistoryKeepsRSI(t *testing.T) {
	// 15 points clear the RSI period but not MACD, Bollinger or the MA
	// stack. RSI, volume trend and support/resistance must carry the
	// renormalized weight between them.
	engine := NewEngine()
	sub := engine.Analyze(makeSnapshot(linearSeries(1, 0.05, 15), flatSeries(10, 15)))

	activeNames := map[string]bool{
		ComponentRSI:           true,
		ComponentVolumeTrend:   true,
		ComponentSupportResist: true,
	}
	var weightSum float64
	for name, c := range sub.Components {
		if activeNames[name] {
			if c.Omitted {
				t.Errorf("component %s unexpectedly omitted: %s", name, c.Reason)
				continue
			}
			weightSum += c.Weight
			continue
		}
		if !c.Omitted {
			t.Errorf("component %s should be omitted with 15 points", name)
		}
	}
	if math.Abs(weightSum-1.0) > 1e-9 {
		t.Errorf("effective weights of active components sum to %.6f, want 1", weightSum)
	}
	if sub.Score < 0 || sub.Score > 100 {
		t.Errorf("score %.2f out of [0, 100]", sub.Score)
	}
}

func TestMACDContribution_CrossoverOutranksContinuation(t *testing.T) {
	cross := macdContribution(MACDResult{Histogram: 0.1, PrevHistogram: -0.1})
	rising := macdContribution(MACDResult{Histogram: 0.2, PrevHistogram: 0.1})
	if cross <= rising {
		t.Errorf("bullish crossover %.1f should outrank rising histogram %.1f", cross, rising)
	}

	bearCross := macdContribution(MACDResult{Histogram: -0.1, PrevHistogram: 0.1})
	falling := macdContribution(MACDResult{Histogram: -0.2, PrevHistogram: -0.1})
	if bearCross >= falling {
		t.Errorf("bearish crossover %.1f should underrank falling histogram %.1f", bearCross, falling)
	}
}

func TestBollingerContribution_Extremes(t *testing.T) {
	b := Bands{Upper: 12, Middle: 10, Lower: 8}

	if got := bollingerContribution(7, b); got != 80 {
		t.Errorf("below lower band: got %.1f, want 80", got)
	}
	if got := bollingerContribution(13, b); got != 20 {
		t.Errorf("above upper band: got %.1f, want 20", got)
	}
	if got := bollingerContribution(10, b); got != 50 {
		t.Errorf("at middle band: got %.1f, want 50", got)
	}
}

func TestSRContribution_BiasBounded(t *testing.T) {
	// At support the bias tops out at +15, at resistance at -15.
	if got := srContribution(1, 1, 2); got != 65 {
		t.Errorf("at support: got %.1f, want 65", got)
	}
	if got := srContribution(2, 1, 2); got != 35 {
		t.Errorf("at resistance: got %.1f, want 35", got)
	}
	if got := srContribution(1.5, 1, 2); got != 50 {
		t.Errorf("mid-range: got %.1f, want 50", got)
	}
	if got := srContribution(5, 3, 3); got != 50 {
		t.Errorf("zero span: got %.1f, want 50", got)
	}
}
