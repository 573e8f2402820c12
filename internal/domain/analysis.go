package domain

// Signal labels attached to sub-scores.
const (
	SignalBullish = "BULLISH"
	SignalBearish = "BEARISH"
	SignalNeutral = "NEUTRAL"
)

// Sentiment labels. MIXED is used when momentum and transaction ratio
// disagree in sign.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
	SentimentMixed    = "MIXED"
)

// Component is one indicator's contribution to a sub-score.
type Component struct {
	Raw          float64 `json:"raw"`          // raw indicator value (e.g. RSI 72.4)
	Contribution float64 `json:"contribution"` // mapped 0-100 contribution
	Weight       float64 `json:"weight"`       // effective weight after renormalization
	Omitted      bool    `json:"omitted"`      // true when insufficient history
	Reason       string  `json:"reason,omitempty"`
}

// SubScore is one of the three independent analyses. Immutable once
// produced; safe to share across goroutines.
type SubScore struct {
	Score      float64              `json:"score"` // 0-100
	Label      string               `json:"label"` // BULLISH | BEARISH | NEUTRAL (sentiment uses its own labels)
	Components map[string]Component `json:"components"`
	Summary    string               `json:"summary,omitempty"`
}

// Narrative holds externally produced free-text fields. The core never
// computes these; absence is not an error.
type Narrative struct {
	Summary        string   `json:"summary"`
	Recommendation string   `json:"recommendation"`
	RiskFactors    []string `json:"risk_factors"`
	Opportunities  []string `json:"opportunities"`
}

// Weights are the aggregation weights used for one analysis run.
type Weights struct {
	Technical   float64 `json:"technical"`
	Fundamental float64 `json:"fundamental"`
	Sentiment   float64 `json:"sentiment"`
}

// AnalysisResult is the complete outcome of one analysis request.
// Created once, never mutated; safe to serialize and share.
type AnalysisResult struct {
	Token       TokenSnapshot `json:"token"`
	Technical   SubScore      `json:"technical"`
	Fundamental SubScore      `json:"fundamental"`
	Sentiment   SubScore      `json:"sentiment"`

	Verdict       Verdict `json:"verdict"`
	Strength      int     `json:"strength"`       // 1-100 confidence
	CombinedScore float64 `json:"combined_score"` // 0-100
	Weights       Weights `json:"weights"`

	Narrative *Narrative `json:"narrative,omitempty"`

	AnalyzedAtMs int64 `json:"analyzed_at_ms"`
}
