package domain

// Verdict is the final classification of a combined score.
type Verdict string

// Verdicts ordered from most bullish to most bearish.
const (
	VerdictExtremelyBullish Verdict = "EXTREMELY_BULLISH"
	VerdictBullish          Verdict = "BULLISH"
	VerdictSlightlyBullish  Verdict = "SLIGHTLY_BULLISH"
	VerdictNeutral          Verdict = "NEUTRAL"
	VerdictSlightlyBearish  Verdict = "SLIGHTLY_BEARISH"
	VerdictBearish          Verdict = "BEARISH"
	VerdictExtremelyBearish Verdict = "EXTREMELY_BEARISH"
)

// String returns the string representation of Verdict.
func (v Verdict) String() string {
	return string(v)
}

// IsValid checks if the verdict is one of the seven known bands.
func (v Verdict) IsValid() bool {
	switch v {
	case VerdictExtremelyBullish, VerdictBullish, VerdictSlightlyBullish,
		VerdictNeutral,
		VerdictSlightlyBearish, VerdictBearish, VerdictExtremelyBearish:
		return true
	}
	return false
}

// Bullish reports whether the verdict is on the bullish side of neutral.
func (v Verdict) Bullish() bool {
	return v == VerdictExtremelyBullish || v == VerdictBullish || v == VerdictSlightlyBullish
}

// Bearish reports whether the verdict is on the bearish side of neutral.
func (v Verdict) Bearish() bool {
	return v == VerdictExtremelyBearish || v == VerdictBearish || v == VerdictSlightlyBearish
}
