package verdict

import (
	"math"
	"testing"

	"solana-token-analyst/internal/domain"
)

func sub(score float64) domain.SubScore {
	return domain.SubScore{Score: score}
}

func TestClassify_BandPartition(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.Verdict
	}{
		{100, domain.VerdictExtremelyBullish},
		{80, domain.VerdictExtremelyBullish},
		{79.999, domain.VerdictBullish},
		{65, domain.VerdictBullish},
		{64.999, domain.VerdictSlightlyBullish},
		{55, domain.VerdictSlightlyBullish},
		{54.999, domain.VerdictNeutral},
		{50, domain.VerdictNeutral},
		{46, domain.VerdictNeutral},
		{45.999, domain.VerdictSlightlyBearish},
		{36, domain.VerdictSlightlyBearish},
		{35.999, domain.VerdictBearish},
		{21, domain.VerdictBearish},
		{20.999, domain.VerdictExtremelyBearish},
		{0, domain.VerdictExtremelyBearish},
	}

	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%.3f): got %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestClassify_EveryScoreHasExactlyOneBand(t *testing.T) {
	// Sweep the whole range; every value must classify, and the verdict
	// must never become more bearish as the score rises.
	rank := map[domain.Verdict]int{
		domain.VerdictExtremelyBearish: 0,
		domain.VerdictBearish:          1,
		domain.VerdictSlightlyBearish:  2,
		domain.VerdictNeutral:          3,
		domain.VerdictSlightlyBullish:  4,
		domain.VerdictBullish:          5,
		domain.VerdictExtremelyBullish: 6,
	}

	prev := -1
	for score := 0.0; score <= 100.0; score += 0.125 {
		v := Classify(score)
		r, ok := rank[v]
		if !ok {
			t.Fatalf("Classify(%.3f) returned unknown verdict %q", score, v)
		}
		if r < prev {
			t.Fatalf("verdict rank decreased at score %.3f", score)
		}
		prev = r
	}
}

func TestAggregate_WeightedCombination(t *testing.T) {
	agg := NewAggregator(DefaultConfig())

	out := agg.Aggregate(sub(80), sub(60), sub(40))
	want := 80*0.40 + 60*0.35 + 40*0.25
	if math.Abs(out.CombinedScore-want) > 1e-9 {
		t.Errorf("combined: got %.4f, want %.4f", out.CombinedScore, want)
	}
	if out.Verdict != domain.VerdictBullish {
		t.Errorf("combined %.1f: got verdict %s, want %s", want, out.Verdict, domain.VerdictBullish)
	}
}

func TestAggregate_AgreementPreservesStrength(t *testing.T) {
	agg := NewAggregator(DefaultConfig())

	// Perfect agreement at 90: distance 40 from midpoint, full strength.
	out := agg.Aggregate(sub(90), sub(90), sub(90))
	if out.Strength != 80 {
		t.Errorf("agreeing sub-scores at 90: got strength %d, want 80", out.Strength)
	}

	// Perfect agreement at 10 mirrors it.
	out = agg.Aggregate(sub(10), sub(10), sub(10))
	if out.Strength != 80 {
		t.Errorf("agreeing sub-scores at 10: got strength %d, want 80", out.Strength)
	}
}

func TestAggregate_DisagreementCapsStrength(t *testing.T) {
	agg := NewAggregator(DefaultConfig())

	agree := agg.Aggregate(sub(75), sub(75), sub(75))
	// Same combined score, maximal spread across the inputs.
	disagree := agg.Aggregate(sub(100), sub(75), sub(35))

	if disagree.Strength >= agree.Strength {
		t.Errorf("disagreement strength %d should be below agreement strength %d",
			disagree.Strength, agree.Strength)
	}

	// Spread at or past the cap pins the multiplier at its floor.
	extreme := agg.Aggregate(sub(100), sub(100), sub(0))
	base := math.Abs(extreme.CombinedScore-50) * 2
	want := int(math.Round(base * minAgreementMult))
	if extreme.Strength != want {
		t.Errorf("extreme disagreement: got strength %d, want %d", extreme.Strength, want)
	}
}

func TestAggregate_StrengthBounds(t *testing.T) {
	agg := NewAggregator(DefaultConfig())

	// Dead neutral still reports at least 1.
	out := agg.Aggregate(sub(50), sub(50), sub(50))
	if out.Strength != 1 {
		t.Errorf("neutral inputs: got strength %d, want 1", out.Strength)
	}

	out = agg.Aggregate(sub(100), sub(100), sub(100))
	if out.Strength != 100 {
		t.Errorf("maximal inputs: got strength %d, want 100", out.Strength)
	}
	if out.Verdict != domain.VerdictExtremelyBullish {
		t.Errorf("maximal inputs: got verdict %s", out.Verdict)
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	bad := Config{Technical: 0.5, Fundamental: 0.5, Sentiment: 0.5}
	if err := bad.Validate(); err == nil {
		t.Error("weights summing to 1.5 should fail validation")
	}

	negative := Config{Technical: -0.2, Fundamental: 0.7, Sentiment: 0.5}
	if err := negative.Validate(); err == nil {
		t.Error("negative weight should fail validation")
	}

	custom := Config{Technical: 0.5, Fundamental: 0.3, Sentiment: 0.2}
	if err := custom.Validate(); err != nil {
		t.Errorf("valid custom profile rejected: %v", err)
	}
}

func TestConfig_WeightsRoundTrip(t *testing.T) {
	cfg := Config{Technical: 0.5, Fundamental: 0.3, Sentiment: 0.2}
	w := cfg.Weights()
	if w.Technical != 0.5 || w.Fundamental != 0.3 || w.Sentiment != 0.2 {
		t.Errorf("weights: got %+v", w)
	}
}
