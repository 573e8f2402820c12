package analyst

import (
	"context"
	"errors"
	"testing"
	"time"

	"solana-token-analyst/internal/datasource"
	"solana-token-analyst/internal/datasource/stub"
	"solana-token-analyst/internal/domain"
	"solana-token-analyst/internal/market"
	"solana-token-analyst/internal/narrative"
	"solana-token-analyst/internal/verdict"
)

const (
	wsolMint = "So11111111111111111111111111111111111111112"
	usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

func makeSnapshot(address string) *domain.TokenSnapshot {
	series := make([]domain.PricePoint, 30)
	price := 1.0
	for i := range series {
		price *= 1.01
		series[i] = domain.PricePoint{
			TimestampMs: int64(1700000000000 + i*3600000),
			Price:       price,
			Volume:      1000,
		}
	}
	return &domain.TokenSnapshot{
		Address:      address,
		Symbol:       "TEST",
		Name:         "Test Token",
		PriceUSD:     price,
		AgeInDays:    10,
		LiquidityUSD: 120_000,
		Volume24hUSD: 80_000,
		PoolCount:    3,
		DEXCount:     2,
		BuyCount24h:  600,
		SellCount24h: 400,
		PriceSeries:  series,
	}
}

func newTestAnalyst(t *testing.T, opts Options) *Analyst {
	t.Helper()
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return a.WithClock(func() time.Time { return fixed })
}

func TestAnalyze_CompleteResult(t *testing.T) {
	a := newTestAnalyst(t, Options{})
	snapshot := makeSnapshot(wsolMint)

	result, err := a.Analyze(context.Background(), snapshot)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.Token.Address != wsolMint {
		t.Errorf("token address: got %q", result.Token.Address)
	}
	if !result.Verdict.IsValid() {
		t.Errorf("verdict %q not valid", result.Verdict)
	}
	if result.Strength < 1 || result.Strength > 100 {
		t.Errorf("strength %d out of [1, 100]", result.Strength)
	}
	if result.CombinedScore < 0 || result.CombinedScore > 100 {
		t.Errorf("combined score %.2f out of [0, 100]", result.CombinedScore)
	}
	if result.Weights != verdict.DefaultConfig().Weights() {
		t.Errorf("weights: got %+v", result.Weights)
	}
	if result.AnalyzedAtMs == 0 {
		t.Error("analyzed_at not set")
	}
	if result.Narrative != nil {
		t.Error("narrative should be nil without a provider")
	}
	for _, sub := range []domain.SubScore{result.Technical, result.Fundamental, result.Sentiment} {
		if len(sub.Components) == 0 {
			t.Error("sub-score missing components")
		}
	}
}

func TestAnalyze_InvalidSnapshotRejected(t *testing.T) {
	a := newTestAnalyst(t, Options{})

	s := makeSnapshot(wsolMint)
	s.PriceSeries = nil
	if _, err := a.Analyze(context.Background(), s); !errors.Is(err, market.ErrInvalidSnapshot) {
		t.Errorf("empty series: got %v, want ErrInvalidSnapshot", err)
	}

	if _, err := a.Analyze(context.Background(), nil); !errors.Is(err, market.ErrInvalidSnapshot) {
		t.Errorf("nil snapshot: got %v, want ErrInvalidSnapshot", err)
	}
}

func TestAnalyze_NarrativeAttached(t *testing.T) {
	provider := narrative.ProviderFunc(func(_ context.Context, _ *domain.AnalysisResult) (*domain.Narrative, error) {
		return &domain.Narrative{
			Summary:        "steady accumulation",
			Recommendation: "watch",
			RiskFactors:    []string{"thin liquidity"},
		}, nil
	})

	a := newTestAnalyst(t, Options{Narrative: provider})
	result, err := a.Analyze(context.Background(), makeSnapshot(wsolMint))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Narrative == nil || result.Narrative.Summary != "steady accumulation" {
		t.Errorf("narrative not attached: %+v", result.Narrative)
	}
}

func TestAnalyze_NarrativeFailureNonFatal(t *testing.T) {
	provider := narrative.ProviderFunc(func(_ context.Context, _ *domain.AnalysisResult) (*domain.Narrative, error) {
		return nil, narrative.ErrNarrativeUnavailable
	})

	a := newTestAnalyst(t, Options{Narrative: provider})
	result, err := a.Analyze(context.Background(), makeSnapshot(wsolMint))
	if err != nil {
		t.Fatalf("narrative failure must not fail the analysis: %v", err)
	}
	if result.Narrative != nil {
		t.Error("failed narrative should leave the field nil")
	}
	if !result.Verdict.IsValid() {
		t.Errorf("verdict should still be computed, got %q", result.Verdict)
	}
}

func TestAnalyzeAddress_FetchAndEnrich(t *testing.T) {
	source := stub.NewMarketSource()
	source.Add(makeSnapshot(wsolMint))
	community := stub.NewCommunitySource()
	community.Scores[wsolMint] = 77

	a := newTestAnalyst(t, Options{Source: source, Community: community})
	result, err := a.AnalyzeAddress(context.Background(), wsolMint)
	if err != nil {
		t.Fatalf("AnalyzeAddress: %v", err)
	}
	if result.Token.CommunityScore != 77 {
		t.Errorf("community score: got %.1f, want 77", result.Token.CommunityScore)
	}
}

func TestAnalyzeAddress_CommunityFailureNonFatal(t *testing.T) {
	source := stub.NewMarketSource()
	source.Add(makeSnapshot(wsolMint))
	community := stub.NewCommunitySource()
	community.Err = datasource.ErrDataUnavailable

	a := newTestAnalyst(t, Options{Source: source, Community: community})
	result, err := a.AnalyzeAddress(context.Background(), wsolMint)
	if err != nil {
		t.Fatalf("community failure must not fail the analysis: %v", err)
	}
	if result.Token.CommunityScore != 50 {
		t.Errorf("community score should fall back to neutral 50, got %.1f", result.Token.CommunityScore)
	}
}

func TestAnalyzeAddress_InvalidAddress(t *testing.T) {
	source := stub.NewMarketSource()
	a := newTestAnalyst(t, Options{Source: source})

	_, err := a.AnalyzeAddress(context.Background(), "not-base58-!!")
	if !errors.Is(err, datasource.ErrInvalidAddress) {
		t.Errorf("got %v, want ErrInvalidAddress", err)
	}
	if source.Calls != 0 {
		t.Error("invalid address must be rejected before any fetch")
	}
}

func TestAnalyzeAddress_DataUnavailable(t *testing.T) {
	a := newTestAnalyst(t, Options{Source: stub.NewMarketSource()})

	_, err := a.AnalyzeAddress(context.Background(), wsolMint)
	if !errors.Is(err, datasource.ErrDataUnavailable) {
		t.Errorf("got %v, want ErrDataUnavailable", err)
	}
}

func TestAnalyzeMultiple_PerItemErrors(t *testing.T) {
	source := stub.NewMarketSource()
	source.Add(makeSnapshot(wsolMint))
	source.Add(makeSnapshot(usdcMint))

	a := newTestAnalyst(t, Options{Source: source, BatchConcurrency: 2})

	addresses := []string{wsolMint, "bad-address", usdcMint}
	items := a.AnalyzeMultiple(context.Background(), addresses)

	if len(items) != 3 {
		t.Fatalf("items: got %d, want 3", len(items))
	}
	// Results stay in input order.
	for i, addr := range addresses {
		if items[i].Address != addr {
			t.Errorf("item %d address: got %q, want %q", i, items[i].Address, addr)
		}
	}

	if items[0].Err != nil || items[0].Result == nil {
		t.Errorf("item 0 should succeed: %v", items[0].Err)
	}
	if !errors.Is(items[1].Err, datasource.ErrInvalidAddress) {
		t.Errorf("item 1: got %v, want ErrInvalidAddress", items[1].Err)
	}
	if items[2].Err != nil || items[2].Result == nil {
		t.Errorf("item 2 should succeed: %v", items[2].Err)
	}
}

func TestNew_RejectsInvalidWeights(t *testing.T) {
	_, err := New(Options{Weights: verdict.Config{Technical: 1, Fundamental: 1, Sentiment: 1}})
	if err == nil {
		t.Fatal("invalid weight profile should be rejected")
	}
}
