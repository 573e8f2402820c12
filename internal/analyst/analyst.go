// Package analyst composes the scoring engines into a single
// request/response cycle: validate snapshot, run the three engines,
// aggregate the verdict, optionally attach an externally produced
// narrative. It performs no network I/O of its own.
package analyst

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"solana-token-analyst/internal/address"
	"solana-token-analyst/internal/datasource"
	"solana-token-analyst/internal/domain"
	"solana-token-analyst/internal/fundamental"
	"solana-token-analyst/internal/market"
	"solana-token-analyst/internal/narrative"
	"solana-token-analyst/internal/observability"
	"solana-token-analyst/internal/sentiment"
	"solana-token-analyst/internal/technical"
	"solana-token-analyst/internal/verdict"
)

// Default limits.
const (
	DefaultNarrativeTimeout = 60 * time.Second
	DefaultBatchConcurrency = 4
)

// Analyst runs complete token analyses.
type Analyst struct {
	source    datasource.MarketDataSource
	community datasource.CommunitySource
	provider  narrative.Provider

	technical   *technical.Engine
	fundamental *fundamental.Engine
	sentiment   *sentiment.Engine
	aggregator  *verdict.Aggregator

	narrativeTimeout time.Duration
	batchConcurrency int
	verbose          bool
	logger           *log.Logger
	now              func() time.Time
}

// Options for creating an Analyst.
type Options struct {
	// Source supplies market snapshots for AnalyzeAddress and
	// AnalyzeMultiple. May be nil when only Analyze is used.
	Source datasource.MarketDataSource

	// Community optionally enriches snapshots with a community score.
	Community datasource.CommunitySource

	// Narrative optionally generates free-text commentary. Failures
	// never fail the analysis.
	Narrative narrative.Provider

	// Weights is the aggregation profile. Zero value means defaults.
	Weights verdict.Config

	NarrativeTimeout time.Duration
	BatchConcurrency int
	Verbose          bool
	Logger           *log.Logger
}

// New creates an Analyst. Returns an error when the weight profile is
// invalid.
func New(opts Options) (*Analyst, error) {
	cfg := opts.Weights
	if cfg == (verdict.Config{}) {
		cfg = verdict.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Analyst{
		source:           opts.Source,
		community:        opts.Community,
		provider:         opts.Narrative,
		technical:        technical.NewEngine(),
		fundamental:      fundamental.NewEngine(),
		sentiment:        sentiment.NewEngine(),
		aggregator:       verdict.NewAggregator(cfg),
		narrativeTimeout: opts.NarrativeTimeout,
		batchConcurrency: opts.BatchConcurrency,
		verbose:          opts.Verbose,
		logger:           opts.Logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
	if a.narrativeTimeout <= 0 {
		a.narrativeTimeout = DefaultNarrativeTimeout
	}
	if a.batchConcurrency <= 0 {
		a.batchConcurrency = DefaultBatchConcurrency
	}
	if a.logger == nil {
		a.logger = log.Default()
	}
	return a, nil
}

// WithClock sets a custom clock for deterministic output.
func (a *Analyst) WithClock(now func() time.Time) *Analyst {
	a.now = now
	return a
}

// Analyze scores an already-fetched snapshot. The three engines are
// pure functions of the snapshot and run concurrently; their sub-scores
// are joined by the aggregator. A failed or cancelled narrative call
// degrades to empty narrative fields.
func (a *Analyst) Analyze(ctx context.Context, snapshot *domain.TokenSnapshot) (*domain.AnalysisResult, error) {
	started := a.now()

	if err := market.ValidateSnapshot(snapshot); err != nil {
		observability.RecordAnalysisError("invalid_snapshot")
		return nil, err
	}

	var techScore, fundScore, sentScore domain.SubScore

	done := make(chan struct{}, 3)
	go func() {
		techScore = a.technical.Analyze(snapshot)
		done <- struct{}{}
	}()
	go func() {
		fundScore = a.fundamental.Analyze(snapshot)
		done <- struct{}{}
	}()
	go func() {
		sentScore = a.sentiment.Analyze(snapshot)
		done <- struct{}{}
	}()
	for i := 0; i < 3; i++ {
		<-done
	}

	outcome := a.aggregator.Aggregate(techScore, fundScore, sentScore)

	result := &domain.AnalysisResult{
		Token:         *snapshot,
		Technical:     techScore,
		Fundamental:   fundScore,
		Sentiment:     sentScore,
		Verdict:       outcome.Verdict,
		Strength:      outcome.Strength,
		CombinedScore: outcome.CombinedScore,
		Weights:       a.aggregator.Config().Weights(),
		AnalyzedAtMs:  started.UnixMilli(),
	}

	a.attachNarrative(ctx, result)

	observability.RecordAnalysis(result.Verdict.String(), a.now().Sub(started).Seconds())
	a.log("analyzed %s: verdict=%s combined=%.1f strength=%d",
		snapshot.Address, result.Verdict, result.CombinedScore, result.Strength)

	return result, nil
}

// AnalyzeAddress fetches the snapshot for a token address and analyzes
// it. The address is validated before any network call.
func (a *Analyst) AnalyzeAddress(ctx context.Context, addr string) (*domain.AnalysisResult, error) {
	if a.source == nil {
		return nil, fmt.Errorf("no market data source configured")
	}
	if err := address.Validate(addr); err != nil {
		observability.RecordAnalysisError("invalid_address")
		return nil, err
	}

	snapshot, err := a.source.FetchSnapshot(ctx, addr)
	if err != nil {
		observability.RecordAnalysisError(fetchErrorKind(err))
		return nil, fmt.Errorf("fetch snapshot %s: %w", addr, err)
	}

	// Community enrichment is best-effort; without data the score stays
	// at the neutral baseline.
	snapshot.CommunityScore = 50
	if a.community != nil {
		if score, err := a.community.FetchCommunityScore(ctx, addr); err == nil {
			snapshot.CommunityScore = score
		} else {
			a.log("community score for %s unavailable: %v", addr, err)
		}
	}

	return a.Analyze(ctx, snapshot)
}

// BatchItem is the per-address outcome of AnalyzeMultiple.
type BatchItem struct {
	Address string
	Result  *domain.AnalysisResult
	Err     error
}

// AnalyzeMultiple fans out over addresses with bounded concurrency.
// Each item fails independently; the batch itself never fails.
// Results are returned in input order.
func (a *Analyst) AnalyzeMultiple(ctx context.Context, addresses []string) []BatchItem {
	observability.RecordBatch(len(addresses))

	items := make([]BatchItem, len(addresses))
	sem := make(chan struct{}, a.batchConcurrency)
	done := make(chan int, len(addresses))

	for i, addr := range addresses {
		go func(i int, addr string) {
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := a.AnalyzeAddress(ctx, addr)
			items[i] = BatchItem{Address: addr, Result: result, Err: err}
			done <- i
		}(i, addr)
	}
	for range addresses {
		<-done
	}

	return items
}

// attachNarrative calls the provider under its own timeout. Absence or
// failure leaves the narrative fields empty.
func (a *Analyst) attachNarrative(ctx context.Context, result *domain.AnalysisResult) {
	if a.provider == nil {
		return
	}

	nctx, cancel := context.WithTimeout(ctx, a.narrativeTimeout)
	defer cancel()

	started := a.now()
	n, err := a.provider.Generate(nctx, result)
	observability.RecordNarrative(a.now().Sub(started).Seconds(), err)
	if err != nil {
		a.log("narrative for %s unavailable: %v", result.Token.Address, err)
		return
	}
	result.Narrative = n
}

// fetchErrorKind maps a fetch error to a metric label.
func fetchErrorKind(err error) string {
	switch {
	case errors.Is(err, datasource.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, datasource.ErrInvalidAddress):
		return "invalid_address"
	case errors.Is(err, datasource.ErrDataUnavailable):
		return "data_unavailable"
	default:
		return "fetch"
	}
}

func (a *Analyst) log(format string, args ...interface{}) {
	if a.verbose {
		a.logger.Printf("[analyst] "+format, args...)
	}
}
