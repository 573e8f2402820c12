// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Analysis metrics
	AnalysesTotal    *prometheus.CounterVec // by verdict band
	AnalysisErrors   *prometheus.CounterVec // by error kind
	AnalysisDuration prometheus.Histogram
	BatchSize        prometheus.Histogram

	// Fetch metrics
	FetchesTotal    *prometheus.CounterVec // by source
	FetchErrors     *prometheus.CounterVec // by source and kind
	FetchDuration   *prometheus.HistogramVec
	CachedSnapshots prometheus.Gauge

	// Narrative metrics
	NarrativeRequests prometheus.Counter
	NarrativeFailures prometheus.Counter
	NarrativeDuration prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "solana_token_analyst"
	}

	return &Metrics{
		// Analysis metrics
		AnalysesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "analyses_total",
			Help:      "Total number of completed analyses by verdict band",
		}, []string{"verdict"}),
		AnalysisErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "errors_total",
			Help:      "Total number of failed analyses by error kind",
		}, []string{"kind"}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "End-to-end duration of one analysis in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		BatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "batch_size",
			Help:      "Number of addresses per batch analysis",
			Buckets:   []float64{1, 2, 5, 10, 20, 30},
		}),

		// Fetch metrics
		FetchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "datasource",
			Name:      "fetches_total",
			Help:      "Total number of provider fetches by source",
		}, []string{"source"}),
		FetchErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "datasource",
			Name:      "fetch_errors_total",
			Help:      "Total number of provider fetch failures by source and kind",
		}, []string{"source", "kind"}),
		FetchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "datasource",
			Name:      "fetch_duration_seconds",
			Help:      "Provider fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		CachedSnapshots: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "datasource",
			Name:      "cached_snapshots",
			Help:      "Snapshots currently held in the server cache",
		}),

		// Narrative metrics
		NarrativeRequests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "narrative",
			Name:      "requests_total",
			Help:      "Total number of narrative generations attempted",
		}),
		NarrativeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "narrative",
			Name:      "failures_total",
			Help:      "Narrative generations that failed; the numeric result is still served",
		}),
		NarrativeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "narrative",
			Name:      "duration_seconds",
			Help:      "Narrative generation latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordAnalysis records a completed analysis.
func RecordAnalysis(verdict string, seconds float64) {
	DefaultMetrics.AnalysesTotal.WithLabelValues(verdict).Inc()
	DefaultMetrics.AnalysisDuration.Observe(seconds)
}

// RecordAnalysisError records a failed analysis by error kind.
func RecordAnalysisError(kind string) {
	DefaultMetrics.AnalysisErrors.WithLabelValues(kind).Inc()
}

// RecordBatch records the size of a batch analysis.
func RecordBatch(size int) {
	DefaultMetrics.BatchSize.Observe(float64(size))
}

// RecordFetch records a provider fetch.
func RecordFetch(source string, seconds float64, err error, kind string) {
	DefaultMetrics.FetchesTotal.WithLabelValues(source).Inc()
	DefaultMetrics.FetchDuration.WithLabelValues(source).Observe(seconds)
	if err != nil {
		DefaultMetrics.FetchErrors.WithLabelValues(source, kind).Inc()
	}
}

// RecordNarrative records a narrative generation attempt.
func RecordNarrative(seconds float64, err error) {
	DefaultMetrics.NarrativeRequests.Inc()
	DefaultMetrics.NarrativeDuration.Observe(seconds)
	if err != nil {
		DefaultMetrics.NarrativeFailures.Inc()
	}
}

// UpdateCachedSnapshots updates the cache size gauge.
func UpdateCachedSnapshots(n int) {
	DefaultMetrics.CachedSnapshots.Set(float64(n))
}
