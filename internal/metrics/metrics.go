// Package metrics exposes Prometheus metrics for the value-bet pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects pipeline metrics on a private registry. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ProviderRequests *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	ProviderRetries  *prometheus.CounterVec
	ProviderInflight prometheus.Gauge

	AnalysisRuns     *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	Candidates       *prometheus.CounterVec
	FixtureFailures  *prometheus.CounterVec

	CacheLookups *prometheus.CounterVec
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ProviderRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valuebet_provider_requests_total",
				Help: "Provider calls by endpoint and final outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		ProviderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "valuebet_provider_request_duration_seconds",
				Help:    "Provider call latency including retries",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
			},
			[]string{"endpoint"},
		),
		ProviderRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valuebet_provider_retries_total",
				Help: "Provider retries by endpoint and reason",
			},
			[]string{"endpoint", "reason"},
		),
		ProviderInflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "valuebet_provider_inflight",
				Help: "Provider calls currently holding a gate slot",
			},
		),

		AnalysisRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valuebet_analysis_runs_total",
				Help: "Analysis runs by entry point and outcome",
			},
			[]string{"entry", "outcome"},
		),
		AnalysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "valuebet_analysis_duration_seconds",
				Help:    "Wall time of analysis runs",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
			[]string{"entry"},
		),
		Candidates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valuebet_candidates_total",
				Help: "Surfaced candidate bets",
			},
			[]string{"classification", "market"},
		),
		FixtureFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valuebet_fixture_failures_total",
				Help: "Fixtures that failed analysis, by error kind",
			},
			[]string{"kind"},
		),

		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valuebet_cache_lookups_total",
				Help: "Cycle cache lookups by entry kind and result",
			},
			[]string{"kind", "result"},
		),
	}

	m.registry.MustRegister(
		m.ProviderRequests,
		m.ProviderDuration,
		m.ProviderRetries,
		m.ProviderInflight,
		m.AnalysisRuns,
		m.AnalysisDuration,
		m.Candidates,
		m.FixtureFailures,
		m.CacheLookups,
	)

	return m
}

// Registry returns the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordProviderRequest records one provider call with its final outcome
func (m *Metrics) RecordProviderRequest(endpoint, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(endpoint, outcome).Inc()
	m.ProviderDuration.WithLabelValues(endpoint).Observe(took.Seconds())
}

// RecordProviderRetry records a retry and its reason
func (m *Metrics) RecordProviderRetry(endpoint, reason string) {
	if m == nil {
		return
	}
	m.ProviderRetries.WithLabelValues(endpoint, reason).Inc()
}

// ProviderCallStarted marks a gate slot taken
func (m *Metrics) ProviderCallStarted() {
	if m == nil {
		return
	}
	m.ProviderInflight.Inc()
}

// ProviderCallFinished marks a gate slot released
func (m *Metrics) ProviderCallFinished() {
	if m == nil {
		return
	}
	m.ProviderInflight.Dec()
}

// RecordAnalysis records a finished run
func (m *Metrics) RecordAnalysis(entry, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.AnalysisRuns.WithLabelValues(entry, outcome).Inc()
	m.AnalysisDuration.WithLabelValues(entry).Observe(took.Seconds())
}

// RecordCandidate counts a surfaced candidate
func (m *Metrics) RecordCandidate(classification, market string) {
	if m == nil {
		return
	}
	m.Candidates.WithLabelValues(classification, market).Inc()
}

// RecordFixtureFailure counts a failed fixture
func (m *Metrics) RecordFixtureFailure(kind string) {
	if m == nil {
		return
	}
	m.FixtureFailures.WithLabelValues(kind).Inc()
}

// RecordCacheLookup counts a cache lookup
func (m *Metrics) RecordCacheLookup(kind, result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(kind, result).Inc()
}
