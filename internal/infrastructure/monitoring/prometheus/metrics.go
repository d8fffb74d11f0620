// Package prometheus registers and exposes the engine's metrics.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default buckets.
var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultAnalysisDurationBuckets = []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10}
)

// AppMetrics holds all engine metrics. It implements the metrics collector
// ports of the validation engine and the profile orchestrator.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Validation engine
	ValidationRunsTotal       prometheus.Counter
	ValidationDuration        prometheus.Histogram
	ValidationExcludedTotal   *prometheus.CounterVec
	ValidationCandidatesTotal prometheus.Counter

	// Profile subsystem
	ProfileBuildsTotal      prometheus.Counter
	ProfileBuildDuration    prometheus.Histogram
	EnrichmentFailuresTotal prometheus.Counter

	// Infrastructure
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
}

// NewAppMetrics registers all engine metrics on the given registerer; a nil
// registerer uses the default registry.
func NewAppMetrics(reg prometheus.Registerer) *AppMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &AppMetrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scholar_http_requests_total",
			Help: "Total HTTP requests served.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scholar_http_request_duration_seconds",
			Help:    "HTTP request duration.",
			Buckets: DefaultHTTPDurationBuckets,
		}, []string{"method", "path"}),

		ValidationRunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scholar_validation_runs_total",
			Help: "Completed reviewer validation runs.",
		}),
		ValidationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scholar_validation_duration_seconds",
			Help:    "Duration of reviewer validation runs.",
			Buckets: DefaultAnalysisDurationBuckets,
		}),
		ValidationExcludedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scholar_validation_excluded_total",
			Help: "Candidates excluded, by rule.",
		}, []string{"rule"}),
		ValidationCandidatesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scholar_validation_candidates_total",
			Help: "Candidates processed by validation runs.",
		}),

		ProfileBuildsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scholar_profile_builds_total",
			Help: "Detailed profiles built.",
		}),
		ProfileBuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scholar_profile_build_duration_seconds",
			Help:    "Duration of detailed profile builds.",
			Buckets: DefaultAnalysisDurationBuckets,
		}),
		EnrichmentFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scholar_enrichment_failures_total",
			Help: "External profile enrichment failures.",
		}),

		CacheHitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scholar_cache_hits_total",
			Help: "Cache hits in the enrichment read-through cache.",
		}),
		CacheMissesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scholar_cache_misses_total",
			Help: "Cache misses in the enrichment read-through cache.",
		}),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Application-layer collector ports
// ─────────────────────────────────────────────────────────────────────────────

// ObserveValidationDuration implements the validation engine's collector port.
func (m *AppMetrics) ObserveValidationDuration(d time.Duration, candidates int) {
	m.ValidationRunsTotal.Inc()
	m.ValidationDuration.Observe(d.Seconds())
	m.ValidationCandidatesTotal.Add(float64(candidates))
}

// IncExcluded implements the validation engine's collector port.
func (m *AppMetrics) IncExcluded(rule string) {
	m.ValidationExcludedTotal.WithLabelValues(rule).Inc()
}

// ObserveProfileDuration implements the profile orchestrator's collector port.
func (m *AppMetrics) ObserveProfileDuration(d time.Duration) {
	m.ProfileBuildsTotal.Inc()
	m.ProfileBuildDuration.Observe(d.Seconds())
}

// IncEnrichmentFailure implements the profile orchestrator's collector port.
func (m *AppMetrics) IncEnrichmentFailure() {
	m.EnrichmentFailuresTotal.Inc()
}

// IncCacheHit implements the enrichment cache's collector port.
func (m *AppMetrics) IncCacheHit() {
	m.CacheHitsTotal.Inc()
}

// IncCacheMiss implements the enrichment cache's collector port.
func (m *AppMetrics) IncCacheMiss() {
	m.CacheMissesTotal.Inc()
}

// ObserveHTTPRequest records one served HTTP request.
func (m *AppMetrics) ObserveHTTPRequest(method, path, status string, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
