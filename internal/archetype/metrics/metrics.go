package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the archetype repository.
type Metrics struct {
	CacheHits      *prometheus.CounterVec
	CacheMisses    *prometheus.CounterVec
	LookupDuration *prometheus.HistogramVec
	LoadsTotal     *prometheus.CounterVec
	UpsertFailures prometheus.Counter
}

// New creates and registers all archetype metrics.
func New() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "numina_archetype_cache_hits_total",
			Help: "Total archetype lookups served from the in-memory cache",
		}, []string{"code_type"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "numina_archetype_cache_misses_total",
			Help: "Total archetype lookups that missed the in-memory cache",
		}, []string{"code_type"}),
		LookupDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "numina_archetype_lookup_duration_seconds",
			Help:    "Duration of archetype lookups including store round-trips",
			Buckets: prometheus.DefBuckets,
		}, []string{"code_type"}),
		LoadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "numina_archetype_loads_total",
			Help: "Full cache loads by the tier that satisfied them",
		}, []string{"tier"}),
		UpsertFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "numina_archetype_upsert_failures_total",
			Help: "Total archetype upserts rejected by the remote store",
		}),
	}
}

// RecordCacheHit increments the hit counter for a code type.
func (m *Metrics) RecordCacheHit(codeType string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(codeType).Inc()
}

// RecordCacheMiss increments the miss counter for a code type.
func (m *Metrics) RecordCacheMiss(codeType string) {
	if m == nil {
		return
	}
	m.CacheMisses.WithLabelValues(codeType).Inc()
}

// ObserveLookupDuration records one lookup's duration in seconds.
func (m *Metrics) ObserveLookupDuration(codeType string, seconds float64) {
	if m == nil {
		return
	}
	m.LookupDuration.WithLabelValues(codeType).Observe(seconds)
}

// RecordLoad counts a completed cache load by serving tier
// (cache, remote, fallback, none).
func (m *Metrics) RecordLoad(tier string) {
	if m == nil {
		return
	}
	m.LoadsTotal.WithLabelValues(tier).Inc()
}

// RecordUpsertFailure counts a rejected remote write.
func (m *Metrics) RecordUpsertFailure() {
	if m == nil {
		return
	}
	m.UpsertFailures.Inc()
}
