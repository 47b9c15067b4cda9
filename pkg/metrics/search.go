package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SearchMetrics records latency and cache behavior for search requests.
type SearchMetrics struct {
	duration  *prometheus.HistogramVec
	cacheHit  *prometheus.CounterVec
	cacheMiss *prometheus.CounterVec
	failure   *prometheus.CounterVec
}

// NewSearchMetrics registers the search metrics on the provided registerer.
func NewSearchMetrics(reg prometheus.Registerer) *SearchMetrics {
	if reg == nil {
		return &SearchMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "search_duration_seconds",
		Help:    "Duration of catalog search requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	cacheHit := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Cache hits by entity kind.",
	}, []string{"entity"})
	cacheMiss := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Cache misses by entity kind.",
	}, []string{"entity"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "search_failures_total",
		Help: "Failed catalog search requests.",
	}, []string{"operation"})
	reg.MustRegister(duration, cacheHit, cacheMiss, failure)
	return &SearchMetrics{
		duration:  duration,
		cacheHit:  cacheHit,
		cacheMiss: cacheMiss,
		failure:   failure,
	}
}

// ObserveDuration records the duration for the named operation.
func (m *SearchMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncCacheHit increments the hit counter for the entity kind.
func (m *SearchMetrics) IncCacheHit(entity string) {
	if m == nil || m.cacheHit == nil {
		return
	}
	m.cacheHit.WithLabelValues(normalizeLabel(entity)).Inc()
}

// IncCacheMiss increments the miss counter for the entity kind.
func (m *SearchMetrics) IncCacheMiss(entity string) {
	if m == nil || m.cacheMiss == nil {
		return
	}
	m.cacheMiss.WithLabelValues(normalizeLabel(entity)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (m *SearchMetrics) IncFailure(operation string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
