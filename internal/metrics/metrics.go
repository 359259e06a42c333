// Package metrics exposes Prometheus counters for the social count caches.
//
// Every series is labelled with the counter kind (favor_count, comment_count,
// reply_count, follower_count, following_count, spot_count) so hit ratios can
// be compared per kind.
//
// Usage:
//
//	metrics.RecordHit("favor_count")
//	metrics.RecordFallback("favor_count", metrics.OpRead)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache operations that can degrade to the database.
const (
	OpRead  = "read"
	OpWrite = "write"
)

var (
	// CacheHitsTotal counts counts served from the cache.
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yigil_count_cache_hits_total",
			Help: "Total number of counts served from the cache",
		},
		[]string{"kind"},
	)

	// CacheMissesTotal counts reads that went to the database.
	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yigil_count_cache_misses_total",
			Help: "Total number of counts recomputed from the database",
		},
		[]string{"kind"},
	)

	// CacheFallbacksTotal counts cache failures that were absorbed.
	CacheFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yigil_count_cache_fallbacks_total",
			Help: "Total number of cache read/write failures degraded to the database",
		},
		[]string{"kind", "op"},
	)

	// ResolveErrorsTotal counts failed authoritative count queries.
	ResolveErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yigil_count_resolve_errors_total",
			Help: "Total number of failed database count queries",
		},
		[]string{"kind"},
	)

	// InvalidationsTotal counts explicit cache invalidations.
	InvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yigil_count_invalidations_total",
			Help: "Total number of count cache invalidations",
		},
		[]string{"kind"},
	)
)

// RecordHit records a count served from the cache.
func RecordHit(kind string) {
	CacheHitsTotal.WithLabelValues(kind).Inc()
}

// RecordMiss records a count recomputed from the database.
func RecordMiss(kind string) {
	CacheMissesTotal.WithLabelValues(kind).Inc()
}

// RecordFallback records a cache failure on op (OpRead or OpWrite).
func RecordFallback(kind, op string) {
	CacheFallbacksTotal.WithLabelValues(kind, op).Inc()
}

// RecordResolveError records a failed database count.
func RecordResolveError(kind string) {
	ResolveErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordInvalidation records an explicit invalidation.
func RecordInvalidation(kind string) {
	InvalidationsTotal.WithLabelValues(kind).Inc()
}
