// Package metrics exposes prometheus collectors for catalog builds, cache
// efficiency and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog build metrics
	CatalogBuildsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ecorec_catalog_builds_total",
			Help: "Number of catalog snapshots built (clean + similarity index)",
		},
	)

	CatalogBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ecorec_catalog_build_duration_seconds",
			Help:    "Time spent loading, cleaning and indexing a catalog",
			Buckets: prometheus.DefBuckets,
		},
	)

	CatalogRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ecorec_catalog_rows",
			Help: "Rows in the most recent catalog build by stage (raw, kept, dropped)",
		},
		[]string{"stage"},
	)

	// Recommendation cache metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ecorec_recommendation_cache_hits_total",
			Help: "Recommendation lookups served from cache",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ecorec_recommendation_cache_misses_total",
			Help: "Recommendation lookups computed from the similarity index",
		},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecorec_api_requests_total",
			Help: "Total API requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecorec_api_request_duration_seconds",
			Help:    "API request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecorec_api_rate_limit_hits_total",
			Help: "Requests rejected by the per-IP rate limiter",
		},
		[]string{"route"},
	)
)

// RecordCatalogBuild records one snapshot build
func RecordCatalogBuild(duration time.Duration, raw, kept int) {
	CatalogBuildsTotal.Inc()
	CatalogBuildDuration.Observe(duration.Seconds())
	CatalogRows.WithLabelValues("raw").Set(float64(raw))
	CatalogRows.WithLabelValues("kept").Set(float64(kept))
	CatalogRows.WithLabelValues("dropped").Set(float64(raw - kept))
}

// RecordCacheLookup records a recommendation cache hit or miss
func RecordCacheLookup(hit bool) {
	if hit {
		CacheHits.Inc()
		return
	}
	CacheMisses.Inc()
}

// RecordAPIRequest records one completed API request
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
