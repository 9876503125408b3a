// Package metrics provides Prometheus metrics for the RingStats API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ringstats",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ringstats",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// IngestItemsTotal counts news items seen by the ingest run.
	IngestItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ringstats",
			Name:      "ingest_items_total",
			Help:      "Total number of news items processed by ingest",
		},
		[]string{"source", "status"},
	)

	// IngestRunDuration measures a full ingest run.
	IngestRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ringstats",
			Name:      "ingest_run_duration_seconds",
			Help:      "Duration of ingest runs in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
		},
	)

	// FavoritesOpsTotal counts favorites mutations.
	FavoritesOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ringstats",
			Name:      "favorites_operations_total",
			Help:      "Total number of favorites operations",
		},
		[]string{"operation", "status"},
	)

	// StatsCacheTotal counts dashboard cache lookups.
	StatsCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ringstats",
			Name:      "stats_cache_total",
			Help:      "Dashboard cache lookups by result",
		},
		[]string{"result"},
	)
)

// RecordRequest records a handled HTTP request.
func RecordRequest(method, route, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration)
}

func RecordIngestItem(source, status string) {
	IngestItemsTotal.WithLabelValues(source, status).Inc()
}

func RecordFavorite(operation, status string) {
	FavoritesOpsTotal.WithLabelValues(operation, status).Inc()
}

func RecordStatsCache(hit bool) {
	if hit {
		StatsCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	StatsCacheTotal.WithLabelValues("miss").Inc()
}
