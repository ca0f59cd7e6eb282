// Package metrics provides Prometheus metrics for the dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts served requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nfsindex",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nfsindex",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// UpstreamRequestsTotal counts calls to the listings REST API.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nfsindex",
			Name:      "upstream_requests_total",
			Help:      "Total number of requests sent to the listings API",
		},
		[]string{"endpoint", "status"},
	)

	// UpstreamRequestDuration measures upstream latency.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nfsindex",
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of listings API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// SupersededLoadsTotal counts model selections whose result was discarded
	// because a newer selection started.
	SupersededLoadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nfsindex",
			Name:      "superseded_loads_total",
			Help:      "Model selections discarded in favour of a newer one",
		},
	)

	// AnalyticsComputedTotal counts dashboards by analytics source.
	AnalyticsComputedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nfsindex",
			Name:      "analytics_computed_total",
			Help:      "Dashboards built, by analytics source (server|client)",
		},
		[]string{"source"},
	)

	// ActiveSessions tracks live dashboard sessions.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nfsindex",
			Name:      "active_sessions",
			Help:      "Number of live dashboard sessions",
		},
	)

	// PanicsRecoveredTotal counts handler panics turned into 500 responses.
	PanicsRecoveredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nfsindex",
			Name:      "panics_recovered_total",
			Help:      "Handler panics recovered by the HTTP middleware",
		},
	)

	// RateLimitedTotal counts requests rejected by the per-client limiter.
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nfsindex",
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected with 429 by the per-client rate limiter",
		},
	)

	// IngestedListingsTotal counts listings written by ingestion.
	IngestedListingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nfsindex",
			Name:      "ingested_listings_total",
			Help:      "Listings written by ingestion, by outcome (inserted|updated|rejected)",
		},
		[]string{"outcome"},
	)
)

// RecordHTTP records one served request.
func RecordHTTP(method, route, status string, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordUpstream records one upstream call.
func RecordUpstream(endpoint, status string, seconds float64) {
	UpstreamRequestsTotal.WithLabelValues(endpoint, status).Inc()
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}
