package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus collectors are process-wide by design of the client library.
var (
	// HTTPRequestsTotal counts served HTTP requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sinawise_http_requests_total",
		Help: "Total number of HTTP requests served.",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration observes request latencies by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sinawise_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// NotificationsTotal counts notification dispatch outcomes.
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sinawise_notifications_total",
		Help: "Total number of notification dispatch attempts by outcome.",
	}, []string{"outcome"})
)
