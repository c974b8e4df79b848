package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scar_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scar_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	LoginAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scar_login_attempts_total",
			Help: "Total number of login attempts",
		},
	)

	LoginFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scar_login_failures_total",
			Help: "Total number of failed login attempts",
		},
	)

	// Workflow metrics
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scar_transitions_total",
			Help: "Total number of SCAR status transitions",
		},
		[]string{"action"},
	)
)
