// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gateway outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total number of backend requests issued by the gateway",
		},
		[]string{"operation", "outcome"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Duration of backend requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	GatewayDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_degraded_total",
			Help: "Listing calls that failed and were replaced by an empty result",
		},
		[]string{"operation"},
	)

	PredictionWorkflows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_workflows_total",
			Help: "Prediction workflow runs by final outcome",
		},
		[]string{"outcome"},
	)

	ConsoleHTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_http_requests_total",
			Help: "Requests served by the console server",
		},
		[]string{"route", "status"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "console_active_sessions",
			Help: "Number of browser sessions held in memory",
		},
	)
)
