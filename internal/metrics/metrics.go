package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Metrics variables - these will be initialized by InitMetrics
	RequestsTotal          *prometheus.CounterVec
	RequestDuration        *prometheus.HistogramVec
	RateLimitExceeded      *prometheus.CounterVec
	ErrorsTotal            *prometheus.CounterVec
	LogSinkPublishTotal    *prometheus.CounterVec
	LogSinkPublishDuration prometheus.Histogram
)

// InitMetrics initializes metrics with a specific registry
func InitMetrics(reg prometheus.Registerer) error {
	if reg == nil {
		return fmt.Errorf("registry cannot be nil")
	}

	factory := promauto.With(reg)

	RequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pingd_requests_total",
			Help: "Total number of HTTP requests received",
		},
		[]string{"status", "path"},
	)

	RequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pingd_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	RateLimitExceeded = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pingd_rate_limit_exceeded_total",
			Help: "Total number of requests that exceeded rate limits",
		},
		[]string{"type"},
	)

	ErrorsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pingd_errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type"},
	)

	LogSinkPublishTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pingd_log_sink_publish_total",
			Help: "Total number of log entries handed to the network sink",
		},
		[]string{"status"},
	)

	LogSinkPublishDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pingd_log_sink_publish_duration_seconds",
			Help:    "Duration of network sink publish operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	return nil
}

// Helper functions for recording metrics

// RecordRequest records a completed request with its response status
func RecordRequest(status, path string, elapsed time.Duration) {
	RequestsTotal.WithLabelValues(status, path).Inc()
	RequestDuration.WithLabelValues(path).Observe(elapsed.Seconds())
}

// RecordRateLimitExceeded records a request rejected by a rate limiter
func RecordRateLimitExceeded(limiterType string) {
	RateLimitExceeded.WithLabelValues(limiterType).Inc()
}

// RecordError records an application error by type
func RecordError(errType string) {
	ErrorsTotal.WithLabelValues(errType).Inc()
}

// RecordSinkPublish records the outcome of a network sink publish
func RecordSinkPublish(status string, elapsed time.Duration) {
	LogSinkPublishTotal.WithLabelValues(status).Inc()
	LogSinkPublishDuration.Observe(elapsed.Seconds())
}
