package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsRecording(t *testing.T) {
	tests := []struct {
		name       string
		recordFunc func()
		checkFunc  func(t *testing.T)
	}{
		{
			name: "RequestsTotal increments correctly",
			recordFunc: func() {
				RecordRequest("200", "/api/ping", 5*time.Millisecond)
			},
			checkFunc: func(t *testing.T) {
				value := getCounterValue(t, RequestsTotal.WithLabelValues("200", "/api/ping"))
				if value != 1 {
					t.Errorf("expected RequestsTotal to be 1, got %v", value)
				}
			},
		},
		{
			name: "RequestDuration observes correctly",
			recordFunc: func() {
				RecordRequest("200", "/api/ping", 250*time.Millisecond)
			},
			checkFunc: func(t *testing.T) {
				histogram := getHistogramValue(t, RequestDuration.WithLabelValues("/api/ping"))
				if histogram.GetSampleCount() != 1 {
					t.Errorf("expected RequestDuration sample count to be 1, got %v", histogram.GetSampleCount())
				}
				if histogram.GetSampleSum() != 0.25 {
					t.Errorf("expected RequestDuration sample sum to be 0.25, got %v", histogram.GetSampleSum())
				}
			},
		},
		{
			name: "RateLimitExceeded increments correctly",
			recordFunc: func() {
				RecordRateLimitExceeded("global")
			},
			checkFunc: func(t *testing.T) {
				value := getCounterValue(t, RateLimitExceeded.WithLabelValues("global"))
				if value != 1 {
					t.Errorf("expected RateLimitExceeded to be 1, got %v", value)
				}
			},
		},
		{
			name: "ErrorsTotal increments correctly",
			recordFunc: func() {
				RecordError("method_not_allowed")
			},
			checkFunc: func(t *testing.T) {
				value := getCounterValue(t, ErrorsTotal.WithLabelValues("method_not_allowed"))
				if value != 1 {
					t.Errorf("expected ErrorsTotal to be 1, got %v", value)
				}
			},
		},
		{
			name: "LogSinkPublishTotal increments correctly",
			recordFunc: func() {
				RecordSinkPublish("success", 10*time.Millisecond)
			},
			checkFunc: func(t *testing.T) {
				value := getCounterValue(t, LogSinkPublishTotal.WithLabelValues("success"))
				if value != 1 {
					t.Errorf("expected LogSinkPublishTotal to be 1, got %v", value)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset registry for each test
			reg := prometheus.NewRegistry()
			if err := InitMetrics(reg); err != nil {
				t.Fatalf("failed to initialize metrics: %v", err)
			}

			tt.recordFunc()
			tt.checkFunc(t)
		})
	}
}

// Helper function to get counter value
func getCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Error getting counter value: %v", err)
	}
	return metric.GetCounter().GetValue()
}

// Helper function to get histogram value
func getHistogramValue(t *testing.T, h prometheus.Observer) *dto.Histogram {
	t.Helper()
	var metric dto.Metric
	if err := h.(prometheus.Metric).Write(&metric); err != nil {
		t.Fatalf("Error getting histogram value: %v", err)
	}
	return metric.GetHistogram()
}

func TestMetricsInitialization(t *testing.T) {
	tests := []struct {
		name      string
		registry  prometheus.Registerer
		wantError bool
	}{
		{
			name:      "fresh registry initializes successfully",
			registry:  prometheus.NewRegistry(),
			wantError: false,
		},
		{
			name:      "nil registry fails",
			registry:  nil,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitMetrics(tt.registry)
			if (err != nil) != tt.wantError {
				t.Errorf("InitMetrics() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}
