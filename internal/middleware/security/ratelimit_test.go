package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/reqctx/pingd/internal/metrics"
)

func initTestMetrics(t *testing.T) {
	t.Helper()
	if err := metrics.InitMetrics(prometheus.NewRegistry()); err != nil {
		t.Fatalf("failed to initialize metrics: %v", err)
	}
}

func TestWithRateLimit(t *testing.T) {
	initTestMetrics(t)

	// Burst of 2 per minute: the third request in quick succession must be
	// rejected.
	handler := WithRateLimit(NewGlobalRateLimiter(2))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
		statuses = append(statuses, w.Code)
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("request %d: status = %d, want %d", i, statuses[i], want[i])
		}
	}
}

func TestWithIPRateLimit(t *testing.T) {
	initTestMetrics(t)

	handler := WithIPRateLimit(NewIPRateLimiter(1))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	if got := send("10.0.0.1"); got != http.StatusOK {
		t.Errorf("first request from 10.0.0.1: status = %d, want 200", got)
	}
	if got := send("10.0.0.1"); got != http.StatusTooManyRequests {
		t.Errorf("second request from 10.0.0.1: status = %d, want 429", got)
	}
	// A different client is unaffected by the first client's budget.
	if got := send("10.0.0.2"); got != http.StatusOK {
		t.Errorf("first request from 10.0.0.2: status = %d, want 200", got)
	}
}

func TestRateLimitZeroMeansUnlimited(t *testing.T) {
	initTestMetrics(t)

	// A configured limit of 0 must construct without panicking and never
	// reject.
	handler := WithRateLimit(NewGlobalRateLimiter(0))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}

	ipLimiter := NewIPRateLimiter(0)
	for i := 0; i < 10; i++ {
		if !ipLimiter.GetLimiter("10.0.0.1").Allow() {
			t.Fatalf("request %d from one IP rejected under an unlimited limiter", i)
		}
	}
}

func TestGetIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{
			name:       "remote addr with port",
			remoteAddr: "192.168.1.5:12345",
			want:       "192.168.1.5",
		},
		{
			name:       "forwarded-for wins",
			remoteAddr: "192.168.1.5:12345",
			forwarded:  "203.0.113.7",
			want:       "203.0.113.7",
		},
		{
			name:       "forwarded-for chain uses first entry",
			remoteAddr: "192.168.1.5:12345",
			forwarded:  "203.0.113.7, 198.51.100.2",
			want:       "203.0.113.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			if got := getIP(req); got != tt.want {
				t.Errorf("getIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
