package request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/reqctx/pingd/internal/logging"
	"github.com/reqctx/pingd/internal/metrics"
)

// captureLogger records Info lines handed to it.
type captureLogger struct {
	infos []string
}

func (c *captureLogger) Info(_ context.Context, text string)  { c.infos = append(c.infos, text) }
func (c *captureLogger) Debug(context.Context, string)        {}
func (c *captureLogger) Error(context.Context, string, error) {}

var _ logging.Logger = (*captureLogger)(nil)

func initTestMetrics(t *testing.T) {
	t.Helper()
	if err := metrics.InitMetrics(prometheus.NewRegistry()); err != nil {
		t.Fatalf("failed to initialize metrics: %v", err)
	}
}

func TestWithTiming(t *testing.T) {
	initTestMetrics(t)

	tests := []struct {
		name    string
		target  string
		handler http.HandlerFunc
		wantRe  string
	}{
		{
			name:   "logs path and duration",
			target: "/api/ping",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			wantRe: `^Request /api/ping took \d+ ms$`,
		},
		{
			name:   "includes the query string",
			target: "/api/ping?verbose=1",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			wantRe: `^Request /api/ping\?verbose=1 took \d+ ms$`,
		},
		{
			name:   "measured duration covers the handler",
			target: "/slow",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(20 * time.Millisecond)
			},
			wantRe: `^Request /slow took ([2-9]\d|\d{3,}) ms$`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &captureLogger{}
			handler := WithTiming(log)(tt.handler)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if len(log.infos) != 1 {
				t.Fatalf("expected 1 timing line, got %d: %v", len(log.infos), log.infos)
			}
			if ok, _ := regexp.MatchString(tt.wantRe, log.infos[0]); !ok {
				t.Errorf("timing line %q does not match %q", log.infos[0], tt.wantRe)
			}
		})
	}
}

func TestWithTimingLogsOnPanic(t *testing.T) {
	initTestMetrics(t)

	log := &captureLogger{}
	handler := WithTiming(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler blew up")
	}))

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected the handler panic to propagate")
			}
		}()
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}()

	if len(log.infos) != 1 {
		t.Fatalf("expected the duration log despite the panic, got %v", log.infos)
	}
	if ok, _ := regexp.MatchString(`^Request /api/ping took \d+ ms$`, log.infos[0]); !ok {
		t.Errorf("timing line %q has the wrong shape", log.infos[0])
	}
}

func TestStatusWriterDefaultsTo200(t *testing.T) {
	sw := newStatusWriter(httptest.NewRecorder())
	if sw.Status() != http.StatusOK {
		t.Errorf("default status = %d, want %d", sw.Status(), http.StatusOK)
	}

	sw.WriteHeader(http.StatusTeapot)
	if sw.Status() != http.StatusTeapot {
		t.Errorf("captured status = %d, want %d", sw.Status(), http.StatusTeapot)
	}
}
