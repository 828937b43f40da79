package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reqctx/pingd/internal/config"
	"github.com/reqctx/pingd/internal/errors"
	"github.com/reqctx/pingd/internal/logging"
	"github.com/reqctx/pingd/internal/metrics"
	"github.com/reqctx/pingd/internal/middleware/request"
	"github.com/reqctx/pingd/internal/middleware/security"
	"github.com/reqctx/pingd/internal/sink"
	"github.com/reqctx/pingd/pkg/ping"
)

func main() {
	// Parse command line flags
	configFile := flag.String("config", "", "Path to configuration file (JSON or YAML)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "", "Log format (json, text, dev)")
	flag.Parse()

	// Flags beat every other configuration source.
	override := &config.Config{}
	override.Server.LogLevel = *logLevel
	override.Server.LogFormat = *logFormat

	cfg, err := config.Load(*configFile, override)
	if err != nil {
		slogFatal("Failed to load configuration", err)
	}

	// The slog backend is the local sink; everything the application logs
	// goes through the request-ID decorator on top of it.
	slogger := logging.NewSlog(cfg.Server.LogLevel, cfg.Server.LogFormat)
	sinks := logging.SlogSinks(slogger)

	slogger.Info("Configuration loaded", "config", cfg.String())

	ctx := context.Background()

	// Initialize health checker
	healthCheck := ping.NewHealthCheck()

	// Add metrics initialization
	reg := prometheus.NewRegistry()
	if err := metrics.InitMetrics(reg); err != nil {
		slogger.Error("Failed to initialize metrics", "error", err.Error())
		os.Exit(1)
	}

	// Optional network sink: fan log lines out to Pub/Sub as well.
	if cfg.Sink.Enabled {
		pub, err := sink.NewPubSubPublisher(ctx, cfg.Sink.ProjectID, cfg.Sink.TopicID)
		if err != nil {
			err = errors.Wrap(err, "failed to create log sink publisher")
			err = errors.WithDetails(err, map[string]interface{}{
				"project_id": cfg.Sink.ProjectID,
				"topic_id":   cfg.Sink.TopicID,
			})
			slogger.Error("Log sink initialization error", "error", err.Error())
			os.Exit(1)
		}
		defer pub.Close()

		sinks = logging.Tee(sinks, sink.Sinks(pub))
	}

	appLog := logging.WithRequestID(logging.New(sinks), nil)

	// Create the ping handler
	pingHandler := ping.NewHandler(ping.Config{
		Log:   appLog,
		Delay: cfg.Server.PingDelay,
	})

	// Create router
	mux := http.NewServeMux()

	// Add metrics endpoint
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// Add health check routes
	mux.HandleFunc("/health", healthCheck.HealthHandler)
	mux.HandleFunc("/ready", healthCheck.ReadyHandler)

	// Create security configuration
	securityConfig := security.SecurityConfig{
		AllowedOrigins: cfg.Security.AllowedOrigins,
		AllowedMethods: cfg.Security.AllowedMethods,
		AllowedHeaders: cfg.Security.AllowedHeaders,
		MaxAge:         3600,
	}

	// Create rate limiters
	globalRateLimiter := security.NewGlobalRateLimiter(cfg.Security.RateLimit)
	ipRateLimiter := security.NewIPRateLimiter(cfg.Security.IPRateLimit)

	// Add the ping route with middleware.
	// Note: The order of middleware is important! The request scope must be
	// established first so the timing log line carries the request ID.
	mux.Handle("/api/ping", chainMiddleware(
		pingHandler,
		request.WithRequestScope,
		request.WithTiming(appLog),
		security.WithSecurityHeaders(securityConfig),
		security.WithRateLimit(globalRateLimiter),
		security.WithIPRateLimit(ipRateLimiter),
		request.WithTimeout(cfg.Server.RequestTimeout), // Timeout last
	))

	// Configure server
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		slogger.Info("Server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slogger.Error("HTTP server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	// Mark as ready to receive traffic
	healthCheck.SetReady(true)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	slogger.Info("Shutting down server", "signal", sig.String())

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.RequestTimeout)
	defer cancel()

	healthCheck.SetReady(false)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slogger.Error("HTTP server shutdown error", "error", err.Error())
	}

	slogger.Info("Server shutdown complete")
}

// slogFatal reports a startup failure before the configured logger exists
func slogFatal(msg string, err error) {
	logging.NewSlog("info", "json").Error(msg, "error", err.Error())
	os.Exit(1)
}

// Middleware chain helper - applies middleware in reverse order
// so they execute in the order they're passed
func chainMiddleware(handler http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}
