package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inboxsift/inboxsift/internal/instrumentation"
)

const (
	// DefaultMetricsAddr is the default bind address for the metrics server.
	DefaultMetricsAddr = ":9090"

	// DefaultShutdownTimeout bounds graceful shutdown of either server.
	DefaultShutdownTimeout = 30 * time.Second

	metricsReadTimeout  = 10 * time.Second
	metricsWriteTimeout = 10 * time.Second
	metricsIdleTimeout  = 60 * time.Second
)

// MetricsServer exposes Prometheus metrics on a dedicated port, keeping
// operational data off the API listener.
type MetricsServer struct {
	httpServer *http.Server
	logger     *slog.Logger
	addr       string
}

// NewMetricsServer creates a metrics server backed by the given
// instrumentation provider. The provider must be enabled: the OpenTelemetry
// prometheus exporter registers its metrics with the default Prometheus
// registry, which is what /metrics serves.
func NewMetricsServer(addr string, provider *instrumentation.Provider, logger *slog.Logger) (*MetricsServer, error) {
	if addr == "" {
		addr = DefaultMetricsAddr
	}
	if provider == nil || !provider.Enabled() {
		return nil, fmt.Errorf("metrics server requires an enabled instrumentation provider")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &MetricsServer{addr: addr, logger: logger}, nil
}

// Start blocks serving /metrics until Shutdown or a listener error.
func (s *MetricsServer) Start() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadTimeout,
		WriteTimeout:      metricsWriteTimeout,
		IdleTimeout:       metricsIdleTimeout,
	}

	s.logger.Info("starting metrics server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("shutting down metrics server")
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the configured bind address.
func (s *MetricsServer) Addr() string {
	return s.addr
}
