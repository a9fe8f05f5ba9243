// Package telemetry exposes Prometheus metrics for the server
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors
type Metrics struct {
	ToolInvocations *prometheus.CounterVec
	ToolDuration    *prometheus.HistogramVec
	GraphRequests   *prometheus.CounterVec
	SnapshotFetches *prometheus.CounterVec
}

// NewMetrics registers the server collectors on a fresh registry
func NewMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		ToolInvocations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ads_mcp_tool_invocations_total",
			Help: "Tool invocations by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		ToolDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ads_mcp_tool_duration_seconds",
			Help:    "Tool execution duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
		GraphRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ads_mcp_graph_requests_total",
			Help: "Ads archive API requests by outcome.",
		}, []string{"outcome"}),
		SnapshotFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ads_mcp_snapshot_fetches_total",
			Help: "Snapshot page fetches by outcome.",
		}, []string{"outcome"}),
	}
}

// ObserveTool records one tool invocation
func (m *Metrics) ObserveTool(tool string, start time.Time, failed bool) {
	if m == nil {
		return
	}
	m.ToolInvocations.WithLabelValues(tool, outcomeLabel(failed)).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(time.Since(start).Seconds())
}

// ObserveGraphRequest records one ads archive request
func (m *Metrics) ObserveGraphRequest(failed bool) {
	if m == nil {
		return
	}
	m.GraphRequests.WithLabelValues(outcomeLabel(failed)).Inc()
}

// ObserveSnapshotFetch records one snapshot page fetch
func (m *Metrics) ObserveSnapshotFetch(failed bool) {
	if m == nil {
		return
	}
	m.SnapshotFetches.WithLabelValues(outcomeLabel(failed)).Inc()
}

func outcomeLabel(failed bool) string {
	if failed {
		return "error"
	}
	return "success"
}

// Server serves the /metrics endpoint on its own port
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates the metrics HTTP server
func NewServer(port int, registry *prometheus.Registry, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger.With("component", "telemetry"),
	}
}

// Start serves metrics until the server is shut down
func (s *Server) Start() {
	go func() {
		s.logger.Info("telemetry endpoint listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("telemetry server stopped", "error", err)
		}
	}()
}

// Shutdown stops the metrics server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
