// Package monitoring provides Prometheus metrics for the MCP bridge.
package monitoring

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector manages Prometheus metrics for the service.
type MetricsCollector struct {
	serviceName string
	registry    *prometheus.Registry

	ToolCalls    *prometheus.CounterVec
	ToolDuration *prometheus.HistogramVec
	ToolsActive  prometheus.Gauge
	serviceInfo  *prometheus.GaugeVec
}

// NewMetricsCollector creates a new metrics collector for the service.
func NewMetricsCollector(serviceName, version, commit string) *MetricsCollector {
	// Sanitize service name for Prometheus (replace hyphens with underscores)
	sanitized := strings.ReplaceAll(serviceName, "-", "_")

	mc := &MetricsCollector{
		serviceName: sanitized,
		registry:    prometheus.NewRegistry(),
	}

	mc.ToolCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: sanitized + "_tool_calls_total",
			Help: "Total number of MCP tool calls",
		},
		[]string{"tool", "status"},
	)

	mc.ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    sanitized + "_tool_call_duration_seconds",
			Help:    "MCP tool call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool"},
	)

	mc.ToolsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: sanitized + "_tools_registered",
			Help: "Number of tools compiled from the GraphQL schema",
		},
	)

	mc.serviceInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: sanitized + "_service_info",
			Help: "Service version information",
		},
		[]string{"version", "commit"},
	)
	mc.serviceInfo.WithLabelValues(version, commit).Set(1)

	mc.registry.MustRegister(mc.ToolCalls, mc.ToolDuration, mc.ToolsActive, mc.serviceInfo)

	return mc
}

// RecordToolCall records one tool invocation.
func (mc *MetricsCollector) RecordToolCall(tool, status string, duration time.Duration) {
	mc.ToolCalls.WithLabelValues(tool, status).Inc()
	mc.ToolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// Handler returns an HTTP handler exposing the metrics registry.
func (mc *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{})
}
