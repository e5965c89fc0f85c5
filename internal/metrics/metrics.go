// Package metrics implements the observability hooks with Prometheus
// collectors and serves them over HTTP.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/mcptools/pkg/observability"
)

const namespace = "mcptools"

// Metrics holds every collector on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	toolCalls     *prometheus.CounterVec
	toolDuration  *prometheus.HistogramVec
	toolsInFlight *prometheus.GaugeVec

	parsedEntities prometheus.Histogram
	parseIssues    prometheus.Counter
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderBytes    *prometheus.HistogramVec

	cacheOps *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

// New creates the collectors, including the Go runtime and process
// collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "tool_calls_total",
			Help: "MCP tool calls by endpoint, tool and outcome.",
		}, []string{"endpoint", "tool", "outcome"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "tool_duration_seconds",
			Help:    "MCP tool call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint", "tool"}),
		toolsInFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "tools_in_flight",
			Help: "MCP tool calls currently running.",
		}, []string{"endpoint"}),
		parsedEntities: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "diagram_entities",
			Help:    "Entities per decoded company structure.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		parseIssues: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "diagram_parse_issues_total",
			Help: "Input values degraded to defaults while decoding.",
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "renders_total",
			Help: "Rendered artifacts by format and outcome.",
		}, []string{"format", "outcome"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "render_duration_seconds",
			Help:    "Render latency by format.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		renderBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "render_bytes",
			Help:    "Rendered artifact size by format.",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}, []string{"format"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_operations_total",
			Help: "Cache operations by key type and result.",
		}, []string{"key_type", "op"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "upstream_requests_total",
			Help: "Upstream HTTP responses by method, host and status.",
		}, []string{"method", "host", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "upstream_request_duration_seconds",
			Help:    "Upstream HTTP latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "host"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "upstream_errors_total",
			Help: "Upstream HTTP requests that failed without a response.",
		}, []string{"method", "host"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.toolCalls, m.toolDuration, m.toolsInFlight,
		m.parsedEntities, m.parseIssues, m.renders, m.renderDuration, m.renderBytes,
		m.cacheOps,
		m.httpRequests, m.httpDuration, m.httpErrors,
	)
	return m
}

// Install registers m as every observability hook.
func (m *Metrics) Install() {
	observability.SetToolHooks(m)
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnToolStart(_ context.Context, endpoint, _ string) {
	m.toolsInFlight.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) OnToolComplete(_ context.Context, endpoint, tool string, d time.Duration, err error) {
	m.toolsInFlight.WithLabelValues(endpoint).Dec()
	m.toolCalls.WithLabelValues(endpoint, tool, outcome(err)).Inc()
	m.toolDuration.WithLabelValues(endpoint, tool).Observe(d.Seconds())
}

func (m *Metrics) OnParse(_ context.Context, entities, issues int) {
	m.parsedEntities.Observe(float64(entities))
	m.parseIssues.Add(float64(issues))
}

func (m *Metrics) OnRenderStart(context.Context, string, int) {}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	m.renders.WithLabelValues(format, outcome(err)).Inc()
	m.renderDuration.WithLabelValues(format).Observe(d.Seconds())
	if err == nil {
		m.renderBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
}

func (m *Metrics) OnCacheInvalidate(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "invalidate").Inc()
}

// Upstream paths carry table ids and stay out of the labels.

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, host, _ string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, host, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, method, host, _ string, _ error) {
	m.httpErrors.WithLabelValues(method, host).Inc()
}

var (
	_ observability.ToolHooks     = (*Metrics)(nil)
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
