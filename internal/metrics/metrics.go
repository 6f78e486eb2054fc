// Package metrics holds the Prometheus collectors shared by the HTTP API and
// the upstream clients.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names.
const (
	MetricHTTPRequestsTotal       = "youbuddy_http_requests_total"
	MetricHTTPRequestDuration     = "youbuddy_http_request_duration_seconds"
	MetricUpstreamRequestsTotal   = "youbuddy_upstream_requests_total"
	MetricUpstreamRequestDuration = "youbuddy_upstream_request_duration_seconds"
	MetricCacheLookupsTotal       = "youbuddy_cache_lookups_total"
)

// Metrics contains the collectors. All methods are safe for concurrent use
// and are no-ops on a nil receiver.
type Metrics struct {
	registry        *prometheus.Registry
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	upstream        *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.05, 0.25, 1, 5, 30, 120},
			},
			[]string{"method", "path"},
		),
		upstream: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricUpstreamRequestsTotal,
				Help: "Total number of outbound calls by upstream endpoint and status",
			},
			[]string{"upstream", "endpoint", "status"},
		),
		upstreamLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricUpstreamRequestDuration,
				Help:    "Outbound call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"upstream", "endpoint"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricCacheLookupsTotal,
				Help: "Response cache lookups by kind and result",
			},
			[]string{"kind", "result"},
		),
	}
	m.registry.MustRegister(m.httpRequests, m.httpDuration, m.upstream, m.upstreamLatency, m.cacheLookups)
	return m
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// ObserveUpstream records one outbound call. status 0 means a transport error.
func (m *Metrics) ObserveUpstream(upstream, endpoint string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := strconv.Itoa(status)
	if status == 0 {
		label = "error"
	}
	m.upstream.WithLabelValues(upstream, endpoint, label).Inc()
	m.upstreamLatency.WithLabelValues(upstream, endpoint).Observe(d.Seconds())
}

// ObserveCache records a cache hit or miss.
func (m *Metrics) ObserveCache(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(kind, result).Inc()
}
