// Package metrics exposes the Prometheus instrumentation for the backend
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors, registered on a private registry so
// tests can create instances without collector name collisions.
type Metrics struct {
	registry *prometheus.Registry

	RequestCount    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	LLMDuration     *prometheus.HistogramVec
	LLMFailures     *prometheus.CounterVec
}

// New creates and registers the service collectors
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "backend_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status_code"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backend_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.01, 0.03, 0.05, 0.1, 0.2, 0.5, 1, 2, 5},
		}, []string{"method", "path"}),
		LLMDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backend_llm_operation_duration_seconds",
			Help:    "LLM operation latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 20, 40},
		}, []string{"operation"}),
		LLMFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "backend_llm_operation_failures_total",
			Help: "Total number of LLM operation failures",
		}, []string{"operation"}),
	}
}

// Handler returns the /metrics endpoint handler
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Middleware records request count and latency per route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RequestCount.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// ObserveLLM records one LLM operation
func (m *Metrics) ObserveLLM(operation string, duration time.Duration, err error) {
	m.LLMDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.LLMFailures.WithLabelValues(operation).Inc()
	}
}
