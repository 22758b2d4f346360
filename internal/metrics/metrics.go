package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors the service exports. Each instance owns its
// registry so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	DBConnectionsOpened  prometheus.Counter
	DBConnectionFailures prometheus.Counter
	DBOpenConnections    prometheus.Gauge
	DBQueryFailures      prometheus.Counter
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		DBConnectionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "db_connections_opened_total",
			Help: "Database sessions successfully established.",
		}),
		DBConnectionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "db_connection_failures_total",
			Help: "Database sessions that could not be established.",
		}),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Database sessions currently open.",
		}),
		DBQueryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "db_query_failures_total",
			Help: "Queries that failed on an established session.",
		}),
	}

	m.Registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDurationSeconds,
		m.DBConnectionsOpened,
		m.DBConnectionFailures,
		m.DBOpenConnections,
		m.DBQueryFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency. Paths are the matched route
// template so unknown URLs do not blow up label cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpRequestDurationSeconds.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
