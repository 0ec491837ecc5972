// Package metrics exposes Prometheus collectors for the HTTP layer and for
// book writes.
//
// Collectors live on a private registry, one per Metrics value.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OpCreate = "create"
	OpBulk   = "bulk"
	OpUpdate = "update"
	OpDelete = "delete"
	OpPurge  = "purge"
)

type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequestsTotal is labelled by method, route and status.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration buckets: 1ms, 10ms, 100ms, 500ms, 1s, 5s, 10s.
	HTTPRequestDuration *prometheus.HistogramVec

	HTTPRequestsInProgress prometheus.Gauge

	// BooksWrittenTotal counts records touched per operation.
	BooksWrittenTotal *prometheus.CounterVec

	BooksExportedTotal *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInProgress: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "Number of HTTP requests being served.",
			},
		),
		BooksWrittenTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "books_written_total",
				Help: "Books created, updated or deleted, by operation.",
			},
			[]string{"op"},
		),
		BooksExportedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "books_exported_total",
				Help: "Export downloads served, by format.",
			},
			[]string{"format"},
		),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// BooksWritten records n books touched by op. Safe on a nil receiver.
func (m *Metrics) BooksWritten(op string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.BooksWrittenTotal.WithLabelValues(op).Add(float64(n))
}

func (m *Metrics) Exported(format string) {
	if m == nil {
		return
	}
	m.BooksExportedTotal.WithLabelValues(format).Inc()
}

// Middleware records request count, latency and in-flight requests. The
// path label is the matched route, not the raw URL.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.HTTPRequestsInProgress.Inc()
		defer m.HTTPRequestsInProgress.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
