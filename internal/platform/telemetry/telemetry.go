// Package telemetry exposes Prometheus metrics for the list API: HTTP
// request counters and latency, query compile outcomes, and database pool
// gauges.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "practice"

// Compile results recorded on query_compile_total.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// defaultDurationBuckets are the request duration buckets in seconds.
var defaultDurationBuckets = []float64{
	0.010, 0.025, 0.050, 0.100, 0.250, 0.500, 1.0, 2.5, 5.0, 10.0,
}

// Metrics owns a registry and every collector registered on it.
type Metrics struct {
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	activeRequests prometheus.Gauge

	compiles      *prometheus.CounterVec
	compileErrors *prometheus.CounterVec

	poolConns *prometheus.GaugeVec
}

// New creates a Metrics on a fresh registry. Go runtime and process
// collectors are included when withRuntime is set.
func New(withRuntime bool) *Metrics {
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of handled HTTP requests.",
		}, []string{"method", "route", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   defaultDurationBuckets,
		}, []string{"method", "route"}),
		activeRequests: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Requests currently being served.",
		}),
		compiles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_compile_total",
			Help:      "List query compilations by entity and result.",
		}, []string{"entity", "result"}),
		compileErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_compile_errors_total",
			Help:      "Rejected list queries by entity and error kind.",
		}, []string{"entity", "kind"}),
		poolConns: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_pool_connections",
			Help:      "Database pool connections by state.",
		}, []string{"state"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveCompile records one compilation. kind is empty on success.
func (m *Metrics) ObserveCompile(entity, kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		m.compiles.WithLabelValues(entity, ResultOK).Inc()
		return
	}
	m.compiles.WithLabelValues(entity, ResultError).Inc()
	m.compileErrors.WithLabelValues(entity, kind).Inc()
}

// SetPoolConns records the database pool's connection counts.
func (m *Metrics) SetPoolConns(total, idle int32) {
	if m == nil {
		return
	}
	m.poolConns.WithLabelValues("total").Set(float64(total))
	m.poolConns.WithLabelValues("idle").Set(float64(idle))
	m.poolConns.WithLabelValues("acquired").Set(float64(total - idle))
}

// Middleware records request count and latency per route pattern.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.activeRequests.Inc()
			defer m.activeRequests.Dec()
			start := time.Now()

			err := next(c)
			if err != nil {
				// Let the error handler write the response so the status
				// below is the one the client sees.
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			route := routeLabel(c.Path(), req.URL.Path, status)

			m.requests.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
			m.duration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// UnmatchedRoute labels requests that matched no registered route.
const UnmatchedRoute = "unmatched"

// routeLabel keeps route labels bounded: raw paths never become labels.
func routeLabel(route, path string, status int) string {
	if route == "" {
		return UnmatchedRoute
	}
	if route == path && (status == http.StatusNotFound || status == http.StatusMethodNotAllowed) {
		return UnmatchedRoute
	}
	return route
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
