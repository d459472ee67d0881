package http

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus instruments. Each server owns
// its registry so parallel test servers never collide.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	meetingsProcessed prometheus.Counter
	tasksExtracted    prometheus.Counter
}

// NewMetrics creates and registers the server metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskd_http_requests_total",
			Help: "HTTP requests by method, endpoint, and status code.",
		}, []string{"method", "endpoint", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskd_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds by method and endpoint.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "endpoint"}),
		meetingsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskd_meetings_processed_total",
			Help: "Meetings successfully processed into tasks.",
		}),
		tasksExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskd_tasks_extracted_total",
			Help: "Tasks extracted across all processed meetings.",
		}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.meetingsProcessed,
		m.tasksExtracted,
	)
	return m
}

// Middleware records request count and duration per route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			// c.Path() is the route pattern, so parameterized routes
			// stay at one label value each.
			endpoint := c.Path()
			if endpoint == "" {
				endpoint = "/"
			}
			method := c.Request().Method

			m.requestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(c.Response().Status)).Inc()
			m.requestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// RecordRun counts one processed meeting and its extracted tasks.
func (m *Metrics) RecordRun(tasks int) {
	m.meetingsProcessed.Inc()
	m.tasksExtracted.Add(float64(tasks))
}
