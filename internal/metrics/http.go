package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTP struct {
	service  string
	gatherer prometheus.Gatherer
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTP registers the request collectors on reg.
func NewHTTP(service string, reg *prometheus.Registry) *HTTP {
	m := &HTTP{
		service:  service,
		gatherer: reg,
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_requests_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "route"},
		),
	}
	reg.MustRegister(m.total, m.duration)
	return m
}

func (m *HTTP) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			} else {
				status = http.StatusInternalServerError
			}
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		m.total.WithLabelValues(m.service, c.Request().Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(m.service, c.Request().Method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

func (m *HTTP) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
