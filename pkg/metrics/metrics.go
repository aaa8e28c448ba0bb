// Package metrics exposes request and inventory gauges to Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reien/pkg/inventory"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reien_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"method", "route", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reien_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	plotsTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "reien_plots_total",
		Help: "Total plots per period in the last loaded snapshot",
	}, []string{"period"})

	plotsUsed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "reien_plots_used",
		Help: "Used plots per period in the last loaded snapshot",
	}, []string{"period"})

	plotsRemaining = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "reien_plots_remaining",
		Help: "Remaining plots per period in the last loaded snapshot",
	}, []string{"period"})

	discrepancies = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reien_inventory_discrepancies",
		Help: "Ledger rows that do not add up in the last loaded snapshot",
	})
)

// Middleware records one counter and one latency sample per request, keyed by
// the route pattern rather than the raw path.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// Handler serves /metrics.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

// ObserveDataset refreshes the inventory gauges.
func ObserveDataset(ds *inventory.Dataset) {
	for _, s := range ds.AllPeriodSummaries() {
		p := string(s.Period)
		plotsTotal.WithLabelValues(p).Set(float64(s.TotalCount))
		plotsUsed.WithLabelValues(p).Set(float64(s.UsedCount))
		plotsRemaining.WithLabelValues(p).Set(float64(s.RemainingCount))
	}
	discrepancies.Set(float64(len(ds.Discrepancies())))
}
