package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry    *prometheus.Registry
	commands    *prometheus.CounterVec
	signals     *prometheus.CounterVec
	allocated   prometheus.Gauge
	limit       prometheus.Gauge
	groups      prometheus.Gauge
	subscribers prometheus.Gauge
	duration    *prometheus.HistogramVec
}

// newMetrics registers on a private registry so several services can live
// in one process (tests do this).
func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &metrics{
		registry: reg,
		commands: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fsplan_commands_total",
			Help: "Commands applied, by op and outcome.",
		}, []string{"op", "outcome"}),
		signals: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fsplan_limit_signals_total",
			Help: "Soft-cap transitions, by signal.",
		}, []string{"signal"}),
		allocated: f.NewGauge(prometheus.GaugeOpts{
			Name: "fsplan_allocated_total",
			Help: "Current allocated total in raw currency.",
		}),
		limit: f.NewGauge(prometheus.GaugeOpts{
			Name: "fsplan_budget_limit",
			Help: "Current budget limit in raw currency.",
		}),
		groups: f.NewGauge(prometheus.GaugeOpts{
			Name: "fsplan_custom_groups",
			Help: "Number of custom groups.",
		}),
		subscribers: f.NewGauge(prometheus.GaugeOpts{
			Name: "fsplan_stream_subscribers",
			Help: "Open event stream connections.",
		}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fsplan_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// observeState updates the gauges. Floats are for dashboards only.
func (m *metrics) observeState(st State) {
	m.allocated.Set(st.Total.InexactFloat64())
	m.limit.Set(st.Limit.InexactFloat64())
	m.groups.Set(float64(st.CustomGroups))
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
