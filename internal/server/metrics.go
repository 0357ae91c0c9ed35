package server

import "github.com/prometheus/client_golang/prometheus"

const (
	MetricUploads        = "uploads_total"
	MetricRowsNormalized = "rows_normalized_total"
	MetricExports        = "exports_total"
	MetricSessions       = "sessions_active"
)

var CounterUploads = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "normalizer",
		Name:      MetricUploads,
		Help:      "Vendor files uploaded, by result.",
	},
	[]string{
		"result",
	},
)

var CounterRowsNormalized = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "normalizer",
		Name:      MetricRowsNormalized,
		Help:      "Rows written by CSV exports.",
	},
)

var CounterExports = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "normalizer",
		Name:      MetricExports,
		Help:      "Normalized CSV downloads.",
	},
)

var GaugeSessions = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "normalizer",
		Name:      MetricSessions,
		Help:      "Upload sessions currently held in memory.",
	},
)

func init() {
	prometheus.MustRegister(CounterUploads)
	prometheus.MustRegister(CounterRowsNormalized)
	prometheus.MustRegister(CounterExports)
	prometheus.MustRegister(GaugeSessions)
}
