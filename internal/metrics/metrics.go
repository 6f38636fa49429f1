package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "firedash_http_requests_total",
			Help: "Total HTTP requests served",
		},
		[]string{"path", "status"},
	)

	AggregationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "firedash_aggregations_total",
			Help: "Total region/year aggregate computations",
		},
		[]string{"empty"},
	)

	ChartRenderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "firedash_chart_render_latency_seconds",
			Help:    "Chart PNG render latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"chart"},
	)

	DatasetRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "firedash_dataset_records",
			Help: "Number of fire records currently loaded",
		},
	)
)
