// Package metrics exposes the process-wide Prometheus collectors for the
// explorer. Collectors register against the default registry; Handler
// serves them on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts dashboard requests by route and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cellscope_http_requests_total",
		Help: "Dashboard HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	// RowsLoaded tracks the current row counts of the cached result tables.
	RowsLoaded = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cellscope_rows_loaded",
		Help: "Rows currently loaded per dataset and result table.",
	}, []string{"dataset", "table"})

	// FilterDuration observes how long store filter queries take.
	FilterDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cellscope_filter_duration_seconds",
		Help:    "Result store filter latency by table.",
		Buckets: prometheus.DefBuckets,
	}, []string{"table"})

	// ExportsTotal counts workbook downloads by kind.
	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cellscope_exports_total",
		Help: "Workbook exports served, by result table.",
	}, []string{"table"})

	// ReloadsTotal counts explicit catalog reloads.
	ReloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellscope_reloads_total",
		Help: "Explicit catalog reloads triggered via the admin endpoint.",
	})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// SetRowsLoaded records the per-dataset row counts after a load or reload.
func SetRowsLoaded(dataset string, dgeRows, gseaRows int) {
	RowsLoaded.WithLabelValues(dataset, "dge").Set(float64(dgeRows))
	RowsLoaded.WithLabelValues(dataset, "gsea").Set(float64(gseaRows))
}
