package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "etl_pages_fetched_total",
			Help: "Catalog pages fetched successfully",
		},
	)
	PageFetchFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "etl_page_fetch_failures_total",
			Help: "Catalog pages skipped after a transport failure",
		},
	)
	ProductsHarvested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "etl_products_harvested_total",
			Help: "Raw product records collected across all pages",
		},
	)
	RecordsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "etl_records_skipped_total",
			Help: "Product cards dropped for missing mandatory fields",
		},
	)
	RowsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "etl_rows_dropped_total",
			Help: "Rows filtered out during transformation",
		},
	)
	SinkFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "etl_sink_failures_total",
			Help: "Load failures per sink",
		},
		[]string{"sink"},
	)
)

func Start(port string) {
	prometheus.MustRegister(
		PagesFetched,
		PageFetchFailures,
		ProductsHarvested,
		RecordsSkipped,
		RowsDropped,
		SinkFailures,
	)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}
