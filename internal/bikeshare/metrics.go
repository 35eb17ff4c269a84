package bikeshare

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	fetchCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bikeflow_dataset_fetch_count",
		Help: "Number of times a dataset was fetched successfully",
	}, []string{"dataset"})
	fetchErrorCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bikeflow_dataset_fetch_error_count",
		Help: "Number of times fetching or parsing a dataset failed",
	}, []string{"dataset"})
	datasetSize = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bikeflow_dataset_records",
		Help: "Number of records in the current snapshot",
	}, []string{"dataset"})
	lastRefresh = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bikeflow_dataset_last_refresh_timestamp_seconds",
		Help: "Unix time the current snapshot was published",
	})
)

func init() {
	prometheus.MustRegister(fetchCount, fetchErrorCount, datasetSize, lastRefresh)
}
