package restapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "bikeflow_http_request_duration_seconds",
	Help:    "Latency of API requests by handler",
	Buckets: prometheus.DefBuckets,
}, []string{"handler", "code", "method"})

func init() {
	prometheus.MustRegister(requestDuration)
}

// instrument records request latency under a fixed handler name, so station
// ids in the path do not become label values.
func instrument(name string, next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(
		requestDuration.MustCurryWith(prometheus.Labels{"handler": name}),
		next,
	)
}
