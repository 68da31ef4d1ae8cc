package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors updated by the map view and the HTTP API.
type Metrics struct {
	OperationsTotal *prometheus.CounterVec
	ProviderErrors  *prometheus.CounterVec
	RequestSeconds  *prometheus.HistogramVec
	InFlight        prometheus.Gauge
	HTTPRequests    *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		OperationsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "compass_operations_total",
			Help: "Total number of completed map view operations by outcome.",
		}, []string{"operation", "status"}),
		ProviderErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "compass_provider_errors_total",
			Help: "Total number of errors returned by geocoding, routing, scene and location providers.",
		}, []string{"operation"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "compass_provider_request_duration_seconds",
			Help:    "Duration of provider calls made by the map view.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		InFlight: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "compass_operations_in_flight",
			Help: "Current number of map view operations waiting on a provider.",
		}),
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "compass_http_requests_total",
			Help: "Total number of API requests by route and status code.",
		}, []string{"route", "code"}),
	}
}
