package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
	httpErrorsTotal    *prometheus.CounterVec
	verificationsTotal *prometheus.CounterVec
	pointsAwardedTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ecotrack_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ecotrack_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ecotrack_http_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		verificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ecotrack_verifications_total",
			Help: "Recycling log verification decisions by outcome.",
		}, []string{"outcome"})

		pointsAwardedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecotrack_points_awarded_total",
			Help: "Eco-points awarded through approved recycling logs.",
		})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, httpErrorsTotal, verificationsTotal, pointsAwardedTotal)
	})
}

// HTTPRequests exposes the counter for served requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for served requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// Verifications exposes the counter for verification outcomes.
func Verifications() *prometheus.CounterVec {
	RegisterMetrics()
	return verificationsTotal
}

// PointsAwarded exposes the counter for awarded eco-points.
func PointsAwarded() prometheus.Counter {
	RegisterMetrics()
	return pointsAwardedTotal
}
