package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	apiRequestsTotal    *prometheus.CounterVec
	apiLatencySeconds   *prometheus.HistogramVec
	apiErrorsTotal      *prometheus.CounterVec
	uploadLatency       prometheus.Histogram
	uploadRejectedTotal *prometheus.CounterVec
	reportCacheTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voxera_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voxera_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voxera_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		uploadLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "voxera_upload_duration_seconds",
			Help:    "Latency distribution for audio uploads.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		})

		uploadRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voxera_upload_rejected_total",
			Help: "Number of audio uploads rejected before storage.",
		}, []string{"reason"})

		reportCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voxera_report_cache_total",
			Help: "Report listing cache hits and misses.",
		}, []string{"result"})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal, uploadLatency, uploadRejectedTotal, reportCacheTotal)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// UploadLatency exposes the histogram for audio upload duration.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatency
}

// UploadRejected exposes the counter for rejected uploads.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejectedTotal
}

// ReportCache exposes the counter for report listing cache outcomes.
func ReportCache() *prometheus.CounterVec {
	RegisterMetrics()
	return reportCacheTotal
}
