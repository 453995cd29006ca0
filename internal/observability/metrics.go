package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	apiRequestsTotal     *prometheus.CounterVec
	apiLatencySeconds    *prometheus.HistogramVec
	apiErrorsTotal       *prometheus.CounterVec
	storeMutationsTotal  *prometheus.CounterVec
	viewComputeSeconds   *prometheus.HistogramVec
	viewCacheTotal       *prometheus.CounterVec
	changeClientsActive  prometheus.Gauge
	changeEventsTotal    *prometheus.CounterVec
	storeRevisionCurrent prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_api_requests_total",
			Help: "Total number of CRM API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crm_api_latency_seconds",
			Help:    "Latency distribution for CRM API requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_api_errors_total",
			Help: "Total number of error responses returned by CRM endpoints.",
		}, []string{"method", "route", "status"})

		storeMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_store_mutations_total",
			Help: "Store mutations by action and whether they changed anything.",
		}, []string{"action", "applied"})

		viewComputeSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crm_view_compute_seconds",
			Help:    "Time spent deriving a view from a store snapshot.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"view"})

		viewCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_view_cache_total",
			Help: "View cache lookups by view and result.",
		}, []string{"view", "result"})

		changeClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crm_change_feed_clients",
			Help: "Connected change feed subscribers.",
		})

		changeEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_change_events_total",
			Help: "Change events delivered to the feed by origin.",
		}, []string{"origin"})

		storeRevisionCurrent = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crm_store_revision",
			Help: "Current revision of the in-memory store.",
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			storeMutationsTotal,
			viewComputeSeconds,
			viewCacheTotal,
			changeClientsActive,
			changeEventsTotal,
			storeRevisionCurrent,
		)
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

// StoreMutations exposes the counter for store mutations.
func StoreMutations() *prometheus.CounterVec {
	RegisterMetrics()
	return storeMutationsTotal
}

// ViewCompute exposes the histogram for view derivation time.
func ViewCompute() *prometheus.HistogramVec {
	RegisterMetrics()
	return viewComputeSeconds
}

// ViewCache exposes the counter for view cache lookups.
func ViewCache() *prometheus.CounterVec {
	RegisterMetrics()
	return viewCacheTotal
}

// ChangeClientsActive exposes the gauge of connected feed subscribers.
func ChangeClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return changeClientsActive
}

// ChangeEvents exposes the counter for delivered change events.
func ChangeEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return changeEventsTotal
}

// StoreRevision exposes the gauge tracking the store revision.
func StoreRevision() prometheus.Gauge {
	RegisterMetrics()
	return storeRevisionCurrent
}
