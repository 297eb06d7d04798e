package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	registry *prometheus.Registry

	// Outbound API call rate per endpoint. Watch for: error vs success ratio.
	APICallsTotal *prometheus.CounterVec

	// Outbound API latency per endpoint. Watch for: p95 > 2s (upstream degradation).
	APIDuration *prometheus.HistogramVec

	// Outbound API errors by category (timeout, network, status, parsing).
	APIErrorsTotal *prometheus.CounterVec

	// Geocode cache lookups per backend. Hit rate = hit/(hit+miss).
	GeocodeCacheTotal *prometheus.CounterVec

	// Completed jobs by result code (0, input, params, http, api).
	JobsTotal *prometheus.CounterVec
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	APICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apiCallsTotal",
			Help: "Total number of outbound API calls",
		},
		[]string{"endpoint", "status"},
	)
	APIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "apiCallDurationSeconds",
			Help:    "Outbound API call latency in seconds (per call)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
	APIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apiErrorsTotal",
			Help: "Total number of outbound API call errors by category",
		},
		[]string{"endpoint", "category"},
	)
	GeocodeCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocodeCacheTotal",
			Help: "Geocode cache lookups by backend and result",
		},
		[]string{"backend", "result"},
	)
	JobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobsTotal",
			Help: "Completed jobs by result code",
		},
		[]string{"code"},
	)

	registry.MustRegister(
		APICallsTotal,
		APIDuration,
		APIErrorsTotal,
		GeocodeCacheTotal,
		JobsTotal,
	)
}

// Registry exposes the plugin registry for the textfile flush.
func Registry() *prometheus.Registry {
	return registry
}
