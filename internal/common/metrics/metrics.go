// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests by route and status",
		},
		[]string{"route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	JobQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_queries_total",
			Help: "Total number of job store queries",
		},
		[]string{"backend", "filtered"},
	)

	JobQueryResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "job_query_results",
			Help:    "Number of jobs returned per listing query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	JobCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_cache_lookups_total",
			Help: "Job cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)
