// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of HTTP requests by resource and status",
		},
		[]string{"resource", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "portal_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"resource"},
	)

	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_searches_total",
			Help: "Total number of comparison searches by status",
		},
		[]string{"status"},
	)

	SearchMembersSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_search_members_skipped_total",
			Help: "Family members skipped during search due to validation errors",
		},
	)

	StoreFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_store_failures_total",
			Help: "Override store failures by operation",
		},
		[]string{"operation"},
	)
)
