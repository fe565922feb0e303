package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Global metric vectors, registered on the default registry via promauto.

var (
	// HttpRequestsTotal counts processed HTTP requests, labeled by method,
	// path, and status code.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviekg_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HttpRequestDuration measures server response time. Buckets stretch
	// from sub-millisecond graph lookups to multi-second LLM generations.
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviekg_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	// QueryOperationsTotal counts executed graph query operations, labeled
	// by operation name and outcome.
	QueryOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviekg_query_operations_total",
			Help: "Total number of graph query operations executed",
		},
		[]string{"operation", "outcome"},
	)

	// GraphNodes tracks the number of loaded nodes per node type.
	GraphNodes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moviekg_graph_nodes",
			Help: "Number of loaded graph nodes by type",
		},
		[]string{"type"},
	)

	// GraphEdges tracks the total number of loaded edges.
	GraphEdges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviekg_graph_edges",
			Help: "Total number of loaded graph edges",
		},
	)
)
