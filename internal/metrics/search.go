package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripdex",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"status"}, // "ok" / "degraded" / "embed_error"
	)

	SearchStoreFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tripdex",
			Name:      "search_store_failures_total",
			Help:      "Candidate store failures degraded to empty result sets",
		},
	)

	SearchCandidatesScored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tripdex",
			Name:      "search_candidates_scored_total",
			Help:      "Total ANN candidates run through soft scoring",
		},
	)

	SearchHardFilterTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripdex",
			Name:      "search_hard_filter_total",
			Help:      "Hard filter field selected per search",
		},
		[]string{"field"}, // attribute name or "none"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchStoreFailuresTotal)
	prometheus.MustRegister(SearchCandidatesScored)
	prometheus.MustRegister(SearchHardFilterTotal)
	searchMetricsRegistered = true
}
