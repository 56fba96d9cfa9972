package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingest Prometheus metrics.
var (
	IngestFragmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripdex",
			Name:      "ingest_fragments_total",
			Help:      "Fragments written to the index",
		},
		[]string{"op"}, // "upsert" / "batch"
	)

	IngestDeletesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripdex",
			Name:      "ingest_deletes_total",
			Help:      "Fragments removed from the index",
		},
		[]string{"op"}, // "delete" / "delete_source" / "clear"
	)
)

var ingestMetricsRegistered bool

// RegisterIngestMetrics registers Prometheus ingest metrics. Must be called once from main.
func RegisterIngestMetrics() {
	if ingestMetricsRegistered {
		return
	}
	prometheus.MustRegister(IngestFragmentsTotal)
	prometheus.MustRegister(IngestDeletesTotal)
	ingestMetricsRegistered = true
}
