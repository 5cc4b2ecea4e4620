// Package metrics defines the Prometheus collectors exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
	StageRetrieval  = "retrieval"
	StageGeneration = "generation"
)

var (
	// ChatRequests counts chat requests by outcome label
	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "closedrag",
			Name:      "chat_requests_total",
			Help:      "Total number of chat requests by outcome",
		},
		[]string{"outcome"},
	)

	// RetrievalFailures counts searches that failed
	RetrievalFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "closedrag",
			Name:      "retrieval_failures_total",
			Help:      "Search calls that failed and were answered without context",
		},
	)

	// GenerationFailures counts completions that failed
	GenerationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "closedrag",
			Name:      "generation_failures_total",
			Help:      "Completion calls that failed and were answered with an apology",
		},
	)

	// RetrievedDocuments records how many documents each search returned
	RetrievedDocuments = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "closedrag",
			Name:      "retrieved_documents",
			Help:      "Number of documents retrieved per chat request",
			Buckets:   []float64{0, 1, 2, 3, 5, 10},
		},
	)

	// UpstreamDuration records search and completion latency by stage
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "closedrag",
			Name:      "upstream_duration_seconds",
			Help:      "Duration of upstream calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
)
