// Package metrics exposes Prometheus collectors for the pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	embeddingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lexikb",
		Name:      "embedding_requests_total",
		Help:      "Embedding provider calls by outcome.",
	}, []string{"status"})

	embeddingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lexikb",
		Name:      "embedding_duration_seconds",
		Help:      "Latency of embedding provider calls.",
		Buckets:   prometheus.DefBuckets,
	})

	seedRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lexikb",
		Name:      "seed_runs_total",
		Help:      "Completed seed runs by outcome.",
	}, []string{"status"})

	chunksStored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lexikb",
		Name:      "chunks_stored_total",
		Help:      "Chunks persisted across all seed runs.",
	})
)

// ObserveEmbedding records one embedding provider call.
func ObserveEmbedding(ok bool, d time.Duration) {
	status := "ok"
	if !ok {
		status = "error"
	}
	embeddingRequests.WithLabelValues(status).Inc()
	embeddingDuration.Observe(d.Seconds())
}

// ObserveSeedRun records a finished seed run and the chunks it persisted.
func ObserveSeedRun(ok bool, chunks int) {
	status := "ok"
	if !ok {
		status = "error"
	}
	seedRuns.WithLabelValues(status).Inc()
	chunksStored.Add(float64(chunks))
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
