package gallery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for gallery session operations.
var (
	batchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_batches_total",
		Help: "Total batch load attempts by outcome",
	}, []string{"outcome"}) // "success", "error", "exhausted", "skipped"

	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gallery_batch_duration_seconds",
		Help:    "Window fan-out duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	recordsLoadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gallery_records_loaded_total",
		Help: "Total records appended to session result lists",
	})

	duplicatesFilteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gallery_duplicates_filtered_total",
		Help: "Total fetched records dropped by id deduplication",
	})

	sessionsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gallery_sessions_started_total",
		Help: "Total gallery sessions started",
	})
)
