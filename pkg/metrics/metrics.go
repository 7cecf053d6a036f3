// Package metrics provides the centralized Prometheus metrics registry
// for the gallery loader. All metrics are defined in their respective
// packages (gallery, httpstore, cache) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the gallery loader.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Session Metrics (pkg/gallery):
//   - gallery_batches_total{outcome} (Counter): Batch load attempts by outcome
//     (success, error, exhausted, skipped)
//   - gallery_batch_duration_seconds (Histogram): Window fan-out duration
//   - gallery_records_loaded_total (Counter): Records appended to result lists
//   - gallery_duplicates_filtered_total (Counter): Fetched records dropped by dedup
//   - gallery_sessions_started_total (Counter): Sessions started
//
// Cache Metrics (pkg/cache):
//   - gallery_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - gallery_cache_misses_total (Counter): Cache misses
//   - gallery_304_responses_total (Counter): 304 Not Modified responses
//   - gallery_conditional_requests_total (Counter): Conditional requests sent
//   - gallery_cache_errors_total{operation} (Counter): Cache operation errors
//
// Store Client Metrics (pkg/store/httpstore):
//   - gallery_store_requests_total{operation, status} (Counter): Requests by
//     operation (list_ids, get_record) and HTTP status
//   - gallery_store_request_duration_seconds{operation} (Histogram): Request duration
//   - gallery_store_errors_total{class} (Counter): Errors by class
//     (client, server, rate_limit, network)
//   - gallery_store_retries_total{error_class} (Counter): Retry attempts
//   - gallery_store_retry_backoff_seconds{error_class} (Histogram): Backoff duration
//   - gallery_store_retry_exhausted_total{error_class} (Counter): Exhausted retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(gallery_cache_hits_total[5m])) /
//   (sum(rate(gallery_cache_hits_total[5m])) + sum(rate(gallery_cache_misses_total[5m])))
//
//   # Batch Failure Rate
//   rate(gallery_batches_total{outcome="error"}[5m]) /
//   rate(gallery_batches_total[5m])
//
//   # P95 Batch Latency
//   histogram_quantile(0.95, rate(gallery_batch_duration_seconds_bucket[5m]))
//
//   # Store Error Rate by Class
//   rate(gallery_store_errors_total[5m])
