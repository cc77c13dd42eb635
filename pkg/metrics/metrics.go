// Package metrics provides the centralized Prometheus metrics registry for
// the crawler. All metrics are defined in their respective packages (client,
// cache, catalog) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the crawler.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - crawler_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - crawler_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - crawler_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/client):
//   - crawler_retries_total{error_class} (Counter): Retry attempts by error class
//   - crawler_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - crawler_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Cache Metrics (pkg/cache):
//   - crawler_cache_hits_total (Counter): Response cache hits
//   - crawler_cache_misses_total (Counter): Response cache misses
//   - crawler_cache_errors_total{operation} (Counter): Cache operation errors
//
// Pipeline Metrics (pkg/catalog):
//   - crawler_detail_batches_total (Counter): Detail batches fetched
//   - crawler_games_merged (Gauge): Merged records accumulated in the current run
//
// Example Prometheus Queries:
//
//   # Request Error Rate
//   rate(crawler_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(crawler_request_duration_seconds_bucket[5m]))
//
//   # Cache Hit Rate
//   sum(rate(crawler_cache_hits_total[5m])) /
//   (sum(rate(crawler_cache_hits_total[5m])) + sum(rate(crawler_cache_misses_total[5m])))
