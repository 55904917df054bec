// Package metrics provides Prometheus instrumentation for vision-infra.
//
// All metrics are prefixed with "vision_infra_" to avoid naming collisions
// with other applications.
//
// # Metric Categories
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal: Counter of metrics server requests by method, path and status
//   - HTTPRequestDuration: Histogram of request latency by method and path
//   - HTTPRequestsInFlight: Gauge of requests being served
//
// ## Logging Metrics
//
//   - LogMessagesTotal: Counter of emitted lines by logger and level
//   - LogWriteErrorsTotal: Counter of failed sink writes by logger and sink
//
// ## Preprocessing Metrics
//
//   - FramesProcessedTotal: Counter of frames preprocessed, by status
//   - PreprocessDuration: Histogram of per-batch preprocessing time
//   - CurrentFPS: Gauge of the most recent frames-per-second estimate
//
// ## Filesystem Watch Metrics
//
//   - WatchEventsTotal: Counter of watched source events by file type
//   - WatchErrorsTotal: Counter of watcher errors
//
// ## Memory Metrics
//
//   - ProcessMemoryBytes: Gauge of memory obtained from the OS by the Go runtime
//   - SystemMemoryUsedBytes: Gauge of used system memory
//   - MemoryUsageRatio: Gauge of heap allocation as a ratio of the limit (0.0-1.0)
//   - MemoryPaused: Gauge indicating if preprocessing is paused due to memory pressure
//   - MemoryGCPauses: Counter of times preprocessing was paused for memory
//
// # Observers
//
// The logging and filesystem packages record activity through small
// observer interfaces so they do not import this package:
//
//	logging.SetObserver(metrics.NewLoggingObserver())
//	watcher, err := filesystem.NewWatcher(filesystem.WithObserver(metrics.NewWatchObserver()))
//
// # HTTP Exposure
//
// [NewRouter] returns a gorilla/mux router serving /metrics together with
// /healthz, /livez and /readyz probes.
package metrics
