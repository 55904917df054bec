package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vision_infra_http_requests_total",
			Help: "Total number of HTTP requests to the metrics server",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vision_infra_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vision_infra_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Logging metrics
var (
	LogMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vision_infra_log_messages_total",
			Help: "Total number of log lines emitted",
		},
		[]string{"logger", "level"},
	)

	LogWriteErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vision_infra_log_write_errors_total",
			Help: "Total number of failed log sink writes",
		},
		[]string{"logger", "sink"}, // "stdout", "stderr", "file"
	)
)

// Preprocessing metrics
var (
	FramesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vision_infra_frames_processed_total",
			Help: "Total number of frames preprocessed",
		},
		[]string{"status"}, // "success", "error"
	)

	PreprocessDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vision_infra_preprocess_duration_seconds",
			Help:    "Time spent preprocessing one batch of frames",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	CurrentFPS = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vision_infra_current_fps",
			Help: "Most recent frames-per-second estimate",
		},
	)
)

// Filesystem watch metrics
var (
	WatchEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vision_infra_watch_events_total",
			Help: "Total number of source files seen by the directory watcher",
		},
		[]string{"type"}, // mediatypes.FileType
	)

	WatchErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vision_infra_watch_errors_total",
			Help: "Total number of directory watcher errors",
		},
	)
)

// Memory metrics
var (
	ProcessMemoryBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vision_infra_process_memory_bytes",
			Help: "Memory obtained from the OS by the Go runtime",
		},
	)

	SystemMemoryUsedBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vision_infra_system_memory_used_bytes",
			Help: "Used system memory, 0 where unavailable",
		},
	)

	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vision_infra_memory_usage_ratio",
			Help: "Heap allocation as a ratio of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vision_infra_memory_paused",
			Help: "1 while preprocessing is paused for memory pressure",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vision_infra_memory_gc_pauses_total",
			Help: "Total number of times preprocessing paused for memory pressure",
		},
	)
)
