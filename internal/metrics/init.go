package metrics

import "vision-infra/internal/logging"

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics(loggers ...string) {
	loggers = append([]string{logging.DefaultLoggerName}, loggers...)
	for _, name := range loggers {
		for _, level := range logging.Levels {
			LogMessagesTotal.WithLabelValues(name, level.String())
		}
		for _, sink := range []string{"stdout", "stderr", "file"} {
			LogWriteErrorsTotal.WithLabelValues(name, sink)
		}
	}

	for _, status := range []string{"success", "error"} {
		FramesProcessedTotal.WithLabelValues(status)
	}

	for _, t := range []string{"image", "video", "model", "other"} {
		WatchEventsTotal.WithLabelValues(t)
	}
}
