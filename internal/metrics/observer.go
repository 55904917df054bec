package metrics

import (
	"vision-infra/internal/filesystem"
	"vision-infra/internal/logging"
	"vision-infra/internal/mediatypes"
)

// loggingObserver implements logging.Observer using the Prometheus
// counters declared in metrics.go.
type loggingObserver struct{}

// NewLoggingObserver creates an observer that counts log lines and
// failed writes.
func NewLoggingObserver() logging.Observer {
	return &loggingObserver{}
}

func (o *loggingObserver) ObserveMessage(logger string, level logging.Level) {
	LogMessagesTotal.WithLabelValues(logger, level.String()).Inc()
}

func (o *loggingObserver) ObserveWriteError(logger, sink string, _ error) {
	LogWriteErrorsTotal.WithLabelValues(logger, sink).Inc()
}

// watchObserver implements filesystem.Observer.
type watchObserver struct{}

// NewWatchObserver creates an observer that counts watched source files
// by type and watcher errors.
func NewWatchObserver() filesystem.Observer {
	return &watchObserver{}
}

func (o *watchObserver) ObserveEvent(fileType mediatypes.FileType) {
	WatchEventsTotal.WithLabelValues(string(fileType)).Inc()
}

func (o *watchObserver) ObserveError(error) {
	WatchErrorsTotal.Inc()
}
