package filesystem

import "vision-infra/internal/mediatypes"

// Observer records directory watcher activity. Implementations are provided
// by the metrics package to break the import cycle between filesystem and metrics.
type Observer interface {
	// ObserveEvent records one classified source file delivered by a Watcher.
	ObserveEvent(fileType mediatypes.FileType)

	// ObserveError records an error reported by the underlying watcher.
	ObserveError(err error)
}

// nopObserver is used when no observer is configured.
type nopObserver struct{}

func (nopObserver) ObserveEvent(mediatypes.FileType) {}
func (nopObserver) ObserveError(error)               {}
