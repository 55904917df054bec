package logging

import "sync/atomic"

// Observer records logging activity. Implementations are provided by the
// metrics package so that logging does not import it.
type Observer interface {
	// ObserveMessage is called once per emitted line.
	ObserveMessage(logger string, level Level)

	// ObserveWriteError is called when a sink write fails. sink is
	// "stdout", "stderr" or "file".
	ObserveWriteError(logger, sink string, err error)
}

var defaultObserver atomic.Pointer[observerHolder]

type observerHolder struct{ o Observer }

// SetObserver sets the package-level observer. Passing nil disables it.
func SetObserver(o Observer) {
	if o == nil {
		defaultObserver.Store(nil)
		return
	}
	defaultObserver.Store(&observerHolder{o: o})
}

// observe returns the current observer or nil.
func observe() Observer {
	if h := defaultObserver.Load(); h != nil {
		return h.o
	}
	return nil
}
