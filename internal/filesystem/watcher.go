package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"vision-infra/internal/logging"
	"vision-infra/internal/mediatypes"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a path must be quiet after its last write
// before a Watcher reports it.
const DefaultDebounce = 250 * time.Millisecond

// WatchEvent reports a source file that appeared or changed in a watched
// directory.
type WatchEvent struct {
	Path string
	Type mediatypes.FileType
}

// Watcher reports new and rewritten files in a set of directories,
// classified by extension. Writes are debounced per path so a file being
// copied in is reported once it settles.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	types    map[mediatypes.FileType]bool
	observer Observer

	events chan WatchEvent
	ready  chan string
	stop   chan struct{}
	done   chan struct{}

	mu      sync.Mutex
	timers  map[string]*time.Timer
	dirs    []string
	started bool
	closed  bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a path is reported.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithTypes restricts reported events to the given file types.
func WithTypes(types ...mediatypes.FileType) WatcherOption {
	return func(w *Watcher) {
		w.types = make(map[mediatypes.FileType]bool, len(types))
		for _, t := range types {
			w.types[t] = true
		}
	}
}

// WithObserver records delivered events and watcher errors.
func WithObserver(o Observer) WatcherOption {
	return func(w *Watcher) {
		if o != nil {
			w.observer = o
		}
	}
}

// NewWatcher creates a Watcher. Call Add for each directory, then Start.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: DefaultDebounce,
		observer: nopObserver{},
		events:   make(chan WatchEvent, 100),
		ready:    make(chan string, 100),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add starts watching dir. Subdirectories are not watched.
func (w *Watcher) Add(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for %s: %w", dir, err)
	}
	if err := w.fsw.Add(abs); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", abs, err)
	}

	w.mu.Lock()
	w.dirs = append(w.dirs, abs)
	w.mu.Unlock()

	logging.Debug("Watching %s", abs)
	return nil
}

// Dirs returns the watched directories.
func (w *Watcher) Dirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.dirs...)
}

// Events returns the channel of classified events. It is closed once the
// watcher stops.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start runs the event loop until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.closed {
		return
	}
	w.started = true
	go w.loop(ctx)
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	started := w.started
	w.mu.Unlock()

	close(w.stop)
	err := w.fsw.Close()
	if started {
		<-w.done
	} else {
		close(w.done)
		close(w.events)
	}
	if err != nil {
		return fmt.Errorf("failed to close fsnotify watcher: %w", err)
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	defer close(w.events)
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				w.schedule(ev.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Warn("Directory watcher error: %v", err)
			w.observer.ObserveError(err)
		case path := <-w.ready:
			w.emit(ctx, path)
		}
	}
}

// schedule (re)starts the debounce timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		select {
		case w.ready <- path:
		case <-w.stop:
		case <-w.done:
		}
	})
}

func (w *Watcher) emit(ctx context.Context, path string) {
	w.mu.Lock()
	delete(w.timers, path)
	w.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	fileType := mediatypes.Classify(path)
	if w.types != nil && !w.types[fileType] {
		return
	}

	w.observer.ObserveEvent(fileType)
	select {
	case w.events <- WatchEvent{Path: path, Type: fileType}:
	case <-ctx.Done():
	case <-w.stop:
	}
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}
