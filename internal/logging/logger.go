package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Logger is a named log sink. It is safe for concurrent use; writes to the
// same Logger never interleave within a line.
type Logger struct {
	name  string
	level atomic.Int32

	mu               sync.Mutex
	stdout           io.Writer
	stderr           io.Writer
	file             *os.File
	filePath         string
	consoleEnabled   bool
	timestampEnabled bool
	pattern          string
	now              func() time.Time
}

// Option configures a Logger at construction time.
type Option func(*Logger)

// WithLevel sets the initial threshold.
func WithLevel(level Level) Option {
	return func(l *Logger) { l.level.Store(int32(level)) }
}

// WithConsole replaces the console writers. Lines below ERROR go to stdout,
// ERROR and FATAL go to stderr.
func WithConsole(stdout, stderr io.Writer) Option {
	return func(l *Logger) {
		l.stdout = stdout
		l.stderr = stderr
	}
}

// WithPattern sets the initial line pattern.
func WithPattern(pattern string) Option {
	return func(l *Logger) { l.pattern = pattern }
}

// WithClock sets the time source used for {timestamp}.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

// NewLogger creates a logger writing to the process console at INFO.
// An empty name becomes "default".
func NewLogger(name string, opts ...Option) *Logger {
	if name == "" {
		name = DefaultLoggerName
	}
	l := &Logger{
		name:             name,
		stdout:           os.Stdout,
		stderr:           os.Stderr,
		consoleEnabled:   true,
		timestampEnabled: true,
		pattern:          DefaultPattern,
		now:              time.Now,
	}
	l.level.Store(int32(LevelInfo))
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the logger's name.
func (l *Logger) Name() string {
	return l.name
}

// Level returns the current threshold.
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// SetLevel changes the threshold; it applies to the next Log call.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// Enabled reports whether a message at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.Level()
}

// Log writes message at level. Failed writes are reported to the
// package observer and otherwise ignored.
func (l *Logger) Log(level Level, message string) {
	if !l.Enabled(level) {
		return
	}

	l.mu.Lock()
	line := FormatPattern(l.pattern, l.now(), l.timestampEnabled, level, l.name, message) + "\n"

	var writeErrs []sinkError
	if l.consoleEnabled {
		sink, w := "stdout", l.stdout
		if level >= LevelError {
			sink, w = "stderr", l.stderr
		}
		if _, err := io.WriteString(w, line); err != nil {
			writeErrs = append(writeErrs, sinkError{sink, err})
		}
	}
	if l.file != nil {
		if _, err := l.file.WriteString(line); err != nil {
			writeErrs = append(writeErrs, sinkError{"file", err})
		}
	}
	l.mu.Unlock()

	if o := observe(); o != nil {
		o.ObserveMessage(l.name, level)
		for _, se := range writeErrs {
			o.ObserveWriteError(l.name, se.sink, se.err)
		}
	}
}

type sinkError struct {
	sink string
	err  error
}

// Logf formats according to a format specifier and writes the result at level.
// Formatting is skipped when level is below the threshold.
func (l *Logger) Logf(level Level, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	l.Log(level, fmt.Sprintf(format, args...))
}

// SetOutputFile closes the current output file, if any, and opens path in
// append mode. An empty path leaves the logger without file output, as
// does a path that cannot be opened.
func (l *Logger) SetOutputFile(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closeFileLocked()
	if path == "" {
		return
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		if o := observe(); o != nil {
			o.ObserveWriteError(l.name, "file", err)
		}
		return
	}
	l.file = f
	l.filePath = path
}

// OutputFile returns the path of the open output file, or "" when there is none.
func (l *Logger) OutputFile() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filePath
}

// closeFileLocked syncs and closes the output file. l.mu must be held.
func (l *Logger) closeFileLocked() {
	if l.file == nil {
		return
	}
	_ = l.file.Sync()
	_ = l.file.Close()
	l.file = nil
	l.filePath = ""
}

// Close releases the output file. The logger remains usable.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeFileLocked()
}

// EnableConsoleOutput toggles writing to stdout/stderr.
func (l *Logger) EnableConsoleOutput(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.consoleEnabled = enable
}

// EnableTimestamp toggles substitution of the {timestamp} token.
func (l *Logger) EnableTimestamp(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timestampEnabled = enable
}

// SetPattern replaces the line pattern.
func (l *Logger) SetPattern(pattern string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pattern = pattern
}

// Pattern returns the current line pattern.
func (l *Logger) Pattern() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pattern
}

// Flush pushes buffered file output to stable storage. Console writes are
// unbuffered. Flush may be called at any time, any number of times.
func (l *Logger) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Sync()
	}
}

// Trace logs at TRACE.
func (l *Logger) Trace(message string) { l.Log(LevelTrace, message) }

// Debug logs at DEBUG.
func (l *Logger) Debug(message string) { l.Log(LevelDebug, message) }

// Info logs at INFO.
func (l *Logger) Info(message string) { l.Log(LevelInfo, message) }

// Warn logs at WARN.
func (l *Logger) Warn(message string) { l.Log(LevelWarn, message) }

// Error logs at ERROR.
func (l *Logger) Error(message string) { l.Log(LevelError, message) }

// Fatal logs at FATAL. Unlike the package-level Fatal it does not exit.
func (l *Logger) Fatal(message string) { l.Log(LevelFatal, message) }

// Tracef logs a formatted message at TRACE.
func (l *Logger) Tracef(format string, args ...interface{}) { l.Logf(LevelTrace, format, args...) }

// Debugf logs a formatted message at DEBUG.
func (l *Logger) Debugf(format string, args ...interface{}) { l.Logf(LevelDebug, format, args...) }

// Infof logs a formatted message at INFO.
func (l *Logger) Infof(format string, args ...interface{}) { l.Logf(LevelInfo, format, args...) }

// Warnf logs a formatted message at WARN.
func (l *Logger) Warnf(format string, args ...interface{}) { l.Logf(LevelWarn, format, args...) }

// Errorf logs a formatted message at ERROR.
func (l *Logger) Errorf(format string, args ...interface{}) { l.Logf(LevelError, format, args...) }

// Fatalf logs a formatted message at FATAL without exiting.
func (l *Logger) Fatalf(format string, args ...interface{}) { l.Logf(LevelFatal, format, args...) }
