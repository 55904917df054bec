package logging

import (
	"os"
	"sort"
	"strings"
	"sync"
)

// DefaultLoggerName is the name that, like "", resolves to a Manager's
// default logger.
const DefaultLoggerName = "default"

// Manager is a registry of named loggers. Repeated lookups of the same name
// return the same *Logger.
type Manager struct {
	mu            sync.Mutex
	loggers       map[string]*Logger
	defaultLogger *Logger
	globalLevel   Level
	outputFile    string
	opts          []Option
}

// NewManager creates a registry whose global level is INFO. opts are applied
// to every logger the registry creates, including the default.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		loggers:     make(map[string]*Logger),
		globalLevel: LevelInfo,
		opts:        opts,
	}
	m.defaultLogger = NewLogger(DefaultLoggerName, opts...)
	return m
}

// Logger returns the logger registered under name, creating it at the
// current global level if needed. "" and "default" return the default logger.
func (m *Manager) Logger(name string) *Logger {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" || name == DefaultLoggerName {
		return m.defaultLogger
	}
	if l, ok := m.loggers[name]; ok {
		return l
	}

	l := NewLogger(name, m.opts...)
	l.SetLevel(m.globalLevel)
	if m.outputFile != "" {
		l.SetOutputFile(m.outputFile)
	}
	m.loggers[name] = l
	return l
}

// Default returns the logger "default" currently resolves to.
func (m *Manager) Default() *Logger {
	return m.Logger(DefaultLoggerName)
}

// SetDefault replaces the default logger. Handles obtained earlier keep
// pointing at the previous instance. A nil logger is ignored.
func (m *Manager) SetDefault(l *Logger) {
	if l == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLogger = l
}

// SetGlobalLevel stores level as the level for new loggers and applies it
// to every registered logger and the default.
func (m *Manager) SetGlobalLevel(level Level) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.globalLevel = level
	for _, l := range m.loggers {
		l.SetLevel(level)
	}
	m.defaultLogger.SetLevel(level)
}

// SetOutputFile opens path on the default logger and every registered
// logger, and on loggers created later. An empty path closes the files.
// It reports whether every logger could open the file.
func (m *Manager) SetOutputFile(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.outputFile = path
	ok := true
	for _, l := range append([]*Logger{m.defaultLogger}, mapValues(m.loggers)...) {
		l.SetOutputFile(path)
		if l.OutputFile() != path {
			ok = false
		}
	}
	if !ok {
		m.outputFile = ""
	}
	return ok
}

// OutputFile returns the path new loggers open, or "".
func (m *Manager) OutputFile() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outputFile
}

func mapValues(loggers map[string]*Logger) []*Logger {
	all := make([]*Logger, 0, len(loggers))
	for _, l := range loggers {
		all = append(all, l)
	}
	return all
}

// GlobalLevel returns the level new loggers are created with.
func (m *Manager) GlobalLevel() Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.globalLevel
}

// Names returns the registered logger names in sorted order. The default
// logger is not included.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.loggers))
	for name := range m.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FlushAll flushes the default logger and every registered logger.
func (m *Manager) FlushAll() {
	for _, l := range m.snapshot() {
		l.Flush()
	}
}

// Close closes the output files of the default logger and every
// registered logger.
func (m *Manager) Close() {
	for _, l := range m.snapshot() {
		l.Close()
	}
}

func (m *Manager) snapshot() []*Logger {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*Logger{m.defaultLogger}, mapValues(m.loggers)...)
}

var (
	defaultManager   *Manager
	defaultManagerMu sync.RWMutex
	defaultOnce      sync.Once
)

// DefaultManager returns the process-wide registry, creating it on first
// use with its level taken from the environment.
func DefaultManager() *Manager {
	defaultOnce.Do(func() {
		m := NewManager()
		m.SetGlobalLevel(levelFromEnv())

		defaultManagerMu.Lock()
		if defaultManager == nil {
			defaultManager = m
		}
		defaultManagerMu.Unlock()
	})

	defaultManagerMu.RLock()
	defer defaultManagerMu.RUnlock()
	return defaultManager
}

// SetDefaultManager replaces the process-wide registry and returns the
// previous one, which tests use to restore it. A nil manager is replaced by
// a fresh one.
func SetDefaultManager(m *Manager) *Manager {
	prev := DefaultManager()
	if m == nil {
		m = NewManager()
	}

	defaultManagerMu.Lock()
	defer defaultManagerMu.Unlock()
	defaultManager = m
	return prev
}

// levelFromEnv reads the initial level from DEBUG and LOG_LEVEL.
func levelFromEnv() Level {
	if debug := os.Getenv("DEBUG"); debug != "" {
		switch strings.ToLower(debug) {
		case "1", "true", "yes", "on":
			return LevelDebug
		}
	}
	return ParseLevel(os.Getenv("LOG_LEVEL"))
}

// GetLogger returns the named logger from the default manager.
func GetLogger(name string) *Logger {
	return DefaultManager().Logger(name)
}

// SetDefaultLogger replaces the default manager's default logger.
func SetDefaultLogger(l *Logger) {
	DefaultManager().SetDefault(l)
}

// SetGlobalLevel applies level to every logger of the default manager.
func SetGlobalLevel(level Level) {
	DefaultManager().SetGlobalLevel(level)
}
