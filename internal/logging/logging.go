package logging

import (
	"fmt"
	"os"
)

// exit is swapped out by tests of Fatal.
var exit = os.Exit

// GetLevel returns the level of the default logger
func GetLevel() Level {
	return DefaultManager().Default().Level()
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

// Trace logs a trace message
func Trace(format string, args ...interface{}) {
	DefaultManager().Default().Logf(LevelTrace, format, args...)
}

// Debug logs a debug message (only if DEBUG=true or LOG_LEVEL=debug)
func Debug(format string, args ...interface{}) {
	DefaultManager().Default().Logf(LevelDebug, format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	DefaultManager().Default().Logf(LevelInfo, format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	DefaultManager().Default().Logf(LevelWarn, format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	DefaultManager().Default().Logf(LevelError, format, args...)
}

// Fatal logs a fatal message, flushes every logger and exits with status 1
func Fatal(format string, args ...interface{}) {
	m := DefaultManager()
	m.Default().Logf(LevelFatal, format, args...)
	m.FlushAll()
	exit(1)
}

// Printf writes a message that should always print, regardless of level
func Printf(format string, args ...interface{}) {
	l := DefaultManager().Default()
	l.Log(maxLevel(l.Level(), LevelInfo), fmt.Sprintf(format, args...))
}

// Println writes its operands like fmt.Sprintln, regardless of level
func Println(args ...interface{}) {
	msg := fmt.Sprintln(args...)
	Printf("%s", msg[:len(msg)-1])
}

func maxLevel(a, b Level) Level {
	if a > b {
		return a
	}
	return b
}
