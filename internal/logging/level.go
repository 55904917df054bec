package logging

import (
	"fmt"
	"strings"
)

// Level represents the severity of a log message
type Level int32

const (
	// LevelTrace is the trace log level
	LevelTrace Level = iota
	// LevelDebug is the debug log level
	LevelDebug
	// LevelInfo is the info log level
	LevelInfo
	// LevelWarn is the warning log level
	LevelWarn
	// LevelError is the error log level
	LevelError
	// LevelFatal is the fatal log level
	LevelFatal
)

// Levels lists every level in severity order.
var Levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal}

// ParseLevel converts a level name to a Level. Matching is case-insensitive
// and "warning" is accepted as an alias for WARN. Unrecognized names fall
// back to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "FATAL":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// String returns the upper-case name of a log level
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int32(l))
	}
}
