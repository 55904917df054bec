package logging

import (
	"strings"
	"time"
)

const (
	// DefaultPattern is the line layout used by new loggers.
	DefaultPattern = "[{timestamp}] [{level}] [{name}] {message}"

	// TimestampFormat is the layout substituted for {timestamp}.
	TimestampFormat = "2006-01-02 15:04:05"

	tokenTimestamp = "{timestamp}"
	tokenLevel     = "{level}"
	tokenName      = "{name}"
	tokenMessage   = "{message}"
)

// FormatPattern renders one log line from pattern. Every occurrence of each
// token is replaced. When withTimestamp is false the {timestamp} token is
// left as-is.
func FormatPattern(pattern string, ts time.Time, withTimestamp bool, level Level, name, message string) string {
	pairs := make([]string, 0, 8)
	if withTimestamp {
		pairs = append(pairs, tokenTimestamp, ts.Format(TimestampFormat))
	}
	pairs = append(pairs,
		tokenLevel, level.String(),
		tokenName, name,
		tokenMessage, message,
	)

	// A single replacer pass keeps a message containing "{name}" from being
	// expanded a second time.
	return strings.NewReplacer(pairs...).Replace(pattern)
}
