package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"vision-infra/internal/logging"
)

// HTTPLoggerName is the registry name of the request logger.
const HTTPLoggerName = "http"

// statusRecorder captures the status code and body size of a response.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int64
	wrote   bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.wrote {
		return
	}
	rec.status = code
	rec.wrote = true
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	rec.wrote = true
	n, err := rec.ResponseWriter.Write(b)
	rec.written += int64(n)
	return n, err
}

// Flush lets promhttp stream through the recorder.
func (rec *statusRecorder) Flush() {
	if f, ok := rec.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// LoggingConfig holds configuration for the logging middleware
type LoggingConfig struct {
	SkipPaths       []string
	LogHealthChecks bool
	// Logger receives the request lines; nil uses the "http" logger of
	// the default registry.
	Logger *logging.Logger
}

// DefaultLoggingConfig skips probe traffic, which a kubelet generates
// every few seconds.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:       []string{},
		LogHealthChecks: false,
	}
}

var healthCheckPaths = map[string]bool{
	"/healthz": true,
	"/livez":   true,
	"/readyz":  true,
}

// sanitizeLogField strips control characters from a client-supplied
// value so it cannot forge or colour log lines. CR and LF become spaces;
// tabs are kept.
func sanitizeLogField(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n', r == '\r':
			return ' '
		case r == '\t':
			return r
		case r < 0x20, r == 0x7f:
			return -1
		}
		return r
	}, s)
}

// Logger returns HTTP logging middleware writing one W3C Extended Log
// Format line per request. Lines are logged at DEBUG, or WARN for 5xx
// responses.
func Logger(config LoggingConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if shouldSkip(r.URL.Path, config) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			logger := config.Logger
			if logger == nil {
				logger = logging.GetLogger(HTTPLoggerName)
			}
			level := logging.LevelDebug
			if rec.status >= http.StatusInternalServerError {
				level = logging.LevelWarn
			}
			logger.Log(level, formatW3C(time.Now().UTC(), r, rec, time.Since(start)))
		})
	}
}

// formatW3C renders one request in W3C Extended Log Format with the fields
//
//	date time c-ip cs-method cs-uri-stem cs-uri-query sc-status sc-bytes time-taken cs(Content-Encoding) cs(User-Agent) cs(Referer)
//
// Empty fields are written as "-".
func formatW3C(now time.Time, r *http.Request, rec *statusRecorder, duration time.Duration) string {
	field := func(v string) string {
		if v = sanitizeLogField(v); v == "" {
			return "-"
		}
		return v
	}

	return fmt.Sprintf("%s %s %s %s %s %d %d %d %s %s %s",
		now.Format("2006-01-02 15:04:05"),
		field(clientIP(r)),
		field(r.Method),
		field(r.URL.Path),
		field(r.URL.RawQuery),
		rec.status,
		rec.written,
		duration.Milliseconds(),
		field(rec.Header().Get("Content-Encoding")),
		quoteW3C(field(r.Header.Get("User-Agent"))),
		field(r.Header.Get("Referer")),
	)
}

func shouldSkip(path string, config LoggingConfig) bool {
	for _, prefix := range config.SkipPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return !config.LogHealthChecks && healthCheckPaths[path]
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then
// the connection's remote host.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// quoteW3C wraps a field containing blanks or quotes in quotes, doubling
// any embedded quote.
func quoteW3C(s string) string {
	if !strings.ContainsAny(s, " \t\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
