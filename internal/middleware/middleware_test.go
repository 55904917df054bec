package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vision-infra/internal/logging"
	"vision-infra/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStatusRecorder(t *testing.T) {
	t.Run("defaults to 200", func(t *testing.T) {
		rec := newStatusRecorder(httptest.NewRecorder())
		if rec.status != http.StatusOK || rec.written != 0 || rec.wrote {
			t.Errorf("new recorder = {status %d, written %d, wrote %v}, want {200, 0, false}", rec.status, rec.written, rec.wrote)
		}
	})

	t.Run("first WriteHeader wins", func(t *testing.T) {
		w := httptest.NewRecorder()
		rec := newStatusRecorder(w)
		rec.WriteHeader(http.StatusNotFound)
		rec.WriteHeader(http.StatusInternalServerError)

		if rec.status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.status)
		}
		if w.Code != http.StatusNotFound {
			t.Errorf("underlying code = %d, want 404", w.Code)
		}
	})

	t.Run("Write counts bytes", func(t *testing.T) {
		rec := newStatusRecorder(httptest.NewRecorder())
		data := []byte("test data")
		n, err := rec.Write(data)
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if n != len(data) || rec.written != int64(len(data)) {
			t.Errorf("Write() = %d, written = %d, want %d", n, rec.written, len(data))
		}
		if !rec.wrote {
			t.Error("wrote = false after Write")
		}
	})

	t.Run("Flush passes through", func(t *testing.T) {
		w := httptest.NewRecorder()
		newStatusRecorder(w).Flush()
		if !w.Flushed {
			t.Error("underlying recorder was not flushed")
		}
	})
}

func TestDefaultLoggingConfig(t *testing.T) {
	config := DefaultLoggingConfig()

	if config.LogHealthChecks {
		t.Error("Expected health checks to be skipped by default")
	}
	if len(config.SkipPaths) != 0 {
		t.Errorf("Expected no skip paths, got %v", config.SkipPaths)
	}
	if config.Logger != nil {
		t.Error("Expected the registry logger by default")
	}
}

func newTestLogger(buf *bytes.Buffer) *logging.Logger {
	return logging.NewLogger(HTTPLoggerName,
		logging.WithConsole(buf, buf),
		logging.WithLevel(logging.LevelDebug),
		logging.WithPattern("[{level}] {message}"),
	)
}

func TestLoggerMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fail":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			_, _ = w.Write([]byte("ok"))
		}
	})

	tests := []struct {
		name      string
		path      string
		config    func(LoggingConfig) LoggingConfig
		wantLines []string
		wantEmpty bool
	}{
		{
			name:      "request logged at debug",
			path:      "/metrics?name=x",
			wantLines: []string{"[DEBUG]", " GET /metrics name=x 200 2 "},
		},
		{
			name:      "server error logged at warn",
			path:      "/fail",
			wantLines: []string{"[WARN]", " GET /fail - 503 0 "},
		},
		{
			name:      "health check skipped",
			path:      "/healthz",
			wantEmpty: true,
		},
		{
			name: "health check logged when enabled",
			path: "/readyz",
			config: func(c LoggingConfig) LoggingConfig {
				c.LogHealthChecks = true
				return c
			},
			wantLines: []string{" GET /readyz - 200 "},
		},
		{
			name: "skip path",
			path: "/debug/pprof",
			config: func(c LoggingConfig) LoggingConfig {
				c.SkipPaths = []string{"/debug"}
				return c
			},
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			config := DefaultLoggingConfig()
			config.Logger = newTestLogger(&buf)
			if tt.config != nil {
				config = tt.config(config)
			}

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			Logger(config)(handler).ServeHTTP(rec, req)

			got := buf.String()
			if tt.wantEmpty {
				if got != "" {
					t.Errorf("Expected no log output, got %q", got)
				}
				return
			}
			for _, want := range tt.wantLines {
				if !strings.Contains(got, want) {
					t.Errorf("Log output %q does not contain %q", got, want)
				}
			}
		})
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"line\nbreak", "line break"},
		{"cr\rlf", "cr lf"},
		{"nul\x00byte", "nulbyte"},
		{"\x1b[31mred", "[31mred"},
		{"tab\tkept", "tab\tkept"},
		{"bell\x07", "bell"},
		{"del\x7f", "del"},
	}

	for _, tt := range tests {
		if got := sanitizeLogField(tt.in); got != tt.want {
			t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"X-Forwarded-For single", map[string]string{"X-Forwarded-For": "10.0.0.1"}, "192.168.1.1:1234", "10.0.0.1"},
		{"X-Forwarded-For chain", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "192.168.1.1:1234", "10.0.0.1"},
		{"X-Real-IP", map[string]string{"X-Real-IP": "10.0.0.3"}, "192.168.1.1:1234", "10.0.0.3"},
		{"RemoteAddr", nil, "192.168.1.1:1234", "192.168.1.1"},
		{"IPv6 RemoteAddr", nil, "[::1]:1234", "::1"},
		{"RemoteAddr without port", nil, "pipe", "pipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuoteW3C(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"curl/8.0", "curl/8.0"},
		{"Mozilla/5.0 (X11)", `"Mozilla/5.0 (X11)"`},
		{`say "hi"`, `"say ""hi"""`},
	}

	for _, tt := range tests {
		if got := quoteW3C(tt.in); got != tt.want {
			t.Errorf("quoteW3C(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatW3C(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	req.RemoteAddr = "127.0.0.1:5000"
	req.Header.Set("User-Agent", "kube-probe/1.30")

	rec := newStatusRecorder(httptest.NewRecorder())
	_, _ = rec.Write([]byte("ready"))

	now := time.Date(2026, 3, 1, 12, 30, 45, 0, time.UTC)
	got := formatW3C(now, req, rec, 3*time.Millisecond)
	want := "2026-03-01 12:30:45 127.0.0.1 GET /readyz - 200 5 3 - kube-probe/1.30 -"
	if got != want {
		t.Errorf("formatW3C() = %q, want %q", got, want)
	}
}

func TestDefaultMetricsConfig(t *testing.T) {
	config := DefaultMetricsConfig()
	if len(config.SkipPaths) != 1 || config.SkipPaths[0] != "/metrics" {
		t.Errorf("SkipPaths = %v, want [/metrics]", config.SkipPaths)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/metrics", "/metrics"},
		{"/healthz", "/healthz"},
		{"/livez", "/livez"},
		{"/readyz", "/readyz"},
		{"/", "other"},
		{"/admin/../etc/passwd", "other"},
		{"/readyz/extra", "other"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestMetricsMiddleware(t *testing.T) {
	handler := Metrics(DefaultMetricsConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(path string) {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	okBefore := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/livez", "200"))
	notFoundBefore := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "other", "404"))
	scrapeBefore := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/metrics", "200"))

	serve("/livez")
	serve("/livez")
	serve("/missing")
	serve("/metrics")

	if got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/livez", "200")) - okBefore; got != 2 {
		t.Errorf("/livez requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "other", "404")) - notFoundBefore; got != 1 {
		t.Errorf("unknown path requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/metrics", "200")) - scrapeBefore; got != 0 {
		t.Errorf("/metrics requests = %v, want 0 (skipped)", got)
	}
	if got := testutil.ToFloat64(metrics.HTTPRequestsInFlight); got != 0 {
		t.Errorf("in-flight requests = %v, want 0", got)
	}
}

func TestChain(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("outer"), mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	want := "outer,inner,handler"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
}
