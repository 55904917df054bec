package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vision-infra/internal/logging"
	"vision-infra/internal/mediatypes"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
		{"LogMessagesTotal", LogMessagesTotal},
		{"LogWriteErrorsTotal", LogWriteErrorsTotal},
		{"FramesProcessedTotal", FramesProcessedTotal},
		{"PreprocessDuration", PreprocessDuration},
		{"CurrentFPS", CurrentFPS},
		{"WatchEventsTotal", WatchEventsTotal},
		{"WatchErrorsTotal", WatchErrorsTotal},
		{"ProcessMemoryBytes", ProcessMemoryBytes},
		{"SystemMemoryUsedBytes", SystemMemoryUsedBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestInitializeMetrics(t *testing.T) {
	InitializeMetrics("camera")

	// Every logger/level pair should now be exported, even at zero.
	if got := testutil.CollectAndCount(LogMessagesTotal); got < 2*len(logging.Levels) {
		t.Errorf("LogMessagesTotal has %d series, want at least %d", got, 2*len(logging.Levels))
	}
	if got := testutil.CollectAndCount(WatchEventsTotal); got < 4 {
		t.Errorf("WatchEventsTotal has %d series, want at least 4", got)
	}
}

func TestLoggingObserver(t *testing.T) {
	obs := NewLoggingObserver()
	before := testutil.ToFloat64(LogMessagesTotal.WithLabelValues("observer-test", "WARN"))
	errBefore := testutil.ToFloat64(LogWriteErrorsTotal.WithLabelValues("observer-test", "file"))

	obs.ObserveMessage("observer-test", logging.LevelWarn)
	obs.ObserveMessage("observer-test", logging.LevelWarn)
	obs.ObserveWriteError("observer-test", "file", errors.New("read-only filesystem"))

	if got := testutil.ToFloat64(LogMessagesTotal.WithLabelValues("observer-test", "WARN")) - before; got != 2 {
		t.Errorf("LogMessagesTotal increased by %v, want 2", got)
	}
	if got := testutil.ToFloat64(LogWriteErrorsTotal.WithLabelValues("observer-test", "file")) - errBefore; got != 1 {
		t.Errorf("LogWriteErrorsTotal increased by %v, want 1", got)
	}
}

func TestWatchObserver(t *testing.T) {
	obs := NewWatchObserver()
	before := testutil.ToFloat64(WatchEventsTotal.WithLabelValues("model"))
	errBefore := testutil.ToFloat64(WatchErrorsTotal)

	obs.ObserveEvent(mediatypes.FileTypeModel)
	obs.ObserveError(errors.New("overflow"))

	if got := testutil.ToFloat64(WatchEventsTotal.WithLabelValues("model")) - before; got != 1 {
		t.Errorf("WatchEventsTotal{model} increased by %v, want 1", got)
	}
	if got := testutil.ToFloat64(WatchErrorsTotal) - errBefore; got != 1 {
		t.Errorf("WatchErrorsTotal increased by %v, want 1", got)
	}
}

type staticStats Stats

func (s staticStats) GetStats() Stats { return Stats(s) }

func TestCollectorCollect(t *testing.T) {
	c := NewCollector(staticStats{ProcessMemoryBytes: 4096, SystemMemoryUsedBytes: 8192}, 0)
	c.collect()

	if got := testutil.ToFloat64(ProcessMemoryBytes); got != 4096 {
		t.Errorf("ProcessMemoryBytes = %v, want 4096", got)
	}
	if got := testutil.ToFloat64(SystemMemoryUsedBytes); got != 8192 {
		t.Errorf("SystemMemoryUsedBytes = %v, want 8192", got)
	}
}

func TestCollectorNilProvider(t *testing.T) {
	c := NewCollector(nil, 0)
	c.collect() // must not panic
}

func TestCollectorDefaultInterval(t *testing.T) {
	if c := NewCollector(nil, -time.Second); c.interval != DefaultCollectInterval {
		t.Errorf("interval = %v, want %v", c.interval, DefaultCollectInterval)
	}
}

func TestCollectorStartStop(t *testing.T) {
	c := NewCollector(staticStats{ProcessMemoryBytes: 1 << 20, SystemMemoryUsedBytes: 2 << 20}, time.Hour)
	c.Start()
	c.Start()
	c.Stop()
	c.Stop()

	// Start samples once before waiting for the first tick.
	if got := testutil.ToFloat64(ProcessMemoryBytes); got != 1<<20 {
		t.Errorf("ProcessMemoryBytes = %v, want %v", got, 1<<20)
	}
}

func TestCollectorStopBeforeStart(t *testing.T) {
	c := NewCollector(nil, time.Hour)
	c.Stop()
	c.Start() // no-op after Stop
	c.Stop()
}

func TestRouter(t *testing.T) {
	ready := false
	r := NewRouter(func() bool { return ready })

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "healthz", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK, wantBody: "alive"},
		{name: "livez", method: http.MethodGet, path: "/livez", wantStatus: http.StatusOK, wantBody: "alive"},
		{name: "readyz not ready", method: http.MethodGet, path: "/readyz", wantStatus: http.StatusServiceUnavailable, wantBody: "not_ready"},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK, wantBody: "vision_infra_"},
		{name: "unknown route", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}

	ready = true
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("readyz status = %d after ready, want 200", rec.Code)
	}
}

func TestRouterNilReady(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("readyz status = %d, want 200", rec.Code)
	}
}
