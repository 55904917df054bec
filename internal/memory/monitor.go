package memory

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"vision-infra/internal/logging"
	"vision-infra/internal/metrics"
)

// Config holds memory monitor configuration
type Config struct {
	// MemoryLimitBytes is the soft memory limit (0 = use GOMEMLIMIT or no limit)
	MemoryLimitBytes int64

	// HighWaterMark is the share of the limit below which paused work resumes (0.0-1.0)
	HighWaterMark float64

	// CriticalWaterMark is the share at which work pauses entirely (0.0-1.0)
	CriticalWaterMark float64

	// CheckInterval is how often to check memory usage
	CheckInterval time.Duration
}

// DefaultConfig returns the default monitor configuration.
func DefaultConfig() Config {
	return Config{
		MemoryLimitBytes:  0,
		HighWaterMark:     0.7,
		CriticalWaterMark: 0.85,
		CheckInterval:     5 * time.Second,
	}
}

// Monitor tracks heap allocation against a limit and pauses callers of
// WaitIfPaused while usage is critical.
type Monitor struct {
	config Config
	limit  int64
	alloc  func() uint64

	stopChan chan struct{}
	stopOnce sync.Once

	mu      sync.RWMutex
	current uint64
	// resume is non-nil while paused and closed when usage recovers.
	resume chan struct{}
}

// NewMonitor creates a memory monitor. Without an explicit limit it uses
// GOMEMLIMIT; with neither, backpressure is disabled.
func NewMonitor(config Config) *Monitor {
	m := &Monitor{
		config:   config,
		limit:    config.MemoryLimitBytes,
		alloc:    heapAlloc,
		stopChan: make(chan struct{}),
	}

	if m.limit == 0 {
		m.limit = runtimeLimit()
		if m.limit > 0 {
			logging.Info("Memory monitor using GOMEMLIMIT: %s", FormatBytes(uint64(m.limit)))
		} else {
			logging.Debug("Memory monitor: no memory limit configured, backpressure disabled")
		}
	}
	return m
}

// runtimeLimit returns the runtime soft limit, or 0 when it is unset.
func runtimeLimit() int64 {
	limit := debug.SetMemoryLimit(-1)
	if limit <= 0 || limit >= 1<<62 {
		return 0
	}
	return limit
}

func heapAlloc() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.Alloc
}

// Limit returns the limit the monitor compares against, 0 if disabled.
func (m *Monitor) Limit() int64 {
	return m.limit
}

// Start begins monitoring. It does nothing when no limit is configured.
func (m *Monitor) Start() {
	if m.limit == 0 || m.config.CheckInterval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(m.config.CheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.checkMemory()
			case <-m.stopChan:
				return
			}
		}
	}()
}

// Stop stops the monitor and releases any waiters. It is safe to call
// more than once.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

// checkMemory samples the allocator once and moves between the running
// and paused states. Between the two watermarks the state is kept.
func (m *Monitor) checkMemory() {
	current := m.alloc()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = current
	if m.limit == 0 {
		return
	}

	usage := float64(current) / float64(m.limit)
	metrics.MemoryUsageRatio.Set(usage)

	switch paused := m.resume != nil; {
	case !paused && usage >= m.config.CriticalWaterMark:
		m.pauseLocked(usage)
	case paused && usage < m.config.HighWaterMark:
		m.resumeLocked(usage)
	}
}

func (m *Monitor) pauseLocked(usage float64) {
	logging.Warn("Memory critical (%.1f%% of limit), pausing preprocessing", usage*100)
	m.resume = make(chan struct{})
	metrics.MemoryPaused.Set(1)
	metrics.MemoryGCPauses.Inc()
	go runtime.GC()
}

func (m *Monitor) resumeLocked(usage float64) {
	logging.Info("Memory recovered (%.1f%% of limit), resuming preprocessing", usage*100)
	close(m.resume)
	m.resume = nil
	metrics.MemoryPaused.Set(0)
}

// WaitIfPaused blocks while memory usage is critical. It returns false if
// ctx is cancelled or the monitor is stopped before usage recovers.
func (m *Monitor) WaitIfPaused(ctx context.Context) bool {
	m.mu.RLock()
	resume := m.resume
	m.mu.RUnlock()

	if resume == nil {
		return true
	}

	select {
	case <-resume:
		return true
	case <-m.stopChan:
		return false
	case <-ctx.Done():
		return false
	}
}

// ShouldThrottle reports whether the last sample is at or above the high
// watermark.
func (m *Monitor) ShouldThrottle() bool {
	return m.limit > 0 && m.GetUsage() >= m.config.HighWaterMark
}

// IsPaused reports whether WaitIfPaused currently blocks.
func (m *Monitor) IsPaused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resume != nil
}

// GetUsage returns the last sampled allocation as a share of the limit,
// or 0 if no limit is configured.
func (m *Monitor) GetUsage() float64 {
	if m.limit == 0 {
		return 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return float64(m.current) / float64(m.limit)
}
