package metrics

import (
	"sync"
	"time"

	"vision-infra/internal/logging"
)

// DefaultCollectInterval is used when a Collector is given a non-positive
// interval.
const DefaultCollectInterval = 15 * time.Second

// StatsProvider reports process and system memory for the gauges.
type StatsProvider interface {
	GetStats() Stats
}

// Stats is one memory sample. Zero means unavailable.
type Stats struct {
	ProcessMemoryBytes    uint64
	SystemMemoryUsedBytes uint64
}

// Collector samples a StatsProvider on a fixed interval and publishes the
// result as gauges. It samples once immediately on Start.
type Collector struct {
	provider StatsProvider
	interval time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// NewCollector returns a stopped Collector.
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = DefaultCollectInterval
	}
	return &Collector{
		provider: provider,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sampling goroutine. Later calls do nothing.
func (c *Collector) Start() {
	c.startOnce.Do(func() { go c.run() })
}

// Stop ends sampling and waits for the goroutine to exit. It is safe to
// call more than once, and before Start.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
	started := true
	c.startOnce.Do(func() {
		started = false
		close(c.done)
	})
	if started {
		<-c.done
	}
}

func (c *Collector) run() {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		c.collect()
		select {
		case <-ticker.C:
		case <-c.stop:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.provider == nil {
		return
	}
	s := c.provider.GetStats()
	ProcessMemoryBytes.Set(float64(s.ProcessMemoryBytes))
	SystemMemoryUsedBytes.Set(float64(s.SystemMemoryUsedBytes))
	logging.Trace("memory sample: process=%d system=%d", s.ProcessMemoryBytes, s.SystemMemoryUsedBytes)
}
