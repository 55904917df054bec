package perf

import "time"

// Timer measures wall-clock time between Start and Stop. While running,
// the elapsed time is measured up to now.
type Timer struct {
	start   time.Time
	end     time.Time
	running bool
	now     func() time.Time
}

// NewTimer returns a stopped timer with zero elapsed time.
func NewTimer() *Timer {
	t := &Timer{now: time.Now}
	t.Reset()
	return t
}

// Start records the start time and marks the timer running.
func (t *Timer) Start() {
	t.start = t.now()
	t.running = true
}

// Stop records the end time. It has no effect on a stopped timer.
func (t *Timer) Stop() {
	if !t.running {
		return
	}
	t.end = t.now()
	t.running = false
}

// Reset stops the timer and zeroes the elapsed time.
func (t *Timer) Reset() {
	now := t.now()
	t.start = now
	t.end = now
	t.running = false
}

// Running reports whether Start has been called without a matching Stop.
func (t *Timer) Running() bool {
	return t.running
}

// Elapsed returns the measured duration.
func (t *Timer) Elapsed() time.Duration {
	end := t.end
	if t.running {
		end = t.now()
	}
	return end.Sub(t.start)
}

// ElapsedMs returns the measured duration in milliseconds.
func (t *Timer) ElapsedMs() float64 {
	return float64(t.Elapsed()) / float64(time.Millisecond)
}

// ElapsedSeconds returns the measured duration in seconds.
func (t *Timer) ElapsedSeconds() float64 {
	return t.Elapsed().Seconds()
}
