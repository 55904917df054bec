package perf

import "time"

// DefaultFPSWindow is the number of frame timestamps an FPSCounter keeps
// when no positive window is given.
const DefaultFPSWindow = 30

// FPSCounter estimates frames per second over the last window frames.
type FPSCounter struct {
	samples []time.Time
	idx     int
	full    bool
	now     func() time.Time
}

// NewFPSCounter returns a counter over the given window. A window below 1
// uses DefaultFPSWindow.
func NewFPSCounter(window int) *FPSCounter {
	if window < 1 {
		window = DefaultFPSWindow
	}
	return &FPSCounter{
		samples: make([]time.Time, window),
		now:     time.Now,
	}
}

// Window returns the number of timestamps retained.
func (f *FPSCounter) Window() int {
	return len(f.samples)
}

// Update records a frame at the current time.
func (f *FPSCounter) Update() {
	f.samples[f.idx] = f.now()
	f.idx = (f.idx + 1) % len(f.samples)
	if f.idx == 0 {
		f.full = true
	}
}

// CurrentFPS returns the rate between the oldest and newest retained
// frames, or 0 until two frames have been recorded.
func (f *FPSCounter) CurrentFPS() float64 {
	if !f.full && f.idx < 2 {
		return 0
	}

	w := len(f.samples)
	count := f.idx
	if f.full {
		count = w
	}

	newest := f.samples[(f.idx-1+w)%w]
	oldest := f.samples[(f.idx-count+w)%w]
	ms := newest.Sub(oldest).Milliseconds()
	if ms <= 0 {
		return 0
	}
	return float64(count-1) * 1000 / float64(ms)
}

// AverageFPS returns the same windowed rate as CurrentFPS.
func (f *FPSCounter) AverageFPS() float64 {
	return f.CurrentFPS()
}

// Reset discards all recorded frames.
func (f *FPSCounter) Reset() {
	f.idx = 0
	f.full = false
}
