package utils

import "time"

// Timer measures wall-clock time since it was created or last reset.
type Timer struct {
	start time.Time
}

// NewTimer returns a running Timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Reset restarts the measurement.
func (t *Timer) Reset() {
	t.start = time.Now()
}

// Elapsed returns the time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Seconds returns Elapsed as fractional seconds, the unit used by duration
// histograms.
func (t *Timer) Seconds() float64 {
	return t.Elapsed().Seconds()
}
