package utils

import "time"

// Timer measures elapsed wall-clock time. [NewTimer] starts measuring
// immediately; [Timer.Stop] captures the elapsed duration for later retrieval
// via [Timer.GetDuration].
type Timer struct {
	startTime time.Time
	duration  time.Duration
}

// NewTimer creates a Timer with the current time as its start instant.
func NewTimer() *Timer {
	return &Timer{startTime: time.Now()}
}

// Start resets the start instant to now, allowing the Timer to be reused.
func (t *Timer) Start() {
	t.startTime = time.Now()
}

// Stop records the time elapsed since construction or the last Start call.
func (t *Timer) Stop() {
	t.duration = time.Since(t.startTime)
}

// GetDuration returns the duration captured by the latest Stop call, or zero
// if Stop has not been called.
func (t *Timer) GetDuration() time.Duration {
	return t.duration
}
