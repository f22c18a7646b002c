package framewire // import "github.com/go-daq/framewire"

import "time"

// Timeout captures a monotonic start instant and answers questions about
// elapsed and remaining time against a duration budget. A Timeout
// constructed with duration 0 carries no default budget of its own;
// callers must pass an explicit override to ElapsedOf or TimeLeftOf.
type Timeout struct {
	start time.Time
	d     time.Duration
}

// NewTimeout starts a Timeout with default budget d.
func NewTimeout(d time.Duration) Timeout {
	return Timeout{start: time.Now(), d: d}
}

// Elapsed reports whether the default budget has been exceeded.
func (t Timeout) Elapsed() bool {
	return t.ElapsedOf(t.d)
}

// ElapsedOf reports whether d has been exceeded since the Timeout started,
// overriding the default budget.
func (t Timeout) ElapsedOf(d time.Duration) bool {
	return time.Since(t.start) >= d
}

// TimeLeft returns max(0, d-elapsed) against the default budget.
func (t Timeout) TimeLeft() time.Duration {
	return t.TimeLeftOf(t.d)
}

// TimeLeftOf returns max(0, d-elapsed), overriding the default budget.
func (t Timeout) TimeLeftOf(d time.Duration) time.Duration {
	left := d - time.Since(t.start)
	if left < 0 {
		return 0
	}
	return left
}
