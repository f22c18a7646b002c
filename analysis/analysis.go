// Package analysis computes running statistics over a Framer's packet
// arrivals: the inter-packet timing and the packet size distribution,
// fed by calling IntervalTracker.Record once per successful ReadPacket.
package analysis // import "github.com/go-daq/framewire/analysis"

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// IntervalTracker accumulates the time-of-flight between successive
// packet reads, reporting a running mean and standard deviation on
// demand. A zero-value IntervalTracker is ready to use.
//
// IntervalTracker is deliberately not a framewire.Listener: Listener
// fires on raw stream read spans, which a short or partial read (as
// stream/memtest.Stream.MaxReadChunk injects in tests) can fragment
// into pieces smaller than a packet. IntervalTracker instead measures
// packets, so callers feed it explicitly after each packet is fully
// assembled.
type IntervalTracker struct {
	mu   sync.Mutex
	last time.Time
	dts  []float64
	size []float64
}

// NewIntervalTracker returns a ready-to-use IntervalTracker.
func NewIntervalTracker() *IntervalTracker {
	return &IntervalTracker{}
}

// Record folds in one packet observation: a packet of size bytes was
// just delivered by ReadPacket, and lastActivity is the LastActivity
// timestamp from that same Framer's Status() immediately after the
// call. Passing the Framer's own timestamp, rather than timing the
// call site, keeps the interval measurement tied to when the packet
// was actually extracted rather than when the caller got around to
// reporting it.
func (t *IntervalTracker) Record(size int, lastActivity time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.last.IsZero() && !lastActivity.IsZero() {
		t.dts = append(t.dts, lastActivity.Sub(t.last).Seconds())
	}
	if !lastActivity.IsZero() {
		t.last = lastActivity
	}
	t.size = append(t.size, float64(size))
}

// Snapshot is a point-in-time summary of the intervals and sizes seen
// so far.
type Snapshot struct {
	N          int
	MeanDT     time.Duration
	StdDevDT   time.Duration
	MeanSize   float64
	StdDevSize float64
}

// Snapshot computes the current running statistics. Safe to call while
// packets are still arriving.
func (t *IntervalTracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	var snap Snapshot
	snap.N = len(t.size)
	if len(t.dts) > 0 {
		meanDT, sdDT := stat.MeanStdDev(t.dts, nil)
		snap.MeanDT = time.Duration(meanDT * float64(time.Second))
		snap.StdDevDT = time.Duration(sdDT * float64(time.Second))
	}
	if len(t.size) > 0 {
		snap.MeanSize, snap.StdDevSize = stat.MeanStdDev(t.size, nil)
	}
	return snap
}

// Reset clears all accumulated samples.
func (t *IntervalTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = time.Time{}
	t.dts = nil
	t.size = nil
}
