package framewire // import "github.com/go-daq/framewire"

import "time"

// Stats holds the running byte-accounting counters for a Framer. TX
// counts bytes written; GoodRX counts bytes that were part of an emitted
// packet (in extract-last mode it also counts earlier candidate packets
// that a later candidate in the same buffer replaced, so it can exceed
// the bytes actually delivered); BadRX counts bytes discarded before an
// emitted packet's start;
// QueuedBytes (only meaningful in a Status snapshot) mirrors the internal
// buffer's current occupancy. LastActivity is the only wall-clock value
// here and is purely observational.
type Stats struct {
	TX           uint64
	GoodRX       uint64
	BadRX        uint64
	QueuedBytes  int
	LastActivity time.Time
}

func (s *Stats) touch() { s.LastActivity = time.Now() }
