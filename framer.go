// Package framewire is a reusable framing layer that turns an unreliable,
// partially-buffered byte stream into a sequence of discrete,
// application-defined packets under layered timeouts, with precise
// byte-level accounting.
package framewire // import "github.com/go-daq/framewire"

import (
	"time"

	"github.com/go-daq/framewire/stream"
)

const defaultFirstByteSlack = 1000 * time.Millisecond

// Framer owns a bounded internal buffer and drives a Stream under
// layered timeouts, repeatedly asking an Extractor to identify packet
// boundaries. A Framer must be used by at most one task at a time; it
// does no internal locking.
type Framer struct {
	maxPacketSize int
	buf           *ringbuf

	extract     Extractor
	extractLast bool

	s stream.Stream

	listeners *listenerSet

	readTimeout  time.Duration
	writeTimeout time.Duration

	stats Stats
}

// New creates a Framer with the given maximum packet size (also the
// internal buffer's capacity, and the minimum size required of any
// caller-supplied output buffer) and extractor. extractLast selects the
// last-match selection policy; pass false for first-match.
func New(maxPacketSize int, extract Extractor, extractLast bool) *Framer {
	if maxPacketSize <= 0 {
		panic("framewire: max packet size must be positive")
	}
	return &Framer{
		maxPacketSize: maxPacketSize,
		buf:           newRingbuf(maxPacketSize),
		extract:       extract,
		extractLast:   extractLast,
		listeners:     newListenerSet(),
		readTimeout:   5 * time.Second,
		writeTimeout:  5 * time.Second,
	}
}

// MaxPacketSize returns the frozen construction-time capacity.
func (f *Framer) MaxPacketSize() int { return f.maxPacketSize }

// SetStream attaches s as the Framer's transport, closing and releasing
// any previously attached stream first.
func (f *Framer) SetStream(s stream.Stream) {
	if f.s != nil {
		_ = f.s.Close()
	}
	f.s = s
}

// GetStream returns the currently attached stream, or nil.
func (f *Framer) GetStream() stream.Stream { return f.s }

// IsValid reports whether a stream is currently attached.
func (f *Framer) IsValid() bool { return f.s != nil }

// Close closes and detaches the current stream, if any. Idempotent.
func (f *Framer) Close() error {
	if f.s == nil {
		return nil
	}
	err := f.s.Close()
	f.s = nil
	return err
}

// AddListener registers l and returns a handle for later removal.
func (f *Framer) AddListener(l Listener) ListenerHandle { return f.listeners.add(l) }

// RemoveListener unregisters the listener identified by h.
func (f *Framer) RemoveListener(h ListenerHandle) { f.listeners.remove(h) }

// SetExtractLast changes the packet selection policy.
func (f *Framer) SetExtractLast(v bool) { f.extractLast = v }

// GetExtractLast reports the current packet selection policy.
func (f *Framer) GetExtractLast() bool { return f.extractLast }

// SetReadTimeout sets the default packet timeout used by ReadPacket's
// zero-argument overloads.
func (f *Framer) SetReadTimeout(d time.Duration) { f.readTimeout = d }

// GetReadTimeout returns the default read timeout.
func (f *Framer) GetReadTimeout() time.Duration { return f.readTimeout }

// SetWriteTimeout sets the default timeout used by WritePacket's
// zero-argument overload.
func (f *Framer) SetWriteTimeout(d time.Duration) { f.writeTimeout = d }

// GetWriteTimeout returns the default write timeout.
func (f *Framer) GetWriteTimeout() time.Duration { return f.writeTimeout }

// Status returns a snapshot of the running counters, with QueuedBytes
// set to the internal buffer's current occupancy.
func (f *Framer) Status() Stats {
	s := f.stats
	s.QueuedBytes = f.buf.used
	return s
}

// ResetStatus zeroes the running counters and clears LastActivity. It
// does not touch the internal buffer or the stream.
func (f *Framer) ResetStatus() {
	f.stats = Stats{}
}

// Clear discards the transport's own buffered bytes (if a stream is
// attached) and empties the internal buffer. It does not touch stats.
func (f *Framer) Clear() error {
	f.buf.reset()
	if f.s != nil {
		return f.s.Clear()
	}
	return nil
}

// HasPacket reports whether the current internal buffer contains a
// complete packet, without mutating stats or the buffer.
func (f *Framer) HasPacket() bool {
	if f.buf.used == 0 {
		return false
	}
	pv, err := findPacket(f.extract, f.extractLast, f.buf.bytes(), f.buf.used, nil)
	if err != nil {
		return false
	}
	return pv.length > 0
}

// Feed appends data directly to the internal buffer, bypassing the
// stream. It is the out-of-band route ReadPacket falls back to when no
// stream is attached (spec.md §4.4), and is primarily useful for tests
// and for protocols whose bytes arrive through a side channel. Feed
// notifies listeners exactly as a stream read would. It fails with a
// length violation if data would overflow the buffer.
func (f *Framer) Feed(data []byte) error {
	if len(data) > f.buf.free() {
		return newError(KindLengthViolation, "feed of %d bytes exceeds %d bytes of free buffer space", len(data), f.buf.free())
	}
	f.buf.append(data)
	f.listeners.notifyRead(data)
	return nil
}

// doPacketExtraction runs findPacket against the internal buffer,
// updates stats, copies the packet (if any) into out, and compacts the
// internal buffer so the unconsumed remainder becomes the new prefix.
// Returns the packet length (0 if none).
func (f *Framer) doPacketExtraction(out []byte) (int, error) {
	n := f.buf.used
	if n == 0 {
		return 0, nil
	}

	onTentative := func(skipped, size int) {
		f.stats.BadRX += uint64(skipped)
		f.stats.GoodRX += uint64(size)
		f.stats.touch()
	}

	pv, err := findPacket(f.extract, f.extractLast, f.buf.bytes(), n, onTentative)
	if err != nil {
		return 0, err
	}

	if !f.extractLast {
		f.stats.BadRX += uint64(pv.offset)
		f.stats.GoodRX += uint64(pv.length)
		f.stats.touch()
	}

	if pv.length > 0 {
		copy(out, f.buf.buf[pv.offset:pv.offset+pv.length])
	}

	f.buf.consume(pv.offset + pv.length)
	return pv.length, nil
}

// extractFromInternal repeatedly calls doPacketExtraction against the
// internal buffer alone (no stream I/O), returning the selected packet
// length: the first non-zero length in first-match mode, or the last
// non-zero length seen before the buffer runs dry in extract_last mode.
func (f *Framer) extractFromInternal(out []byte) (int, error) {
	size := 0
	for f.buf.used > 0 {
		n, err := f.doPacketExtraction(out)
		if err != nil {
			return 0, err
		}
		if n == 0 {
			break
		}
		size = n
		if !f.extractLast {
			return size, nil
		}
	}
	return size, nil
}

// readPacketInternal implements spec.md §4.3.4: it first tries to
// satisfy the read from already-buffered bytes, then loops performing
// non-blocking reads from the stream, extracting after each. It returns
// (packetLength, readSomething).
func (f *Framer) readPacketInternal(out []byte) (int, bool, error) {
	if len(out) < f.maxPacketSize {
		return 0, false, newError(KindLengthViolation, "output buffer capacity %d < max packet size %d", len(out), f.maxPacketSize)
	}

	remembered := 0
	if f.buf.used > 0 {
		n, err := f.doPacketExtraction(out)
		if err != nil {
			return 0, false, err
		}
		if n > 0 {
			if !f.extractLast {
				return n, false, nil
			}
			remembered = n
		}
	}

	readSomething := false
	for {
		free := f.buf.free()
		if free == 0 {
			if remembered == 0 {
				return 0, readSomething, newError(KindLengthViolation, "internal buffer full (%d bytes) without a complete packet", f.maxPacketSize)
			}
			return remembered, readSomething, nil
		}

		tail := f.buf.buf[f.buf.used : f.buf.used+free]
		n, err := f.s.Read(tail)
		if err != nil {
			return 0, readSomething, wrapError(KindStreamError, err, "stream read failed")
		}
		if n == 0 {
			return remembered, readSomething, nil
		}

		f.listeners.notifyRead(tail[:n])
		f.buf.used += n
		readSomething = true

		size, err := f.doPacketExtraction(out)
		if err != nil {
			return 0, readSomething, err
		}
		if size > 0 {
			if !f.extractLast {
				return size, readSomething, nil
			}
			remembered = size
			continue
		}

		if f.buf.used == f.buf.cap() {
			return 0, readSomething, newError(KindLengthViolation, "internal buffer full (%d bytes) without a complete packet", f.maxPacketSize)
		}
	}
}

type timeoutKind int

const (
	boundFirstByte timeoutKind = iota
	boundPacket
)

// ReadPacket reads the next packet into out (capacity >= MaxPacketSize)
// under layered timeouts. packetTimeout bounds the whole read once any
// byte has arrived; firstByteTimeout is an earlier bound on the very
// first byte, and is disabled (treated as -1) whenever it exceeds
// packetTimeout.
func (f *Framer) ReadPacket(out []byte, packetTimeout, firstByteTimeout time.Duration) (int, error) {
	if firstByteTimeout > packetTimeout {
		firstByteTimeout = -1
	}
	if len(out) < f.maxPacketSize {
		return 0, newError(KindLengthViolation, "output buffer capacity %d < max packet size %d", len(out), f.maxPacketSize)
	}

	if f.s == nil {
		n, err := f.extractFromInternal(out)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			return n, nil
		}
		if f.buf.used == f.buf.cap() {
			return 0, newError(KindLengthViolation, "internal buffer full (%d bytes) without a complete packet", f.maxPacketSize)
		}
		return 0, newError(KindPacketTimeout, "no packet; no FD to read from")
	}

	t := NewTimeout(packetTimeout)
	readSomething := false
	for {
		n, gotBytes, err := f.readPacketInternal(out)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			return n, nil
		}
		readSomething = readSomething || gotBytes

		if packetTimeout == 0 && !readSomething {
			return 0, newError(KindFirstByteTimeout, "no data available and packet timeout is zero")
		}

		bound, kind := packetTimeout, boundPacket
		if firstByteTimeout != -1 && !readSomething {
			bound, kind = firstByteTimeout, boundFirstByte
		}

		if t.ElapsedOf(bound) {
			if kind == boundFirstByte {
				return 0, newError(KindFirstByteTimeout, "no byte received within %v", bound)
			}
			return 0, newError(KindPacketTimeout, "no complete packet within %v", bound)
		}

		remaining := t.TimeLeftOf(bound)
		if err := f.s.WaitRead(remaining); err != nil {
			if kind == boundFirstByte {
				return 0, newError(KindFirstByteTimeout, "wait for readability timed out")
			}
			return 0, newError(KindPacketTimeout, "wait for readability timed out")
		}
	}
}

// ReadPacketDefault reads using the Framer's default read timeout and a
// first-byte timeout of packetTimeout+1s.
func (f *Framer) ReadPacketDefault(out []byte) (int, error) {
	return f.ReadPacket(out, f.readTimeout, f.readTimeout+defaultFirstByteSlack)
}

// ReadPacketTimeout reads using an explicit packet timeout and a
// first-byte timeout of packetTimeout+1s.
func (f *Framer) ReadPacketTimeout(out []byte, packetTimeout time.Duration) (int, error) {
	return f.ReadPacket(out, packetTimeout, packetTimeout+defaultFirstByteSlack)
}

// WritePacket writes buf in full under a time budget, notifying
// listeners after each successfully written span.
func (f *Framer) WritePacket(buf []byte, timeout time.Duration) error {
	if f.s == nil {
		return newError(KindNotOpen, "write attempted without an attached stream")
	}

	t := NewTimeout(timeout)
	written := 0
	for written < len(buf) {
		n, err := f.s.Write(buf[written:])
		if err != nil {
			return wrapError(KindStreamError, err, "stream write failed")
		}
		if n > 0 {
			f.listeners.notifyWrite(buf[written : written+n])
			written += n
			continue
		}

		if t.Elapsed() {
			return newError(KindPacketTimeout, "write did not complete within %v", timeout)
		}
		if err := f.s.WaitWrite(t.TimeLeft()); err != nil {
			return newError(KindPacketTimeout, "wait for writability timed out")
		}
	}

	f.stats.TX += uint64(len(buf))
	f.stats.touch()
	return nil
}

// WritePacketDefault writes using the Framer's default write timeout.
func (f *Framer) WritePacketDefault(buf []byte) error {
	return f.WritePacket(buf, f.writeTimeout)
}
