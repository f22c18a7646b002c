package framewire // import "github.com/go-daq/framewire"

// ringbuf is a fixed-capacity byte staging area for unframed stream
// bytes. It never grows past its capacity; callers are expected to drain
// it via extraction before appending more.
type ringbuf struct {
	buf  []byte
	used int
}

func newRingbuf(capacity int) *ringbuf {
	return &ringbuf{buf: make([]byte, capacity)}
}

func (b *ringbuf) cap() int { return len(b.buf) }

// free returns the number of bytes that can still be appended.
func (b *ringbuf) free() int { return len(b.buf) - b.used }

// bytes returns the occupied prefix [0, used).
func (b *ringbuf) bytes() []byte { return b.buf[:b.used] }

// append copies p into the tail of the buffer. Callers must ensure
// len(p) <= free().
func (b *ringbuf) append(p []byte) {
	n := copy(b.buf[b.used:], p)
	b.used += n
}

// consume drops the first n bytes, compacting the remainder to offset 0.
// Correct under overlap between source and destination.
func (b *ringbuf) consume(n int) {
	if n <= 0 {
		return
	}
	if n >= b.used {
		b.used = 0
		return
	}
	copy(b.buf[0:], b.buf[n:b.used])
	b.used -= n
}

// reset empties the buffer without touching its backing storage.
func (b *ringbuf) reset() { b.used = 0 }
