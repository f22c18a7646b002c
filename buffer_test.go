package framewire

import (
	"bytes"
	"testing"
)

func TestRingbufAppendAndConsume(t *testing.T) {
	b := newRingbuf(8)
	if got, want := b.free(), 8; got != want {
		t.Fatalf("free: got=%d want=%d", got, want)
	}

	b.append([]byte{1, 2, 3})
	if got, want := b.bytes(), []byte{1, 2, 3}; !bytes.Equal(got, want) {
		t.Fatalf("bytes: got=%v want=%v", got, want)
	}
	if got, want := b.free(), 5; got != want {
		t.Fatalf("free after append: got=%d want=%d", got, want)
	}

	b.consume(2)
	if got, want := b.bytes(), []byte{3}; !bytes.Equal(got, want) {
		t.Fatalf("bytes after partial consume: got=%v want=%v", got, want)
	}

	b.consume(10)
	if got, want := b.used, 0; got != want {
		t.Fatalf("used after over-consume: got=%d want=%d", got, want)
	}
}

func TestRingbufConsumeOverlap(t *testing.T) {
	b := newRingbuf(8)
	b.append([]byte{1, 2, 3, 4, 5, 6})
	b.consume(5)
	if got, want := b.bytes(), []byte{6}; !bytes.Equal(got, want) {
		t.Fatalf("overlap-safe consume: got=%v want=%v", got, want)
	}
}

func TestRingbufReset(t *testing.T) {
	b := newRingbuf(4)
	b.append([]byte{1, 2, 3, 4})
	if got, want := b.free(), 0; got != want {
		t.Fatalf("free when full: got=%d want=%d", got, want)
	}
	b.reset()
	if got, want := b.free(), 4; got != want {
		t.Fatalf("free after reset: got=%d want=%d", got, want)
	}
}
