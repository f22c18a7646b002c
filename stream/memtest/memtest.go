// Package memtest provides an in-memory framewire Stream for unit tests:
// a byte queue fed by the test, optionally injecting short reads and
// artificial readiness latency so tests can exercise the read loop's
// partial-read and timeout paths the way a flaky real transport would.
package memtest // import "github.com/go-daq/framewire/stream/memtest"

import (
	"sync"
	"time"

	"github.com/go-daq/framewire/stream"
	"golang.org/x/exp/rand"
)

// Stream is an in-memory byte-queue Stream.
type Stream struct {
	mu  sync.Mutex
	in  []byte
	out []byte
	rng *rand.Rand
	// MaxReadChunk, if > 0, caps how many bytes a single Read call
	// returns, to simulate short reads from a real transport.
	MaxReadChunk int
	closed       bool
}

// New creates an empty in-memory stream, seeded deterministically so
// the WaitRead poll jitter is reproducible across test runs.
func New(seed uint64) *Stream {
	return &Stream{rng: rand.New(rand.NewSource(seed))}
}

var (
	registryMu sync.Mutex
	registry   = map[string]*Stream{}
)

// Register makes s resolvable by name via Lookup, for the "test://name"
// URI form, where the stream itself is constructed in-process by the
// test and only needs to be handed to a URI-driven caller by name.
func Register(name string, s *Stream) {
	registryMu.Lock()
	registry[name] = s
	registryMu.Unlock()
}

// Lookup resolves a name registered via Register.
func Lookup(name string) (*Stream, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	s, ok := registry[name]
	return s, ok
}

// Push enqueues bytes as if they had arrived from the remote peer. Safe
// to call concurrently with Read.
func (s *Stream) Push(p []byte) {
	s.mu.Lock()
	s.in = append(s.in, p...)
	s.mu.Unlock()
}

// Written returns (and does not clear) everything written so far via
// Write, for test assertions.
func (s *Stream) Written() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.out))
	copy(out, s.out)
	return out
}

func (s *Stream) Read(dst []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.in) == 0 {
		return 0, nil
	}
	n := len(dst)
	if n > len(s.in) {
		n = len(s.in)
	}
	if s.MaxReadChunk > 0 && n > s.MaxReadChunk {
		n = s.MaxReadChunk
	}
	copy(dst, s.in[:n])
	s.in = s.in[n:]
	return n, nil
}

func (s *Stream) Write(src []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out = append(s.out, src...)
	return len(src), nil
}

// WaitRead blocks until bytes are queued or d elapses, jittering the
// poll interval with the seeded RNG to avoid lock-step polling in tests
// that drive several streams at once.
func (s *Stream) WaitRead(d time.Duration) error {
	deadline := time.Now().Add(d)
	for {
		s.mu.Lock()
		ready := len(s.in) > 0
		s.mu.Unlock()
		if ready {
			return nil
		}
		if time.Now().After(deadline) {
			return &timeoutErr{}
		}
		jitter := time.Duration(1+s.rng.Intn(2)) * time.Millisecond
		time.Sleep(jitter)
	}
}

func (s *Stream) WaitWrite(d time.Duration) error { return nil }

func (s *Stream) Clear() error {
	s.mu.Lock()
	s.in = nil
	s.mu.Unlock()
	return nil
}

func (s *Stream) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *Stream) FD() int { return stream.NoFD }

type timeoutErr struct{}

func (*timeoutErr) Error() string { return "memtest: wait for readability timed out" }
func (*timeoutErr) Timeout() bool { return true }

var _ stream.Stream = (*Stream)(nil)
