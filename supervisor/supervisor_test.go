package supervisor_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-daq/framewire"
	"github.com/go-daq/framewire/stream/memtest"
	"github.com/go-daq/framewire/supervisor"
)

func fourByteExtractor(buf []byte, n int) int {
	i := bytes.IndexByte(buf[:n], 0xAA)
	if i < 0 {
		return -n
	}
	if i > 0 {
		return -i
	}
	if n < 4 {
		return 0
	}
	return 4
}

func TestPoolRunsChannelsConcurrently(t *testing.T) {
	const nchans = 3

	var mu sync.Mutex
	received := make(map[string]int)

	p := supervisor.New()
	streams := make([]*memtest.Stream, nchans)

	for i := 0; i < nchans; i++ {
		name := string(rune('a' + i))
		f := framewire.New(64, fourByteExtractor, false)
		s := memtest.New(uint64(i + 1))
		streams[i] = s

		p.Add(supervisor.Channel{
			Name:   name,
			Framer: f,
			Stream: s,
			Handle: func(ctx context.Context, packet []byte) error {
				mu.Lock()
				received[name]++
				mu.Unlock()
				return nil
			},
			Timeout: 20 * time.Millisecond,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	for _, s := range streams {
		s.Push([]byte{0xAA, 1, 2, 3})
	}

	if err := p.Run(ctx); err != nil {
		t.Fatalf("pool run: %+v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	for i := 0; i < nchans; i++ {
		name := string(rune('a' + i))
		if received[name] == 0 {
			t.Fatalf("channel %q never delivered a packet", name)
		}
	}
}

func TestPoolAddDuplicateNamePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Add to panic on a duplicate channel name")
		}
	}()

	p := supervisor.New()
	f1 := framewire.New(64, fourByteExtractor, false)
	f2 := framewire.New(64, fourByteExtractor, false)
	p.Add(supervisor.Channel{Name: "dup", Framer: f1, Stream: memtest.New(1)})
	p.Add(supervisor.Channel{Name: "dup", Framer: f2, Stream: memtest.New(2)})
}
