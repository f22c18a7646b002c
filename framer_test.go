package framewire_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/go-daq/framewire"
	"github.com/go-daq/framewire/stream/memtest"
)

// aaFourByte is the worked-scenario extractor from spec.md §8: a packet
// is any four bytes starting at the first 0xAA seen.
func aaFourByte(buf []byte, n int) int {
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

func TestScenario1LeadingGarbage(t *testing.T) {
	f := framewire.New(64, aaFourByte, false)
	if err := f.Feed([]byte{0x00, 0x00, 0xAA, 0x01, 0x02, 0x03}); err != nil {
		t.Fatalf("feed: %+v", err)
	}

	out := make([]byte, 64)
	n, err := f.ReadPacketDefault(out)
	if err != nil {
		t.Fatalf("read_packet: %+v", err)
	}
	if got, want := out[:n], []byte{0xAA, 0x01, 0x02, 0x03}; !bytes.Equal(got, want) {
		t.Fatalf("packet: got=%v want=%v", got, want)
	}

	st := f.Status()
	if st.BadRX != 2 || st.GoodRX != 4 || st.QueuedBytes != 0 {
		t.Fatalf("stats: got=%+v want={BadRX:2 GoodRX:4 QueuedBytes:0}", st)
	}
}

func TestScenario2TwoPacketsFirstMatch(t *testing.T) {
	f := framewire.New(64, aaFourByte, false)
	if err := f.Feed([]byte{0xAA, 1, 2, 3, 0xAA, 4, 5, 6}); err != nil {
		t.Fatalf("feed: %+v", err)
	}

	out := make([]byte, 64)

	n, err := f.ReadPacketDefault(out)
	if err != nil {
		t.Fatalf("first read_packet: %+v", err)
	}
	if got, want := out[:n], []byte{0xAA, 1, 2, 3}; !bytes.Equal(got, want) {
		t.Fatalf("first packet: got=%v want=%v", got, want)
	}

	n, err = f.ReadPacketDefault(out)
	if err != nil {
		t.Fatalf("second read_packet: %+v", err)
	}
	if got, want := out[:n], []byte{0xAA, 4, 5, 6}; !bytes.Equal(got, want) {
		t.Fatalf("second packet: got=%v want=%v", got, want)
	}

	if got, want := f.Status().QueuedBytes, 0; got != want {
		t.Fatalf("queued: got=%d want=%d", got, want)
	}
}

func TestScenario3ExtractLast(t *testing.T) {
	f := framewire.New(64, aaFourByte, true)
	if err := f.Feed([]byte{0xAA, 1, 2, 3, 0xAA, 4, 5, 6}); err != nil {
		t.Fatalf("feed: %+v", err)
	}

	out := make([]byte, 64)
	n, err := f.ReadPacketDefault(out)
	if err != nil {
		t.Fatalf("read_packet: %+v", err)
	}
	if got, want := out[:n], []byte{0xAA, 4, 5, 6}; !bytes.Equal(got, want) {
		t.Fatalf("packet: got=%v want=%v", got, want)
	}

	st := f.Status()
	if st.GoodRX != 8 || st.BadRX != 0 || st.QueuedBytes != 0 {
		t.Fatalf("stats: got=%+v want={GoodRX:8 BadRX:0 QueuedBytes:0}", st)
	}
}

func TestScenario4AlwaysUndecidedLengthViolation(t *testing.T) {
	undecided := func(buf []byte, n int) int { return 0 }
	f := framewire.New(8, undecided, false)

	if err := f.Feed(make([]byte, 8)); err != nil {
		t.Fatalf("feed: %+v", err)
	}

	out := make([]byte, 8)
	_, err := f.ReadPacketDefault(out)
	if !errors.Is(err, framewire.ErrLengthViolation) {
		t.Fatalf("expected length violation, got %+v", err)
	}
}

func TestScenario5NoStreamPacketTimeout(t *testing.T) {
	f := framewire.New(64, aaFourByte, false)
	if err := f.Feed([]byte{0xAA, 1, 2, 3}); err != nil {
		t.Fatalf("feed: %+v", err)
	}

	out := make([]byte, 64)
	n, err := f.ReadPacketDefault(out)
	if err != nil {
		t.Fatalf("first read_packet: %+v", err)
	}
	if got, want := n, 4; got != want {
		t.Fatalf("packet length: got=%d want=%d", got, want)
	}

	_, err = f.ReadPacketDefault(out)
	if !errors.Is(err, framewire.ErrPacketTimeout) {
		t.Fatalf("expected packet timeout, got %+v", err)
	}
}

type countingWriteStream struct {
	*memtest.Stream
	maxWrite int
}

func (s *countingWriteStream) Write(p []byte) (int, error) {
	if len(p) > s.maxWrite {
		p = p[:s.maxWrite]
	}
	return s.Stream.Write(p)
}

func TestScenario6WriteShortWrites(t *testing.T) {
	f := framewire.New(64, aaFourByte, false)
	ms := &countingWriteStream{Stream: memtest.New(1), maxWrite: 3}
	f.SetStream(ms)

	var spans [][]byte
	f.AddListener(listenerFunc{onWrite: func(p []byte) {
		cp := make([]byte, len(p))
		copy(cp, p)
		spans = append(spans, cp)
	}})

	payload := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	if err := f.WritePacketDefault(payload); err != nil {
		t.Fatalf("write_packet: %+v", err)
	}

	if got, want := len(spans), 4; got != want {
		t.Fatalf("number of write spans: got=%d want=%d", got, want)
	}
	wantLens := []int{3, 3, 3, 1}
	for i, want := range wantLens {
		if got := len(spans[i]); got != want {
			t.Fatalf("span %d length: got=%d want=%d", i, got, want)
		}
	}
	if got, want := f.Status().TX, uint64(10); got != want {
		t.Fatalf("tx: got=%d want=%d", got, want)
	}
	if got, want := ms.Stream.Written(), payload; !bytes.Equal(got, want) {
		t.Fatalf("written bytes: got=%v want=%v", got, want)
	}
}

func TestBoundaryMaxPacketSizeOne(t *testing.T) {
	oneByte := func(buf []byte, n int) int {
		if n == 0 {
			return 0
		}
		return 1
	}
	f := framewire.New(1, oneByte, false)
	if err := f.Feed([]byte{0x42}); err != nil {
		t.Fatalf("feed: %+v", err)
	}
	out := make([]byte, 1)
	n, err := f.ReadPacketDefault(out)
	if err != nil {
		t.Fatalf("read_packet: %+v", err)
	}
	if got, want := out[:n], []byte{0x42}; !bytes.Equal(got, want) {
		t.Fatalf("packet: got=%v want=%v", got, want)
	}
}

func TestBoundaryPacketOneByteTooLarge(t *testing.T) {
	undecided := func(buf []byte, n int) int { return 0 }
	f := framewire.New(4, undecided, false)
	if err := f.Feed([]byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("feed: %+v", err)
	}
	out := make([]byte, 4)
	_, err := f.ReadPacketDefault(out)
	if !errors.Is(err, framewire.ErrLengthViolation) {
		t.Fatalf("expected length violation for an oversized packet, got %+v", err)
	}
}

func TestBoundaryFirstByteTimeoutDisabledWhenLarger(t *testing.T) {
	f := framewire.New(64, aaFourByte, false)
	s := memtest.New(7)
	f.SetStream(s)

	out := make([]byte, 64)
	start := time.Now()
	_, err := f.ReadPacket(out, 30*time.Millisecond, 10*time.Second)
	elapsed := time.Since(start)
	if !errors.Is(err, framewire.ErrPacketTimeout) {
		t.Fatalf("expected packet timeout, got %+v", err)
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("first-byte timeout was not disabled: took %v", elapsed)
	}
}

func TestBoundaryZeroPacketTimeoutFirstByteTimeout(t *testing.T) {
	f := framewire.New(64, aaFourByte, false)
	s := memtest.New(9)
	f.SetStream(s)

	out := make([]byte, 64)
	_, err := f.ReadPacket(out, 0, 10*time.Second)
	if !errors.Is(err, framewire.ErrFirstByteTimeout) {
		t.Fatalf("expected first-byte timeout, got %+v", err)
	}
}

func TestHasPacketImpliesImmediateRead(t *testing.T) {
	f := framewire.New(64, aaFourByte, false)
	if err := f.Feed([]byte{0xAA, 1, 2, 3}); err != nil {
		t.Fatalf("feed: %+v", err)
	}
	if !f.HasPacket() {
		t.Fatalf("expected HasPacket to report true")
	}

	out := make([]byte, 64)
	start := time.Now()
	n, err := f.ReadPacket(out, 5*time.Second, 5*time.Second)
	if err != nil {
		t.Fatalf("read_packet: %+v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("HasPacket()==true did not yield an immediate read: took %v", elapsed)
	}
	if got, want := n, 4; got != want {
		t.Fatalf("packet length: got=%d want=%d", got, want)
	}
}

type listenerFunc struct {
	onRead  func([]byte)
	onWrite func([]byte)
}

func (l listenerFunc) OnRead(p []byte) {
	if l.onRead != nil {
		l.onRead(p)
	}
}

func (l listenerFunc) OnWrite(p []byte) {
	if l.onWrite != nil {
		l.onWrite(p)
	}
}

var _ framewire.Listener = listenerFunc{}
