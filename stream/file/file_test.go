package file_test

import (
	"os"
	"testing"
	"time"

	"github.com/go-daq/framewire/stream/file"
)

func TestReadWriteOverPipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %+v", err)
	}

	rs := file.New(r, true)
	ws := file.New(w, true)
	defer rs.Close()
	defer ws.Close()

	want := []byte("hello-pipe")
	go func() {
		ws.Write(want)
	}()

	if err := rs.WaitRead(time.Second); err != nil {
		t.Fatalf("wait-read: %+v", err)
	}
	buf := make([]byte, 64)
	n, err := rs.Read(buf)
	if err != nil {
		t.Fatalf("read: %+v", err)
	}
	if got := string(buf[:n]); got != string(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCloseWithoutAutoCloseLeavesFileOpen(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %+v", err)
	}
	defer r.Close()
	defer w.Close()

	rs := file.New(r, false)
	if err := rs.Close(); err != nil {
		t.Fatalf("close: %+v", err)
	}

	// the underlying *os.File must still be open: a write on the other
	// end followed by a read through rs should still succeed.
	if _, err := w.Write([]byte("still-open")); err != nil {
		t.Fatalf("write: %+v", err)
	}
	if err := rs.WaitRead(time.Second); err != nil {
		t.Fatalf("wait-read after Stream.Close with autoClose=false: %+v", err)
	}
	buf := make([]byte, 32)
	n, err := rs.Read(buf)
	if err != nil {
		t.Fatalf("read after Stream.Close with autoClose=false: %+v", err)
	}
	if got, want := string(buf[:n]), "still-open"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
