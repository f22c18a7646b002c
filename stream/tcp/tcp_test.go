package tcp_test

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/go-daq/framewire/stream"
	"github.com/go-daq/framewire/stream/tcp"
)

func TestDialReadWrite(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("could not start listener: %+v", err)
	}
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		accepted <- c
	}()

	cli, err := tcp.Dial(ln.Addr().String())
	if err != nil {
		t.Fatalf("could not dial %q: %+v", ln.Addr(), err)
	}
	defer cli.Close()

	var srv net.Conn
	select {
	case srv = <-accepted:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for server accept")
	}
	defer srv.Close()

	if _, err := srv.Write([]byte("hello")); err != nil {
		t.Fatalf("server write: %+v", err)
	}

	if err := cli.WaitRead(time.Second); err != nil {
		t.Fatalf("WaitRead: %+v", err)
	}

	buf := make([]byte, 16)
	n, err := cli.Read(buf)
	if err != nil {
		t.Fatalf("read: %+v", err)
	}
	if got, want := buf[:n], []byte("hello"); !bytes.Equal(got, want) {
		t.Fatalf("read: got=%q want=%q", got, want)
	}

	if got, want := cli.FD(), stream.NoFD; got != want {
		t.Fatalf("FD: got=%d want=%d", got, want)
	}
}

func TestWaitReadTimeout(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("could not start listener: %+v", err)
	}
	defer ln.Close()

	go func() {
		c, err := ln.Accept()
		if err == nil {
			defer c.Close()
			time.Sleep(time.Second)
		}
	}()

	cli, err := tcp.Dial(ln.Addr().String())
	if err != nil {
		t.Fatalf("could not dial %q: %+v", ln.Addr(), err)
	}
	defer cli.Close()

	start := time.Now()
	err = cli.WaitRead(30 * time.Millisecond)
	if err == nil {
		t.Fatalf("expected a timeout error")
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Fatalf("WaitRead took too long to time out: %v", elapsed)
	}
}
