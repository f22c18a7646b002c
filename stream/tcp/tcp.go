// Package tcp provides a framewire Stream backed by a TCP connection.
package tcp // import "github.com/go-daq/framewire/stream/tcp"

import (
	"net"
	"time"

	"github.com/go-daq/framewire/log"
	"github.com/go-daq/framewire/stream"
	"github.com/pkg/errors"
)

// Conn is a framewire Stream backed by a *net.TCPConn. Go's net package
// has no portable non-blocking-select primitive for a single conn, so
// WaitRead performs a deadline-bounded one-byte lookahead read and
// stashes the byte for the next Read call, keeping Read itself
// non-blocking and zero-copy for the caller's own buffer.
type Conn struct {
	c       *net.TCPConn
	pending []byte
}

// Dial connects to addr ("host:port") and returns a ready Stream.
func Dial(addr string) (*Conn, error) {
	raw, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "could not dial tcp %q", addr)
	}
	c := raw.(*net.TCPConn)
	setup(c)
	return &Conn{c: c}, nil
}

// New wraps an already-connected *net.TCPConn.
func New(c *net.TCPConn) *Conn {
	setup(c)
	return &Conn{c: c}
}

func setup(c *net.TCPConn) {
	if err := c.SetNoDelay(true); err != nil {
		log.Warnf("could not set TCP_NODELAY: %v", err)
	}
	if err := c.SetKeepAlive(true); err != nil {
		log.Warnf("could not set keep-alive: %v", err)
	}
}

func (c *Conn) Read(dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	n := 0
	if len(c.pending) > 0 {
		n = copy(dst, c.pending)
		c.pending = c.pending[n:]
		if n == len(dst) {
			return n, nil
		}
	}

	// A deadline already in the past makes the read fail before it looks
	// at the socket, so the deadline is set a millisecond ahead.
	if err := c.c.SetReadDeadline(time.Now().Add(time.Millisecond)); err != nil {
		return n, err
	}
	m, err := c.c.Read(dst[n:])
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, nil
		}
		if n > 0 {
			return n, nil
		}
		return n, err
	}
	return n + m, nil
}

func (c *Conn) Write(src []byte) (int, error) {
	if err := c.c.SetWriteDeadline(time.Now().Add(time.Millisecond)); err != nil {
		return 0, err
	}
	n, err := c.c.Write(src)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, nil
		}
		return n, err
	}
	return n, nil
}

func (c *Conn) WaitRead(d time.Duration) error {
	if len(c.pending) > 0 {
		return nil
	}
	if err := c.c.SetReadDeadline(time.Now().Add(d)); err != nil {
		return err
	}
	var b [1]byte
	n, err := c.c.Read(b[:])
	if n > 0 {
		c.pending = append(c.pending, b[:n]...)
	}
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() && n > 0 {
			return nil
		}
		return err
	}
	return nil
}

func (c *Conn) WaitWrite(d time.Duration) error {
	// TCP sockets are writable far more often than not. The zero-length
	// write returns at once without waiting for send-buffer space, so
	// WaitWrite does not block; Write itself waits up to a millisecond.
	if err := c.c.SetWriteDeadline(time.Now().Add(d)); err != nil {
		return err
	}
	_, err := c.c.Write(nil)
	return err
}

func (c *Conn) Clear() error {
	c.pending = nil
	return nil
}
func (c *Conn) Close() error { return c.c.Close() }
func (c *Conn) FD() int      { return stream.NoFD }

var _ stream.Stream = (*Conn)(nil)
