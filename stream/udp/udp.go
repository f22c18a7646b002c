// Package udp provides framewire Streams backed by UDP sockets: a fixed-peer
// client, a server that remembers the last sender, and a bidirectional
// variant using two separate sockets.
package udp // import "github.com/go-daq/framewire/stream/udp"

import (
	"net"
	"sync"
	"time"

	"github.com/go-daq/framewire/stream"
	"github.com/pkg/errors"
)

// Client is a UDP Stream with a fixed remote peer.
type Client struct {
	c *net.UDPConn
}

// Dial resolves addr and connects a UDP socket to it.
func Dial(addr string) (*Client, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "could not resolve udp addr %q", addr)
	}
	c, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, errors.Wrapf(err, "could not dial udp %q", addr)
	}
	return &Client{c: c}, nil
}

func (c *Client) Read(dst []byte) (int, error) {
	// A deadline already in the past makes the read fail before it looks
	// at the socket, so the deadline is set a millisecond ahead.
	if err := c.c.SetReadDeadline(time.Now().Add(time.Millisecond)); err != nil {
		return 0, err
	}
	n, err := c.c.Read(dst)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, nil
		}
		return n, err
	}
	return n, nil
}

func (c *Client) Write(src []byte) (int, error) {
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

func (c *Client) WaitRead(d time.Duration) error {
	if err := c.c.SetReadDeadline(time.Now().Add(d)); err != nil {
		return err
	}
	var b [1]byte
	_, err := c.c.Read(b[:0])
	return err
}

func (c *Client) WaitWrite(d time.Duration) error {
	if err := c.c.SetWriteDeadline(time.Now().Add(d)); err != nil {
		return err
	}
	return nil
}

func (c *Client) Clear() error { return nil }
func (c *Client) Close() error { return c.c.Close() }
func (c *Client) FD() int      { return stream.NoFD }

// Server is a UDP Stream bound to a local address, accepting packets
// from any peer and remembering the last sender for subsequent writes.
type Server struct {
	c *net.UDPConn

	mu   sync.Mutex
	peer *net.UDPAddr
}

// Listen binds a UDP socket at addr.
func Listen(addr string) (*Server, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "could not resolve udp addr %q", addr)
	}
	c, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, errors.Wrapf(err, "could not listen udp %q", addr)
	}
	return &Server{c: c}, nil
}

// LocalAddr reports the address the server is bound to, useful when
// Listen was given a ":0" port and the caller needs the assigned one.
func (s *Server) LocalAddr() string { return s.c.LocalAddr().String() }

func (s *Server) Read(dst []byte) (int, error) {
	if err := s.c.SetReadDeadline(time.Now().Add(time.Millisecond)); err != nil {
		return 0, err
	}
	n, peer, err := s.c.ReadFromUDP(dst)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, nil
		}
		return n, err
	}
	s.mu.Lock()
	s.peer = peer
	s.mu.Unlock()
	return n, nil
}

func (s *Server) Write(src []byte) (int, error) {
	s.mu.Lock()
	peer := s.peer
	s.mu.Unlock()
	if peer == nil {
		return 0, errors.New("udp server: no peer seen yet to write to")
	}
	if err := s.c.SetWriteDeadline(time.Now().Add(time.Millisecond)); err != nil {
		return 0, err
	}
	n, err := s.c.WriteToUDP(src, peer)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, nil
		}
		return n, err
	}
	return n, nil
}

func (s *Server) WaitRead(d time.Duration) error {
	if err := s.c.SetReadDeadline(time.Now().Add(d)); err != nil {
		return err
	}
	var b [1]byte
	_, _, err := s.c.ReadFromUDP(b[:0])
	return err
}

func (s *Server) WaitWrite(d time.Duration) error { return nil }
func (s *Server) Clear() error                    { return nil }
func (s *Server) Close() error                    { return s.c.Close() }
func (s *Server) FD() int                         { return stream.NoFD }

// Bidi is a UDP Stream using two independent sockets for the outbound and
// inbound directions, matching the "host:out:in" URI form.
type Bidi struct {
	out *net.UDPConn
	in  *net.UDPConn
}

// DialBidi opens an outbound socket connected to outAddr and an inbound
// socket bound to inAddr.
func DialBidi(outAddr, inAddr string) (*Bidi, error) {
	oaddr, err := net.ResolveUDPAddr("udp", outAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "could not resolve udp out-addr %q", outAddr)
	}
	out, err := net.DialUDP("udp", nil, oaddr)
	if err != nil {
		return nil, errors.Wrapf(err, "could not dial udp out-addr %q", outAddr)
	}
	iaddr, err := net.ResolveUDPAddr("udp", inAddr)
	if err != nil {
		out.Close()
		return nil, errors.Wrapf(err, "could not resolve udp in-addr %q", inAddr)
	}
	in, err := net.ListenUDP("udp", iaddr)
	if err != nil {
		out.Close()
		return nil, errors.Wrapf(err, "could not listen udp in-addr %q", inAddr)
	}
	return &Bidi{out: out, in: in}, nil
}

// LocalAddr reports the address the inbound socket is bound to, useful
// when DialBidi was given a ":0" in-port and a peer needs to learn the
// assigned one before it can address its own outbound socket there.
func (b *Bidi) LocalAddr() string { return b.in.LocalAddr().String() }

func (b *Bidi) Read(dst []byte) (int, error) {
	if err := b.in.SetReadDeadline(time.Now().Add(time.Millisecond)); err != nil {
		return 0, err
	}
	n, err := b.in.Read(dst)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, nil
		}
		return n, err
	}
	return n, nil
}

func (b *Bidi) Write(src []byte) (int, error) {
	if err := b.out.SetWriteDeadline(time.Now().Add(time.Millisecond)); err != nil {
		return 0, err
	}
	n, err := b.out.Write(src)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, nil
		}
		return n, err
	}
	return n, nil
}

func (b *Bidi) WaitRead(d time.Duration) error {
	if err := b.in.SetReadDeadline(time.Now().Add(d)); err != nil {
		return err
	}
	var buf [1]byte
	_, err := b.in.Read(buf[:0])
	return err
}

func (b *Bidi) WaitWrite(d time.Duration) error { return nil }
func (b *Bidi) Clear() error                    { return nil }
func (b *Bidi) Close() error {
	err1 := b.out.Close()
	err2 := b.in.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
func (b *Bidi) FD() int { return stream.NoFD }

var (
	_ stream.Stream = (*Client)(nil)
	_ stream.Stream = (*Server)(nil)
	_ stream.Stream = (*Bidi)(nil)
)
