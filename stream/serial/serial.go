// Package serial provides a framewire Stream backed by a serial line.
package serial // import "github.com/go-daq/framewire/stream/serial"

import (
	"time"

	"github.com/go-daq/framewire/stream"
	"github.com/pkg/errors"
	goserial "go.bug.st/serial"
)

// Port is a framewire Stream backed by a serial line. Like stream/tcp,
// WaitRead uses a deadline-bounded one-byte lookahead and stashes the
// byte read for the next Read call, since go.bug.st/serial exposes a
// read-timeout knob but no separate readiness wait.
type Port struct {
	p       goserial.Port
	pending []byte
}

// Open opens name (e.g. "/dev/ttyUSB0", "COM3") at the given baud rate,
// 8 data bits, no parity, one stop bit.
func Open(name string, baud int) (*Port, error) {
	mode := &goserial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   goserial.NoParity,
		StopBits: goserial.OneStopBit,
	}
	p, err := goserial.Open(name, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open serial port %q at %d baud", name, baud)
	}
	if err := p.SetReadTimeout(0); err != nil {
		p.Close()
		return nil, errors.Wrap(err, "could not set serial read timeout")
	}
	return &Port{p: p}, nil
}

func (s *Port) Read(dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	n := 0
	if len(s.pending) > 0 {
		n = copy(dst, s.pending)
		s.pending = s.pending[n:]
		if n == len(dst) {
			return n, nil
		}
	}
	if err := s.p.SetReadTimeout(0); err != nil {
		return n, err
	}
	m, err := s.p.Read(dst[n:])
	if err != nil {
		return n, err
	}
	return n + m, nil
}

func (s *Port) Write(src []byte) (int, error) {
	return s.p.Write(src)
}

func (s *Port) WaitRead(d time.Duration) error {
	if len(s.pending) > 0 {
		return nil
	}
	if err := s.p.SetReadTimeout(d); err != nil {
		return err
	}
	var b [1]byte
	n, err := s.p.Read(b[:])
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("serial: wait for readability timed out")
	}
	s.pending = append(s.pending, b[:n]...)
	return nil
}

func (s *Port) WaitWrite(d time.Duration) error {
	// go.bug.st/serial has no writability wait; writes to an open serial
	// line virtually never block under this library's buffering, so
	// treat it as immediately writable.
	return nil
}

func (s *Port) Clear() error { return s.p.ResetInputBuffer() }
func (s *Port) Close() error { return s.p.Close() }
func (s *Port) FD() int      { return stream.NoFD }

var _ stream.Stream = (*Port)(nil)
