// Package file provides a framewire Stream backed by a raw file
// descriptor (a character device, a FIFO, or a plain file).
package file // import "github.com/go-daq/framewire/stream/file"

import (
	"io"
	"os"
	"time"

	"github.com/go-daq/framewire/stream"
	"github.com/pkg/errors"
)

// File is a framewire Stream backed by an *os.File. WaitRead is
// best-effort (see its doc) and WaitWrite returns immediately. FD()
// reports the underlying file descriptor.
type File struct {
	f         *os.File
	autoClose bool
}

// Open opens path for reading and writing and wraps it as a Stream.
// autoClose controls whether Close() closes the underlying *os.File.
func Open(path string, autoClose bool) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %q", path)
	}
	return &File{f: f, autoClose: autoClose}, nil
}

// New wraps an already-open *os.File.
func New(f *os.File, autoClose bool) *File {
	return &File{f: f, autoClose: autoClose}
}

func (s *File) Read(dst []byte) (int, error) {
	n, err := s.f.Read(dst)
	if err == io.EOF {
		return n, nil
	}
	return n, err
}

func (s *File) Write(src []byte) (int, error) {
	return s.f.Write(src)
}

// WaitRead tries a deadline on the descriptor (works for pipes and most
// character devices on Unix) and falls back to sleeping out the full
// budget for descriptors that don't support deadlines (plain files).
func (s *File) WaitRead(d time.Duration) error {
	if err := s.f.SetReadDeadline(time.Now().Add(d)); err != nil {
		time.Sleep(d)
		return nil
	}
	var b [1]byte
	_, err := s.f.Read(b[:0])
	_ = s.f.SetReadDeadline(time.Time{})
	return err
}

func (s *File) WaitWrite(d time.Duration) error { return nil }

func (s *File) Clear() error { return nil }

func (s *File) Close() error {
	if !s.autoClose {
		return nil
	}
	return s.f.Close()
}

func (s *File) FD() int { return int(s.f.Fd()) }

var _ stream.Stream = (*File)(nil)
