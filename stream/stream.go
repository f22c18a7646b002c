// Package stream defines the abstract byte-transport contract a Framer
// drives, and the sentinel used to mean "no file descriptor".
package stream // import "github.com/go-daq/framewire/stream"

import "time"

// NoFD marks a Stream that has no underlying file descriptor.
const NoFD = -1

// Stream is the abstract bidirectional byte transport a Framer drives.
// Read and Write are non-blocking: Read returns 0 when no data is
// available now, Write may return 0. WaitRead/WaitWrite block up to
// duration and return a timeout error if nothing becomes ready. Clear
// discards any bytes buffered inside the transport itself (not the
// Framer's internal buffer).
type Stream interface {
	// Read copies up to len(dst) bytes into dst without blocking,
	// returning the number of bytes read. 0 means no data available.
	Read(dst []byte) (int, error)

	// Write writes up to len(src) bytes without blocking, returning the
	// number of bytes written. 0 is a legal result.
	Write(src []byte) (int, error)

	// WaitRead blocks up to d for the stream to become readable.
	WaitRead(d time.Duration) error

	// WaitWrite blocks up to d for the stream to become writable.
	WaitWrite(d time.Duration) error

	// Clear discards any bytes buffered inside the transport.
	Clear() error

	// Close releases the stream's resources.
	Close() error

	// FD returns an integer handle for the stream, or NoFD if none.
	FD() int
}
