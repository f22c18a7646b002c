// Package iomux provides simple goroutine-safe I/O primitives, used to
// let several concurrently-running Framers (as driven by a supervisor
// Pool) share one underlying log destination without interleaving
// writes mid-line.
package iomux // import "github.com/go-daq/framewire/internal/iomux"

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Writer is a goroutine-safe io.Writer.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter wraps w with a mutex guarding every Write call.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	n, err := w.w.Write(p)
	w.mu.Unlock()
	return n, err
}

func (w *Writer) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var o strings.Builder
	fmt.Fprintf(&o, "%v", w.w)
	return o.String()
}

var _ io.Writer = (*Writer)(nil)
