package framewire // import "github.com/go-daq/framewire"

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a framewire error into one of the handful of failure
// modes the framing engine and its read/write loops can produce.
type Kind uint8

const (
	// KindLengthViolation marks an extractor overrun, a full buffer
	// without a packet, or a caller buffer smaller than MaxPacketSize.
	KindLengthViolation Kind = iota + 1
	// KindFirstByteTimeout marks no byte received within the active
	// first-byte budget.
	KindFirstByteTimeout
	// KindPacketTimeout marks bytes arrived but no complete packet
	// within the active packet budget (or a zero-FD read on an empty
	// buffer).
	KindPacketTimeout
	// KindNotOpen marks a read or write attempted without an attached
	// stream.
	KindNotOpen
	// KindConfigError marks a bad URI, bad transport parameter, or
	// transport construction failure.
	KindConfigError
	// KindStreamError wraps an underlying transport failure.
	KindStreamError
)

func (k Kind) String() string {
	switch k {
	case KindLengthViolation:
		return "length violation"
	case KindFirstByteTimeout:
		return "first-byte timeout"
	case KindPacketTimeout:
		return "packet timeout"
	case KindNotOpen:
		return "not open"
	case KindConfigError:
		return "configuration error"
	case KindStreamError:
		return "stream error"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Error is the error type returned by framewire operations. It carries a
// Kind so callers can branch with errors.Is/errors.As, and optionally an
// underlying cause for KindStreamError.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("framewire: %s: %s: %v", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("framewire: %s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is a sentinel for the same Kind, so callers
// can write errors.Is(err, framewire.ErrPacketTimeout) and similar.
func (e *Error) Is(target error) bool {
	sentinel, ok := target.(*Error)
	if !ok {
		return false
	}
	return sentinel.Kind == e.Kind && sentinel.msg == ""
}

func newError(kind Kind, msg string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(msg, args...)}
}

func wrapError(kind Kind, err error, msg string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(msg, args...), err: errors.WithStack(err)}
}

// Sentinel errors for use with errors.Is. They carry only a Kind; the
// underlying *Error values returned by framewire operations compare
// equal to these via (*Error).Is.
var (
	ErrLengthViolation  = &Error{Kind: KindLengthViolation}
	ErrFirstByteTimeout = &Error{Kind: KindFirstByteTimeout}
	ErrPacketTimeout    = &Error{Kind: KindPacketTimeout}
	ErrNotOpen          = &Error{Kind: KindNotOpen}
	ErrConfigError      = &Error{Kind: KindConfigError}
	ErrStreamError      = &Error{Kind: KindStreamError}
)
