// Package log provides leveled, formatted logging for framewire's
// ambient tooling (stream implementations, the supervisor, the CLI
// tools). The framing engine itself never logs.
package log // import "github.com/go-daq/framewire/log"

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-daq/framewire/internal/iomux"
)

// Level regulates the verbosity of a message stream.
type Level int

const (
	LvlDebug   Level = -10
	LvlInfo    Level = 0
	LvlWarning Level = 10
	LvlError   Level = 20
)

func (lvl Level) String() string {
	switch lvl {
	case LvlDebug:
		return "DEBUG"
	case LvlInfo:
		return "INFO"
	case LvlWarning:
		return "WARN"
	case LvlError:
		return "ERROR"
	default:
		panic(fmt.Errorf("log: invalid level value %d", int(lvl)))
	}
}

func (lvl Level) tag() string {
	switch lvl {
	case LvlDebug:
		return "DBG "
	case LvlInfo:
		return "INFO"
	case LvlWarning:
		return "WARN"
	case LvlError:
		return "ERR "
	default:
		panic(fmt.Errorf("log: invalid level value %d", int(lvl)))
	}
}

// MsgStream provides leveled, printf-style logging.
type MsgStream interface {
	Debugf(format string, a ...interface{})
	Infof(format string, a ...interface{})
	Warnf(format string, a ...interface{})
	Errorf(format string, a ...interface{})
	Msg(lvl Level, format string, a ...interface{})
}

type msgstream struct {
	lvl Level
	w   io.Writer
	tag string
}

// New creates a MsgStream named name, writing to w at minimum verbosity
// lvl. A nil w defaults to os.Stdout. w is wrapped in a goroutine-safe
// writer, since several Framers (e.g. the channels of a supervisor
// Pool) commonly log to the same destination concurrently.
func New(name string, lvl Level, w io.Writer) MsgStream {
	if w == nil {
		w = os.Stdout
	}
	return &msgstream{lvl: lvl, w: iomux.NewWriter(w), tag: fmt.Sprintf("%-20s ", name)}
}

func (m *msgstream) Debugf(format string, a ...interface{}) { m.Msg(LvlDebug, format, a...) }
func (m *msgstream) Infof(format string, a ...interface{})  { m.Msg(LvlInfo, format, a...) }
func (m *msgstream) Warnf(format string, a ...interface{})  { m.Msg(LvlWarning, format, a...) }
func (m *msgstream) Errorf(format string, a ...interface{}) { m.Msg(LvlError, format, a...) }

func (m *msgstream) Msg(lvl Level, format string, a ...interface{}) {
	if lvl < m.lvl {
		return
	}
	eol := ""
	if !strings.HasSuffix(format, "\n") {
		eol = "\n"
	}
	fmt.Fprintf(m.w, m.tag+lvl.tag()+" "+format+eol, a...)
}

// Default is the package-level message stream used by the free
// functions below.
var Default = New("framewire", LvlDebug, os.Stdout)

func Debugf(format string, a ...interface{}) { Default.Debugf(format, a...) }
func Infof(format string, a ...interface{})  { Default.Infof(format, a...) }
func Warnf(format string, a ...interface{})  { Default.Warnf(format, a...) }
func Errorf(format string, a ...interface{}) { Default.Errorf(format, a...) }

// Fatalf logs at error level then exits the process with status 1.
func Fatalf(format string, a ...interface{}) {
	Default.Errorf(format, a...)
	os.Exit(1)
}

// Panicf logs at error level then panics with the formatted message.
func Panicf(format string, a ...interface{}) {
	Default.Errorf(format, a...)
	panic(fmt.Sprintf(format, a...))
}
