// Package uri dispatches "scheme://body[:port]" strings to a concrete
// framewire stream.Stream, per spec.md §6.2. It is a thin convenience
// layer outside the framing engine's core: the core only ever receives
// the already-configured Stream this package produces.
package uri // import "github.com/go-daq/framewire/uri"

import (
	"strconv"
	"strings"

	"github.com/go-daq/framewire/stream"
	"github.com/go-daq/framewire/stream/file"
	"github.com/go-daq/framewire/stream/memtest"
	"github.com/go-daq/framewire/stream/serial"
	"github.com/go-daq/framewire/stream/tcp"
	"github.com/go-daq/framewire/stream/udp"
	"github.com/pkg/errors"
)

// ErrUnknownScheme is wrapped into the returned error for an
// unrecognized scheme.
var ErrUnknownScheme = errors.New("uri: unknown scheme")

// Open parses raw and opens the corresponding transport.
//
// Recognized forms:
//
//	serial://<device>:<baud>
//	tcp://<host>:<port>
//	udp://<host>:<port>                  (fixed-peer client)
//	udp://<host>:<outport>:<inport>       (bidirectional)
//	udpserver://<bindaddr>:<port>
//	file://<path>
//	test://<name>                        (in-process memtest.Stream registered under name)
func Open(raw string) (stream.Stream, error) {
	scheme, body, ok := strings.Cut(raw, "://")
	if !ok {
		return nil, errors.Errorf("uri: %q is missing a scheme", raw)
	}

	switch scheme {
	case "serial":
		dev, baudStr, ok := strings.Cut(body, ":")
		if !ok {
			return nil, errors.Errorf("uri: serial URI %q missing baud rate", raw)
		}
		baud, err := strconv.Atoi(baudStr)
		if err != nil {
			return nil, errors.Wrapf(err, "uri: bad baud rate in %q", raw)
		}
		return serial.Open(dev, baud)

	case "tcp":
		return tcp.Dial(body)

	case "udp":
		parts := strings.Split(body, ":")
		switch len(parts) {
		case 2:
			return udp.Dial(body)
		case 3:
			host, outPort, inPort := parts[0], parts[1], parts[2]
			return udp.DialBidi(host+":"+outPort, host+":"+inPort)
		default:
			return nil, errors.Errorf("uri: bad udp URI %q", raw)
		}

	case "udpserver":
		return udp.Listen(body)

	case "file":
		return file.Open(body, true)

	case "test":
		s, ok := memtest.Lookup(body)
		if !ok {
			return nil, errors.Errorf("uri: no test stream registered under %q", body)
		}
		return s, nil

	default:
		return nil, errors.Wrapf(ErrUnknownScheme, "%q", scheme)
	}
}
