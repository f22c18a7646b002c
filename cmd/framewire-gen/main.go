// Command framewire-gen is a simple program that generates synthetic
// sync+length framed packets and writes them to a transport, useful for
// exercising a Framer-based reader without real hardware attached.
package main

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-daq/framewire/log"
	"github.com/go-daq/framewire/uri"
	"github.com/go-daq/framewire/wire"
	"golang.org/x/exp/rand"
)

func main() {
	var (
		addr    = flag.String("addr", "tcp://localhost:6000", "transport URI to write framed packets to")
		n       = flag.Int("n", 100, "number of packets to generate (0: unbounded)")
		size    = flag.Int("size", 32, "payload size, in bytes, of each generated packet")
		freq    = flag.Duration("freq", 10*time.Millisecond, "generation frequency")
		seed    = flag.Uint64("seed", 1234, "seed for the random number generator")
		lvl     = flag.String("lvl", "INFO", "msgstream level")
		syncHex = flag.String("sync", "deadbeef", "hex-encoded sync sequence prefixing each packet")
	)
	flag.Parse()
	log.Default = log.New("framewire-gen", parseLevel(*lvl), os.Stdout)

	sync, err := decodeHex(*syncHex)
	if err != nil {
		log.Fatalf("bad -sync value %q: %+v", *syncHex, err)
	}

	s, err := uri.Open(*addr)
	if err != nil {
		log.Fatalf("could not open %q: %+v", *addr, err)
	}
	defer s.Close()

	rng := rand.New(rand.NewSource(*seed))
	enc := wire.NewEncoder(streamWriter{s})

	tick := time.NewTicker(*freq)
	defer tick.Stop()

	for i := 0; *n == 0 || i < *n; i++ {
		<-tick.C
		payload := make([]byte, *size)
		rng.Read(payload)
		enc.WritePacket(sync, payload)
		if err := enc.Err(); err != nil {
			log.Fatalf("could not write packet %d: %+v", i, err)
		}
		log.Infof("wrote packet %d (%d bytes)", i, *size)
	}
}

func parseLevel(lvl string) log.Level {
	lvl = strings.ToLower(lvl)
	switch {
	case strings.HasPrefix(lvl, "dbg"), strings.HasPrefix(lvl, "debug"):
		return log.LvlDebug
	case strings.HasPrefix(lvl, "info"):
		return log.LvlInfo
	case strings.HasPrefix(lvl, "warn"):
		return log.LvlWarning
	case strings.HasPrefix(lvl, "err"):
		return log.LvlError
	default:
		v, err := strconv.Atoi(lvl)
		if err != nil {
			log.Fatalf("unknown level value %q: %+v", lvl, err)
		}
		return log.Level(v)
	}
}

func decodeHex(s string) ([]byte, error) {
	out := make([]byte, len(s)/2)
	for i := range out {
		hi, err := hexDigit(s[2*i])
		if err != nil {
			return nil, err
		}
		lo, err := hexDigit(s[2*i+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexDigit(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, os.ErrInvalid
	}
}

// streamWriter adapts a stream.Stream's non-blocking Write into a
// plain io.Writer that retries until everything is written, for the
// generator's simple write-and-sleep loop.
type streamWriter struct {
	w interface {
		Write([]byte) (int, error)
	}
}

func (s streamWriter) Write(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := s.w.Write(p[total:])
		if err != nil {
			return total, err
		}
		if n == 0 {
			time.Sleep(time.Millisecond)
			continue
		}
		total += n
	}
	return total, nil
}
