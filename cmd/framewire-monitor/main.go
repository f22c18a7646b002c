// Command framewire-monitor is an interactive shell for driving a
// Framer against a live transport: open a URI, read packets as they
// arrive, write hand-entered hex payloads, and inspect running Stats.
package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-daq/framewire"
	"github.com/go-daq/framewire/config"
	"github.com/go-daq/framewire/log"
	"github.com/go-daq/framewire/uri"
	"github.com/go-daq/framewire/wire"
	"github.com/peterh/liner"
)

func main() {
	def := config.Default()

	var (
		maxPacket = flag.Int("max-packet", def.MaxPacketSize, "max packet size")
		syncHex   = flag.String("sync", "deadbeef", "hex-encoded sync sequence framing each packet")
		extLast   = flag.Bool("extract-last", def.ExtractLast, "use the extract-last packet selection policy")
	)
	flag.Parse()

	sync, err := decodeHex(*syncHex)
	if err != nil {
		log.Fatalf("bad -sync value %q: %+v", *syncHex, err)
	}

	extract := wire.SyncLengthExtractor(sync, *maxPacket)
	f := framewire.New(*maxPacket, extract, *extLast)
	f.SetReadTimeout(def.ReadTimeout)
	f.SetWriteTimeout(def.WriteTimeout)

	sh := &shell{f: f, out: make([]byte, *maxPacket)}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println("framewire-monitor -- type 'help' for a list of commands")
	for {
		cmd, err := line.Prompt("framewire> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				return
			}
			log.Errorf("prompt error: %+v", err)
			return
		}
		cmd = strings.TrimSpace(cmd)
		if cmd == "" {
			continue
		}
		line.AppendHistory(cmd)

		if sh.dispatch(cmd) {
			return
		}
	}
}

type shell struct {
	f   *framewire.Framer
	out []byte
}

func (sh *shell) dispatch(line string) (quit bool) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		sh.help()
	case "open":
		sh.open(args)
	case "close":
		sh.close()
	case "read":
		sh.read(args)
	case "write":
		sh.write(args)
	case "status":
		sh.status()
	case "quit", "exit":
		return true
	default:
		fmt.Printf("unknown command %q; type 'help'\n", cmd)
	}
	return false
}

func (sh *shell) help() {
	fmt.Println(`commands:
  open <uri>        open a transport, e.g. open tcp://localhost:6000
  close             close the current transport
  read [timeout]    read one packet (default timeout: 2s)
  write <hex>       write a hex-encoded packet payload
  status            print the running byte-accounting stats
  quit              exit the shell`)
}

func (sh *shell) open(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: open <uri>")
		return
	}
	s, err := uri.Open(args[0])
	if err != nil {
		fmt.Printf("could not open %q: %+v\n", args[0], err)
		return
	}
	sh.f.SetStream(s)
	fmt.Printf("opened %q\n", args[0])
}

func (sh *shell) close() {
	if err := sh.f.Close(); err != nil {
		fmt.Printf("error closing transport: %+v\n", err)
	}
}

func (sh *shell) read(args []string) {
	timeout := 2 * time.Second
	if len(args) == 1 {
		d, err := time.ParseDuration(args[0])
		if err != nil {
			fmt.Printf("bad timeout %q: %+v\n", args[0], err)
			return
		}
		timeout = d
	}

	n, err := sh.f.ReadPacketTimeout(sh.out, timeout)
	if err != nil {
		fmt.Printf("read error: %+v\n", err)
		return
	}
	fmt.Printf("packet (%d bytes): %s\n", n, framewire.Hex(sh.out[:n]))
}

func (sh *shell) write(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: write <hex>")
		return
	}
	payload, err := decodeHex(args[0])
	if err != nil {
		fmt.Printf("bad hex payload: %+v\n", err)
		return
	}
	if err := sh.f.WritePacketDefault(payload); err != nil {
		fmt.Printf("write error: %+v\n", err)
		return
	}
	fmt.Printf("wrote %d bytes\n", len(payload))
}

func (sh *shell) status() {
	st := sh.f.Status()
	fmt.Printf("tx=%d good_rx=%d bad_rx=%d queued=%d last_activity=%s\n",
		st.TX, st.GoodRX, st.BadRX, st.QueuedBytes, st.LastActivity.Format(time.RFC3339))
}

func decodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd-length hex string %q", s)
	}
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
		return 0, fmt.Errorf("invalid hex digit %q", c)
	}
}
