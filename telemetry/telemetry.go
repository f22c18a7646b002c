// Package telemetry publishes a running Framer's activity over a
// nanomsg PUB socket: one message per read/write span plus a periodic
// snapshot of its byte-accounting Stats. Any number of SUB peers may
// attach without affecting the Framer's own read/write loop.
package telemetry // import "github.com/go-daq/framewire/telemetry"

import (
	"bytes"
	"context"
	"time"

	"github.com/go-daq/framewire"
	"github.com/go-daq/framewire/log"
	"github.com/go-daq/framewire/wire"
	"github.com/pkg/errors"
	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"

	_ "go.nanomsg.org/mangos/v3/transport/ipc"
	_ "go.nanomsg.org/mangos/v3/transport/tcp"
)

// EventKind distinguishes the telemetry messages published on the
// socket.
type EventKind uint8

const (
	EventPacketRead  EventKind = 1
	EventPacketWrite EventKind = 2
	EventSnapshot    EventKind = 3
)

// Publisher republishes a Framer's listener callbacks and periodic
// Stats snapshots onto a nanomsg PUB endpoint.
type Publisher struct {
	sck mangos.Socket
	msg log.MsgStream

	framer *framewire.Framer
	handle framewire.ListenerHandle
	period time.Duration
	cancel context.CancelFunc
}

// Listen creates a PUB socket bound to ep (e.g. "tcp://:5678") and
// starts republishing f's activity on it. period controls how often a
// Stats snapshot is published; period <= 0 disables snapshots.
func Listen(ep string, f *framewire.Framer, period time.Duration) (*Publisher, error) {
	sck, err := pub.NewSocket()
	if err != nil {
		return nil, errors.Wrapf(err, "telemetry: could not create PUB socket")
	}
	if err := sck.Listen(ep); err != nil {
		_ = sck.Close()
		return nil, errors.Wrapf(err, "telemetry: could not listen on %q", ep)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Publisher{
		sck:    sck,
		msg:    log.New("telemetry", log.LvlInfo, nil),
		framer: f,
		period: period,
		cancel: cancel,
	}
	p.handle = f.AddListener(p)

	if period > 0 {
		go p.snapshotLoop(ctx)
	}

	return p, nil
}

func (p *Publisher) OnRead(b []byte)  { p.publish(EventPacketRead, uint64(len(b))) }
func (p *Publisher) OnWrite(b []byte) { p.publish(EventPacketWrite, uint64(len(b))) }

func (p *Publisher) publish(kind EventKind, n uint64) {
	buf := new(bytes.Buffer)
	enc := wire.NewEncoder(buf)
	enc.WriteU8(uint8(kind))
	enc.WriteU64(n)
	if err := enc.Err(); err != nil {
		p.msg.Errorf("telemetry: could not encode event: %+v", err)
		return
	}
	if err := p.sck.Send(buf.Bytes()); err != nil {
		p.msg.Errorf("telemetry: could not send event: %+v", err)
	}
}

func (p *Publisher) snapshotLoop(ctx context.Context) {
	ticks := time.NewTicker(p.period)
	defer ticks.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks.C:
			p.publishSnapshot()
		}
	}
}

func (p *Publisher) publishSnapshot() {
	st := p.framer.Status()
	buf := new(bytes.Buffer)
	enc := wire.NewEncoder(buf)
	enc.WriteU8(uint8(EventSnapshot))
	enc.WriteU64(st.TX)
	enc.WriteU64(st.GoodRX)
	enc.WriteU64(st.BadRX)
	enc.WriteU64(uint64(st.QueuedBytes))
	if err := enc.Err(); err != nil {
		p.msg.Errorf("telemetry: could not encode snapshot: %+v", err)
		return
	}
	if err := p.sck.Send(buf.Bytes()); err != nil {
		p.msg.Errorf("telemetry: could not send snapshot: %+v", err)
	}
}

// Close stops the snapshot loop, detaches from the Framer, and closes
// the PUB socket.
func (p *Publisher) Close() error {
	p.cancel()
	p.framer.RemoveListener(p.handle)
	return p.sck.Close()
}

var _ framewire.Listener = (*Publisher)(nil)
