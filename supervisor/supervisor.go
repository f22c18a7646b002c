// Package supervisor provides a high-level API to run a pool of named
// Framer+Stream pairs together, reporting each one's read loop result
// through a single errgroup.
package supervisor // import "github.com/go-daq/framewire/supervisor"

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-daq/framewire"
	"github.com/go-daq/framewire/log"
	"github.com/go-daq/framewire/stream"
	"golang.org/x/sync/errgroup"
)

// Channel couples a Framer to its stream and to the handler that
// consumes the packets it extracts.
type Channel struct {
	Name    string
	Framer  *framewire.Framer
	Stream  stream.Stream
	Handle  func(ctx context.Context, packet []byte) error
	Timeout time.Duration // ReadPacket timeout; 0 uses the Framer's configured default
}

// Pool runs a named collection of Channels concurrently and waits for
// all of them (or the first error) to finish.
type Pool struct {
	msg log.MsgStream

	names map[string]struct{}
	chans []Channel
}

// New creates an empty Pool. No Channel is started until Run is called.
func New() *Pool {
	return &Pool{
		msg:   log.New("supervisor", log.LvlInfo, nil),
		names: make(map[string]struct{}),
	}
}

// Add registers channels to run. Add panics if a duplicate name (by
// Channel.Name) is added.
func (p *Pool) Add(chans ...Channel) {
	for _, c := range chans {
		if _, dup := p.names[c.Name]; dup {
			panic(fmt.Errorf("supervisor: duplicate channel name %q", c.Name))
		}
		p.names[c.Name] = struct{}{}
		p.chans = append(p.chans, c)
	}
}

// Run starts every registered Channel's read loop and blocks until ctx
// is done or a Channel returns an error, at which point Run cancels the
// remaining Channels and returns the first error seen.
func (p *Pool) Run(ctx context.Context) error {
	grp, gctx := errgroup.WithContext(ctx)

	for i := range p.chans {
		c := p.chans[i]
		grp.Go(func() error {
			return p.runChannel(gctx, c)
		})
	}

	return grp.Wait()
}

func (p *Pool) runChannel(ctx context.Context, c Channel) error {
	p.msg.Infof("starting channel %q...", c.Name)

	c.Framer.SetStream(c.Stream)
	out := make([]byte, c.Framer.MaxPacketSize())
	timeout := c.Timeout
	if timeout == 0 {
		timeout = c.Framer.GetReadTimeout()
	}

	for {
		select {
		case <-ctx.Done():
			p.msg.Infof("stopping channel %q...", c.Name)
			return nil
		default:
		}

		n, err := c.Framer.ReadPacketTimeout(out, timeout)
		if err != nil {
			if errors.Is(err, framewire.ErrPacketTimeout) || errors.Is(err, framewire.ErrFirstByteTimeout) {
				continue
			}
			return fmt.Errorf("channel %q: error reading packet: %w", c.Name, err)
		}

		if err := c.Handle(ctx, out[:n]); err != nil {
			return fmt.Errorf("channel %q: error handling packet: %w", c.Name, err)
		}
	}
}
