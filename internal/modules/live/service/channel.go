package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"attune/internal/modules/live/domain"
	"attune/internal/modules/live/dto"
	liveout "attune/internal/modules/live/port/out"
)

// Channel owns the persistent push connection. It dials, reads frames,
// redials on any failure after a flat delay, and never gives up until
// Close. Subscribers are invoked from a single goroutine in frame-arrival
// order, after the latest cache has been updated.
type Channel struct {
	source liveout.FrameSource
	delay  time.Duration
	log    *zap.Logger

	mu        sync.Mutex
	state     domain.ConnState
	latest    domain.Update
	subs      []func(domain.Update)
	stateSubs []func(domain.ConnState)
	conn      liveout.FrameConn
	cancel    context.CancelFunc
	started   bool
	closed    bool
}

func NewChannel(source liveout.FrameSource, delay time.Duration, log *zap.Logger) *Channel {
	if log == nil {
		log = zap.NewNop()
	}
	return &Channel{
		source: source,
		delay:  delay,
		log:    log,
		state:  domain.StateConnecting,
	}
}

func (c *Channel) Connect() {
	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	go c.run(ctx)
}

func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *Channel) Latest() domain.Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}

func (c *Channel) State() domain.ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Channel) Subscribe(fn func(domain.Update)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

func (c *Channel) SubscribeState(fn func(domain.ConnState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stateSubs = append(c.stateSubs, fn)
}

func (c *Channel) run(ctx context.Context) {
	for {
		if c.isClosed() {
			return
		}
		c.transition(domain.EventRetryElapsed) // no-op on first pass

		conn, err := c.source.Dial(ctx)
		if err != nil {
			if c.isClosed() {
				return
			}
			c.log.Warn("push channel dial failed", zap.Error(err))
			c.transition(domain.EventDialFail)
			if !c.sleep(ctx) {
				return
			}
			continue
		}

		c.setConn(conn)
		c.transition(domain.EventDialOK)
		c.log.Info("push channel connected")

		c.readLoop(conn)

		c.setConn(nil)
		_ = conn.Close()
		if c.isClosed() {
			return
		}
		c.transition(domain.EventReadFail)
		c.log.Warn("push channel dropped, retrying", zap.Duration("delay", c.delay))
		if !c.sleep(ctx) {
			return
		}
	}
}

// readLoop consumes frames until the connection fails. Malformed frames are
// dropped without touching connection state.
func (c *Channel) readLoop(conn liveout.FrameConn) {
	for {
		data, err := conn.ReadFrame()
		if err != nil {
			return
		}
		update, err := dto.DecodeFrame(data)
		if err != nil {
			c.log.Debug("dropping malformed frame", zap.Error(err))
			continue
		}
		c.dispatch(update)
	}
}

// dispatch updates the latest cache first so subscribers (and late
// subscribers) can read it synchronously, then invokes handlers in order.
func (c *Channel) dispatch(update domain.Update) {
	c.mu.Lock()
	c.latest = update
	subs := make([]func(domain.Update), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(update)
	}
}

func (c *Channel) transition(e domain.ConnEvent) {
	c.mu.Lock()
	next := domain.Next(c.state, e)
	changed := next != c.state
	c.state = next
	subs := make([]func(domain.ConnState), len(c.stateSubs))
	copy(subs, c.stateSubs)
	c.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range subs {
		fn(next)
	}
}

// sleep waits out the flat reconnect delay. Returns false when the channel
// was closed while waiting.
func (c *Channel) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(c.delay):
		return true
	}
}

func (c *Channel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Channel) setConn(conn liveout.FrameConn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}
