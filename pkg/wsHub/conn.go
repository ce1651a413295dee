package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	"github.com/Temutjin2k/bus-tracker/pkg/metrics"
)

var (
	ErrQueueFull  = fmt.Errorf("%w: send queue full", types.ErrDelivery)
	ErrConnClosed = fmt.Errorf("%w: connection closed", types.ErrDelivery)
)

type State int32

const (
	StateConnecting State = iota
	StateActive
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

type Config struct {
	SendQueueSize  int
	MaxOverflows   int
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
}

func DefaultConfig() Config {
	return Config{
		SendQueueSize:  64,
		MaxOverflows:   3,
		PingPeriod:     54 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4096,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SendQueueSize <= 0 {
		c.SendQueueSize = d.SendQueueSize
	}
	if c.MaxOverflows <= 0 {
		c.MaxOverflows = d.MaxOverflows
	}
	if c.PongWait <= 0 {
		c.PongWait = d.PongWait
	}
	if c.PingPeriod <= 0 || c.PingPeriod >= c.PongWait {
		c.PingPeriod = c.PongWait * 9 / 10
	}
	if c.WriteWait <= 0 {
		c.WriteWait = d.WriteWait
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	return c
}

// Conn is one websocket observer. Send never blocks: messages go to a bounded queue
// drained by a single writer goroutine. When the queue is full the oldest message is dropped;
// MaxOverflows consecutive drops close the connection.
type Conn struct {
	id   uuid.UUID
	conn *websocket.Conn
	cfg  Config

	state atomic.Int32
	send  chan []byte
	done  chan struct{}

	enqueueMu sync.Mutex
	overflows int
	holding   bool
	held      [][]byte

	closeOnce sync.Once
	hooksMu   sync.Mutex
	hooksRan  bool
	onClose   []func()
}

// NewConn wraps an upgraded connection and starts its writer.
func NewConn(conn *websocket.Conn, cfg Config) *Conn {
	return newConn(conn, cfg, true)
}

func newConn(conn *websocket.Conn, cfg Config, startWriter bool) *Conn {
	cfg = cfg.withDefaults()
	c := &Conn{
		id:   uuid.New(),
		conn: conn,
		cfg:  cfg,
		send: make(chan []byte, cfg.SendQueueSize),
		done: make(chan struct{}),
	}
	c.state.Store(int32(StateConnecting))

	if startWriter {
		go c.writePump()
	}

	return c
}

func (c *Conn) ID() uuid.UUID {
	return c.id
}

func (c *Conn) State() State {
	return State(c.state.Load())
}

// Done is closed once the connection starts closing.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Activate moves Connecting to Active. False if the connection is already closing.
func (c *Conn) Activate() bool {
	return c.state.CompareAndSwap(int32(StateConnecting), int32(StateActive))
}

// OnClose registers fn to run once when the connection closes.
// Registered after close, fn runs immediately.
func (c *Conn) OnClose(fn func()) {
	c.hooksMu.Lock()
	if c.hooksRan {
		c.hooksMu.Unlock()
		fn()
		return
	}
	c.onClose = append(c.onClose, fn)
	c.hooksMu.Unlock()
}

// Send enqueues payload for delivery. While the connection is held, payload is
// buffered until Release.
func (c *Conn) Send(payload []byte) error {
	if c.State() >= StateClosing {
		return ErrConnClosed
	}

	c.enqueueMu.Lock()
	defer c.enqueueMu.Unlock()

	if c.holding {
		if len(c.held) >= c.cfg.SendQueueSize {
			c.held = c.held[1:]
			metrics.FanoutDroppedTotal.Inc()
		}
		c.held = append(c.held, payload)
		return nil
	}

	return c.enqueue(payload)
}

// Hold buffers every Send until Release. Call it before reading a snapshot so that
// updates pushed while the snapshot is built are delivered after it.
func (c *Conn) Hold() {
	c.enqueueMu.Lock()
	c.holding = true
	c.enqueueMu.Unlock()
}

// Release enqueues first (when non-nil), then the messages buffered since Hold,
// and resumes direct delivery.
func (c *Conn) Release(first []byte) error {
	c.enqueueMu.Lock()
	defer c.enqueueMu.Unlock()

	held := c.held
	c.held = nil
	c.holding = false

	if c.State() >= StateClosing {
		return ErrConnClosed
	}

	var err error
	if first != nil {
		err = c.enqueue(first)
	}
	for _, payload := range held {
		if qerr := c.enqueue(payload); qerr != nil {
			return qerr
		}
	}
	return err
}

// ReleaseJSON marshals v and releases the connection with it as the first message.
// The buffer is released even when v cannot be marshalled.
func (c *Conn) ReleaseJSON(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		_ = c.Release(nil)
		return fmt.Errorf("marshal: %w", err)
	}
	return c.Release(payload)
}

// enqueue expects c.enqueueMu to be held.
func (c *Conn) enqueue(payload []byte) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}

	select {
	case c.send <- payload:
		c.overflows = 0
		return nil
	default:
	}

	// full: drop the oldest queued message
	select {
	case <-c.send:
		metrics.FanoutDroppedTotal.Inc()
	default:
	}
	c.overflows++

	if c.overflows >= c.cfg.MaxOverflows {
		c.state.Store(int32(StateClosing))
		go c.Close()
		return ErrQueueFull
	}

	// only producers add and they hold enqueueMu, so there is room now
	select {
	case c.send <- payload:
	default:
		return ErrQueueFull
	}
	return nil
}

// SendJSON marshals v and enqueues it.
func (c *Conn) SendJSON(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return c.Send(payload)
}

// Listen reads inbound messages until the peer goes away, a read fails, or ctx is done.
// A normal close by either side returns nil. The connection is closed on return.
func (c *Conn) Listen(ctx context.Context, handler func(ctx context.Context, msg []byte)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer c.Close()

	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-c.done:
		}
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if c.State() >= StateClosing || isNormalClose(err) {
				return nil
			}
			return fmt.Errorf("read failed: %w", err)
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))

		handler(ctx, msg)
	}
}

func isNormalClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}

// writePump is the only goroutine writing data frames.
func (c *Conn) writePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.cfg.WriteWait)); err != nil {
				c.Close()
				return
			}
		}
	}
}

// Close is idempotent. It stops the writer, closes the socket and runs OnClose hooks once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateClosing))
		close(c.done)

		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		if cerr := c.conn.Close(); cerr != nil && !errors.Is(cerr, websocket.ErrCloseSent) {
			err = cerr
		}

		c.hooksMu.Lock()
		hooks := c.onClose
		c.onClose = nil
		c.hooksRan = true
		c.hooksMu.Unlock()

		for _, fn := range hooks {
			fn()
		}

		c.state.Store(int32(StateClosed))
	})
	return err
}
