package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

var ErrConnClosed = errors.New("connection closed")

// Conn is one websocket client bound to a key (the username).
type Conn struct {
	conn    *websocket.Conn
	key     string
	doneCtx context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
}

func NewConn(ctx context.Context, key string, conn *websocket.Conn) *Conn {
	ctx, cancel := context.WithCancel(ctx)

	return &Conn{
		conn:    conn,
		key:     key,
		doneCtx: ctx,
		cancel:  cancel,
	}
}

// Key returns the key the connection is registered under.
func (c *Conn) Key() string {
	return c.key
}

// Done is closed once the connection is closed.
func (c *Conn) Done() <-chan struct{} {
	return c.doneCtx.Done()
}

// Health pings the peer.
func (c *Conn) Health() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ping()
}

func (c *Conn) ping() error {
	if err := c.alive(); err != nil {
		return err
	}
	if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

func (c *Conn) alive() error {
	if c.conn == nil {
		return errors.New("connection is nil")
	}
	select {
	case <-c.doneCtx.Done():
		return ErrConnClosed
	default:
		return nil
	}
}

// KeepAlive pings the peer every interval until the connection closes.
// A peer that leaves two intervals without a pong, or a failed ping, closes the
// connection so a pending Listen returns. Call it before Listen.
func (c *Conn) KeepAlive(interval time.Duration) {
	if interval <= 0 {
		return
	}
	extend := func() error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * interval))
	}
	_ = extend()
	c.conn.SetPongHandler(func(string) error { return extend() })

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-c.Done():
				return
			case <-ticker.C:
				if err := c.Health(); err != nil {
					_ = c.Close()
					return
				}
			}
		}
	}()
}

// Send writes msg as a JSON text frame. Writes are serialized.
func (c *Conn) Send(msg any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.alive(); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

// Listen reads frames until the peer goes away or the connection is closed.
func (c *Conn) Listen(handler func(msg map[string]any) error) error {
	for {
		select {
		case <-c.doneCtx.Done():
			return ErrConnClosed
		default:
		}

		var msg map[string]any
		if err := c.conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("read failed: %w", err)
		}
		if err := handler(msg); err != nil {
			return fmt.Errorf("handler failed: %w", err)
		}
	}
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.doneCtx.Done():
		return nil
	default:
	}
	c.cancel()

	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return c.conn.Close()
}
