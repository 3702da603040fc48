package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/Temutjin2k/bookshelf-auth/pkg/logger"
	wrap "github.com/Temutjin2k/bookshelf-auth/pkg/logger/wrapper"
	"github.com/Temutjin2k/bookshelf-auth/pkg/metrics"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
)

// ConnectionHub keeps at most one live connection per key.
type ConnectionHub struct {
	clients map[string]*Conn
	l       logger.Logger
	mu      sync.Mutex
}

func NewConnHub(l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		clients: make(map[string]*Conn),
		l:       l,
	}
}

// Add registers newConn. A connection already registered under the same key is closed.
func (h *ConnectionHub) Add(newConn *Conn) error {
	if newConn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	existing, replaced := h.clients[newConn.key]
	h.clients[newConn.key] = newConn
	h.mu.Unlock()

	if replaced {
		ctx := wrap.WithAction(context.Background(), "ws_connection_replace")
		h.l.Warn(ctx, "replacing existing connection", "key", existing.key)
		if err := existing.Close(); err != nil {
			h.l.Warn(ctx, "failed to close existing conn", "key", existing.key, "err", err.Error())
		}
		return nil
	}

	metrics.WebSocketConnectionsGauge.Inc()
	return nil
}

// Remove unregisters and closes conn. It does nothing to a newer connection that replaced conn.
func (h *ConnectionHub) Remove(conn *Conn) {
	if conn == nil {
		return
	}

	h.mu.Lock()
	current, ok := h.clients[conn.key]
	owned := ok && current == conn
	if owned {
		delete(h.clients, conn.key)
	}
	h.mu.Unlock()

	if owned {
		metrics.WebSocketConnectionsGauge.Dec()
	}
	_ = conn.Close()
}

// SendTo sends msg to the connection registered under key.
func (h *ConnectionHub) SendTo(key string, msg any) error {
	conn, err := h.GetConn(key)
	if err != nil {
		return err
	}
	return conn.Send(msg)
}

// GetConn returns the connection registered under key.
func (h *ConnectionHub) GetConn(key string) (*Conn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.clients[key]
	if !ok {
		return nil, ErrConnIsNotFound
	}
	return conn, nil
}

// Len returns the number of registered connections.
func (h *ConnectionHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close closes every connection.
func (h *ConnectionHub) Close() {
	ctx := wrap.WithAction(context.Background(), "hub_close")

	h.mu.Lock()
	clients := make([]*Conn, 0, len(h.clients))
	for _, conn := range h.clients {
		clients = append(clients, conn)
	}
	h.mu.Unlock()

	for _, conn := range clients {
		h.Remove(conn)
	}

	h.l.Info(ctx, "all websocket connections closed", "count", len(clients))
}
