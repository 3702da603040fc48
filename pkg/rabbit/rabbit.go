package rabbit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
	"github.com/Temutjin2k/bookshelf-auth/pkg/logger"
	wrap "github.com/Temutjin2k/bookshelf-auth/pkg/logger/wrapper"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	heartbeat        = 10 * time.Second
	reconnectRetries = 5
)

var ErrClosed = errors.New("rabbitmq: client closed")

// RabbitMQ holds one connection and one channel. The channel is shared by publishers and guarded by mu.
type RabbitMQ struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	isClosed bool
	stopped  bool
	mu       sync.Mutex
	dsn      string

	log logger.Logger
}

// New dials dsn and opens a channel.
func New(ctx context.Context, dsn string, log logger.Logger) (*RabbitMQ, error) {
	r := &RabbitMQ{dsn: dsn, log: log}

	if err := r.connect(); err != nil {
		return nil, err
	}

	log.Info(wrap.WithAction(ctx, types.ActionRabbitMQConnected), "connected to rabbitMQ")
	return r, nil
}

// connect must be called with mu held or before r is shared.
func (r *RabbitMQ) connect() error {
	conn, err := amqp.DialConfig(r.dsn, amqp.Config{Heartbeat: heartbeat})
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open a channel: %w", err)
	}

	connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
	chClosed := ch.NotifyClose(make(chan *amqp.Error, 1))

	r.conn = conn
	r.channel = ch
	r.isClosed = false

	go r.monitor(conn, connClosed, chClosed)
	return nil
}

// monitor marks the client closed when either the connection or the channel goes away.
func (r *RabbitMQ) monitor(conn *amqp.Connection, connClosed, chClosed <-chan *amqp.Error) {
	var closeErr *amqp.Error
	select {
	case closeErr = <-connClosed:
	case closeErr = <-chClosed:
	}

	r.mu.Lock()
	// a reconnect may already have replaced the connection
	if r.conn == conn {
		r.isClosed = true
	}
	r.mu.Unlock()

	ctx := wrap.WithAction(context.Background(), types.ActionRabbitConnectionClosed)
	if closeErr != nil {
		r.log.Error(ctx, "RabbitMQ connection closed with error", closeErr)
	} else {
		r.log.Debug(ctx, "RabbitMQ connection closed gracefully")
	}
}

// IsConnectionClosed checks if the connection is closed
func (r *RabbitMQ) IsConnectionClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closedLocked()
}

func (r *RabbitMQ) closedLocked() bool {
	return r.isClosed || r.conn == nil || r.conn.IsClosed() || r.channel == nil || r.channel.IsClosed()
}

// DeclareTopicExchange declares a durable topic exchange.
func (r *RabbitMQ) DeclareTopicExchange(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.channel == nil {
		return ErrClosed
	}
	if err := r.channel.ExchangeDeclare(name, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", name, err)
	}
	return nil
}

// Publish sends msg on the shared channel, reconnecting first when needed.
func (r *RabbitMQ) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	if err := r.EnsureConnection(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.channel == nil {
		return ErrClosed
	}
	return r.channel.PublishWithContext(ctx, exchange, key, false, false, msg)
}

// EnsureConnection reconnects when the connection was lost.
func (r *RabbitMQ) EnsureConnection(ctx context.Context) error {
	if !r.IsConnectionClosed() {
		return nil
	}

	r.log.Warn(ctx, "rabbit connection closed, reconnecting...")
	if err := r.Reconnect(ctx); err != nil {
		return fmt.Errorf("failed to reconnect to RabbitMQ: %w", err)
	}
	return nil
}

// Reconnect redials with a linear backoff.
func (r *RabbitMQ) Reconnect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return ErrClosed
	}
	if !r.closedLocked() {
		return nil
	}

	var err error
	for i := range reconnectRetries {
		if err = r.connect(); err == nil {
			break
		}

		wait := time.Duration(i+1) * 2 * time.Second
		r.log.Debug(ctx, "reconnect attempt failed", "attempt", i+1, "retry_in", wait.String())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	if err != nil {
		return err
	}

	r.log.Info(wrap.WithAction(ctx, types.ActionRabbitReconnected), "RabbitMQ reconnected successfully")
	return nil
}

// Close closes the channel and the connection. Further publishes fail with ErrClosed.
func (r *RabbitMQ) Close(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, types.ActionRabbitConnectionClosing)

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return nil
	}
	r.stopped = true
	r.isClosed = true
	ch, conn := r.channel, r.conn
	r.channel, r.conn = nil, nil
	r.mu.Unlock()

	if ch != nil {
		if err := closeWithCtx(ctx, ch.Close); err != nil && ctx.Err() == nil {
			r.log.Error(ctx, "error closing channel", err)
		}
	}

	if conn != nil {
		if err := closeWithCtx(ctx, conn.Close); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}

	r.log.Info(wrap.WithAction(ctx, types.ActionRabbitConnectionClosed), "rabbitMQ closed")
	return nil
}

// closeWithCtx gives up waiting on fn when ctx is done.
func closeWithCtx(ctx context.Context, fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
