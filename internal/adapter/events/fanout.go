// Package events delivers domain events to the configured sinks off the request path.
package events

import (
	"context"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
	"github.com/Temutjin2k/bookshelf-auth/pkg/logger"
	wrap "github.com/Temutjin2k/bookshelf-auth/pkg/logger/wrapper"
)

const (
	DefaultQueueSize = 256
	sinkTimeout      = 5 * time.Second
)

// Sink receives events. Errors are logged, never returned to the caller of Publish.
type Sink interface {
	Name() string
	Publish(ctx context.Context, event models.Event) error
}

type envelope struct {
	logCtx wrap.LogCtx
	event  models.Event
}

// Fanout queues events and hands them to every sink in order from a single goroutine.
type Fanout struct {
	sinks []Sink
	queue chan envelope
	log   logger.Logger
}

func NewFanout(log logger.Logger, queueSize int, sinks ...Sink) *Fanout {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Fanout{
		sinks: sinks,
		queue: make(chan envelope, queueSize),
		log:   log,
	}
}

// Publish enqueues event without blocking. When the queue is full the event is dropped.
func (f *Fanout) Publish(ctx context.Context, event models.Event) {
	if len(f.sinks) == 0 {
		return
	}

	select {
	case f.queue <- envelope{logCtx: wrap.FromContext(ctx), event: event}:
	default:
		ctx = wrap.WithAction(ctx, types.ActionEventPublishFailed)
		f.log.Warn(ctx, "event queue full, dropping event", "event", event.Type.String())
	}
}

// Run delivers queued events until ctx is done, then drains what is left.
func (f *Fanout) Run(ctx context.Context) error {
	for {
		select {
		case env := <-f.queue:
			f.deliver(env)
		case <-ctx.Done():
			f.drain()
			return nil
		}
	}
}

func (f *Fanout) drain() {
	for {
		select {
		case env := <-f.queue:
			f.deliver(env)
		default:
			return
		}
	}
}

func (f *Fanout) deliver(env envelope) {
	for _, sink := range f.sinks {
		ctx, cancel := context.WithTimeout(wrap.WithLogCtx(context.Background(), env.logCtx), sinkTimeout)
		if err := sink.Publish(ctx, env.event); err != nil {
			ctx = wrap.WithAction(wrap.ErrorCtx(ctx, err), types.ActionEventPublishFailed)
			f.log.Error(ctx, "failed to deliver event", err, "sink", sink.Name(), "event", env.event.Type.String())
		}
		cancel()
	}
}
