package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	wrap "github.com/Temutjin2k/bookshelf-auth/pkg/logger/wrapper"
	"github.com/Temutjin2k/bookshelf-auth/pkg/metrics"
	"github.com/Temutjin2k/bookshelf-auth/pkg/rabbit"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	AuthExchange = "auth_topic"

	publishRetries = 3
	retryDelay     = 200 * time.Millisecond
)

// EventProducer publishes domain events to a topic exchange, routing key = event type.
type EventProducer struct {
	client   *rabbit.RabbitMQ
	exchange string
}

// NewEventProducer declares exchange and returns a producer bound to it.
func NewEventProducer(client *rabbit.RabbitMQ, exchange string) (*EventProducer, error) {
	if exchange == "" {
		exchange = AuthExchange
	}
	if err := client.DeclareTopicExchange(exchange); err != nil {
		return nil, err
	}

	return &EventProducer{
		client:   client,
		exchange: exchange,
	}, nil
}

func (p *EventProducer) Name() string {
	return "rabbitmq"
}

func (p *EventProducer) Publish(ctx context.Context, event models.Event) error {
	const op = "EventProducer.Publish"
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_event")

	key, msg, err := newPublishing(event)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	err = retry(ctx, publishRetries, retryDelay, func() error {
		return p.client.Publish(ctx, p.exchange, key, msg)
	})
	metrics.RecordRabbitMQPublish(key, err)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to publish %s: %w", op, key, err))
	}
	return nil
}

func newPublishing(event models.Event) (string, amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return "", amqp.Publishing{}, fmt.Errorf("failed to marshal event: %w", err)
	}

	return event.Type.String(), amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    event.OccurredAt,
		Type:         event.Type.String(),
		Body:         body,
	}, nil
}
