package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"farmboard/internal/constants"
	"farmboard/internal/contextkeys"
	"farmboard/internal/core/domain"
	"farmboard/internal/core/port"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// amqpPublisher - то, что адаптеру нужно от rabbitmq_producer.Publisher
type amqpPublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// FeedEventsAdapter реализует port.FeedEventsPort поверх RabbitMQ.
type FeedEventsAdapter struct {
	producer amqpPublisher
}

func NewFeedEventsAdapter(producer amqpPublisher) (*FeedEventsAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	return &FeedEventsAdapter{producer: producer}, nil
}

func (a *FeedEventsAdapter) Publish(ctx context.Context, event domain.FeedEvent) error {
	routingKey := constants.FeedEventRoutingKey(event.Type)
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "FeedEventsAdapter",
		"routing_key": routingKey,
	})

	body, err := json.Marshal(toFeedEventDTO(event))
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal feed event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
		Headers:      make(amqp.Table),
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	// Публикация не должна зависеть от отмены HTTP-запроса, но ограничена по времени
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish feed event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish %s event: %w", event.Type, err)
	}

	adapterLogger.Debug("Feed event published", nil)
	return nil
}

// NoopFeedEvents используется, когда RabbitMQ отключен.
type NoopFeedEvents struct{}

func (NoopFeedEvents) Publish(context.Context, domain.FeedEvent) error { return nil }
