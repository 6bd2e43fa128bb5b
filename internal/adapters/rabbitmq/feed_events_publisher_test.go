package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"errors"
	"farmboard/internal/contextkeys"
	"farmboard/internal/core/domain"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedPublish struct {
	routingKey string
	msg        amqp.Publishing
	deadline   bool
}

type fakeProducer struct {
	published []capturedPublish
	err       error
}

func (f *fakeProducer) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	_, hasDeadline := ctx.Deadline()
	f.published = append(f.published, capturedPublish{routingKey: routingKey, msg: msg, deadline: hasDeadline})
	return f.err
}

func TestFeedEventsAdapter_Publish(t *testing.T) {
	producer := &fakeProducer{}
	adapter, err := NewFeedEventsAdapter(producer)
	require.NoError(t, err)

	sessionID := uuid.New()
	occurred := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")

	err = adapter.Publish(ctx, domain.FeedEvent{
		SessionID:  sessionID,
		Type:       domain.EventPageFetched,
		Page:       3,
		Count:      20,
		OccurredAt: occurred,
	})
	require.NoError(t, err)
	require.Len(t, producer.published, 1)

	got := producer.published[0]
	assert.Equal(t, "feed.events.page_fetched", got.routingKey)
	assert.True(t, got.deadline)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, "trace-1", got.msg.Headers["x-trace-id"])

	var dto FeedEventDTO
	require.NoError(t, json.Unmarshal(got.msg.Body, &dto))
	assert.Equal(t, FeedEventDTO{SessionID: sessionID, Type: "page_fetched", Page: 3, Count: 20, OccurredAt: occurred}, dto)
}

func TestFeedEventsAdapter_PublishError(t *testing.T) {
	producer := &fakeProducer{err: errors.New("channel closed")}
	adapter, err := NewFeedEventsAdapter(producer)
	require.NoError(t, err)

	err = adapter.Publish(context.Background(), domain.FeedEvent{Type: domain.EventPageFailed})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
	assert.NotContains(t, producer.published[0].msg.Headers, "x-trace-id")
}

func TestNewFeedEventsAdapter_NilProducer(t *testing.T) {
	_, err := NewFeedEventsAdapter(nil)

	assert.Error(t, err)
}

func TestPkgLoggerBridge_ToFields(t *testing.T) {
	bridge := &PkgLoggerBridge{}

	fields := bridge.toFields("name", "feed_exchange", 42, "skipped", "dangling")

	assert.Equal(t, map[string]interface{}{"name": "feed_exchange"}, map[string]interface{}(fields))
}
