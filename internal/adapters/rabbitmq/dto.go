package rabbitmq_adapter

import (
	"farmboard/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// FeedEventDTO - контракт сообщения в feed_exchange
type FeedEventDTO struct {
	SessionID  uuid.UUID `json:"session_id"`
	Type       string    `json:"type"`
	Page       int       `json:"page"`
	Count      int       `json:"count"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func toFeedEventDTO(e domain.FeedEvent) FeedEventDTO {
	return FeedEventDTO{
		SessionID:  e.SessionID,
		Type:       string(e.Type),
		Page:       e.Page,
		Count:      e.Count,
		Error:      e.Error,
		OccurredAt: e.OccurredAt,
	}
}
