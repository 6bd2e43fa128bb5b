package port

import (
	"context"
	"farmboard/internal/core/domain"
)

// FeedEventsPort публикует события жизненного цикла ленты во внешнюю систему.
type FeedEventsPort interface {
	Publish(ctx context.Context, event domain.FeedEvent) error
}
