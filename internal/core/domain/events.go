package domain

import (
	"time"

	"github.com/google/uuid"
)

// FeedEventType - тип события жизненного цикла ленты.
type FeedEventType string

const (
	EventPageFetched    FeedEventType = "page_fetched"
	EventPagesExhausted FeedEventType = "pages_exhausted"
	EventPageFailed     FeedEventType = "page_failed"
	EventSessionReset   FeedEventType = "session_reset"
)

// FeedEvent публикуется при каждом переходе пейджера.
type FeedEvent struct {
	SessionID  uuid.UUID
	Type       FeedEventType
	Page       int
	Count      int
	Error      string
	OccurredAt time.Time
}

// FeedSnapshot - состояние сессии для слоя отображения.
type FeedSnapshot struct {
	SessionID  uuid.UUID
	Cursor     PaginationCursor
	State      PagerState
	Criteria   FilterCriteria
	TotalCount int
	Stale      bool
	Displayed  []Posting
}
