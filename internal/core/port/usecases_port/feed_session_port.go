package usecases_port

import (
	"context"
	"errors"
	"farmboard/internal/core/domain"

	"github.com/google/uuid"
)

// FeedSessionPort - операции одной сессии просмотра ленты, доступные слою отображения.
type FeedSessionPort interface {
	ID() uuid.UUID
	Focus(ctx context.Context) error
	LoadMore(ctx context.Context) (domain.LoadResult, error)
	ApplyFilters(criteria domain.FilterCriteria) []domain.Posting
	ClearFilters() []domain.Posting
	Displayed() []domain.Posting
	MarkStale(ctx context.Context) error
	Snapshot(ctx context.Context) domain.FeedSnapshot
}

// SessionRegistryPort управляет сессиями просмотра.
type SessionRegistryPort interface {
	Create(ctx context.Context) FeedSessionPort
	Get(id uuid.UUID) (FeedSessionPort, error)
	Delete(id uuid.UUID) error
}

// ErrSessionNotFound - сессии с таким ID нет (не создавалась, удалена или вытеснена по TTL).
var ErrSessionNotFound = errors.New("feed session not found")
