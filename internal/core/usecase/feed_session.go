package usecase

import (
	"context"
	"farmboard/internal/contextkeys"
	"farmboard/internal/core/domain"
	"farmboard/internal/core/port"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// FeedSession владеет хранилищем, критериями фильтра и пейджером одной сессии просмотра.
// Отображаемый набор не хранится, а вычисляется при каждом чтении.
type FeedSession struct {
	id    uuid.UUID
	store *FeedStore
	pager *Pager
	flags *RefreshFlags

	mu       sync.Mutex
	criteria domain.FilterCriteria

	lastSeen atomic.Int64
}

// SessionOptions - общие для всех сессий настройки.
type SessionOptions struct {
	DeduplicateByID   bool
	DiscardStalePages bool
}

func NewFeedSession(id uuid.UUID, feed port.MarketplaceFeedPort, events port.FeedEventsPort, flags *RefreshFlags, opts SessionOptions) *FeedSession {
	store := NewFeedStore(opts.DeduplicateByID)
	s := &FeedSession{
		id:    id,
		store: store,
		pager: NewPager(id, feed, store, events, PagerOptions{DiscardStalePages: opts.DiscardStalePages}),
		flags: flags,
	}
	s.touch(time.Now())
	return s
}

func (s *FeedSession) ID() uuid.UUID { return s.id }

// Focus - экран ленты снова получил фокус: сброс пейджера и хранилища, снятие флага устаревания.
// Критерии фильтра сохраняются.
func (s *FeedSession) Focus(ctx context.Context) error {
	ctx = contextkeys.ContextWithSession(ctx, s.id)
	sessionLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "FeedSession.Focus"})

	s.pager.Reset()

	wasStale, err := s.flags.Consume(ctx, s.id)
	if err != nil {
		sessionLogger.Error("Failed to consume refresh flag", err, nil)
	}

	sessionLogger.Info("Feed session reset", port.Fields{"was_stale": wasStale})
	s.pager.PublishReset(ctx)
	return err
}

func (s *FeedSession) LoadMore(ctx context.Context) (domain.LoadResult, error) {
	return s.pager.LoadMore(contextkeys.ContextWithSession(ctx, s.id))
}

// ApplyFilters заменяет критерии и возвращает отображаемый набор.
func (s *FeedSession) ApplyFilters(criteria domain.FilterCriteria) []domain.Posting {
	s.mu.Lock()
	s.criteria = criteria.Clone()
	current := s.criteria
	s.mu.Unlock()

	return ApplyFilters(s.store.All(), current)
}

func (s *FeedSession) ClearFilters() []domain.Posting {
	return s.ApplyFilters(domain.FilterCriteria{})
}

func (s *FeedSession) Displayed() []domain.Posting {
	return ApplyFilters(s.store.All(), s.Criteria())
}

func (s *FeedSession) Criteria() domain.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria.Clone()
}

func (s *FeedSession) MarkStale(ctx context.Context) error {
	return s.flags.MarkStale(ctx, s.id)
}

func (s *FeedSession) Snapshot(ctx context.Context) domain.FeedSnapshot {
	criteria := s.Criteria()
	all := s.store.All()

	return domain.FeedSnapshot{
		SessionID:  s.id,
		Cursor:     s.pager.Cursor(),
		State:      s.pager.State(),
		Criteria:   criteria,
		TotalCount: len(all),
		Stale:      s.flags.IsStale(ctx, s.id),
		Displayed:  ApplyFilters(all, criteria),
	}
}

func (s *FeedSession) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *FeedSession) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}
