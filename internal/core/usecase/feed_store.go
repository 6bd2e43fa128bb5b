package usecase

import (
	"farmboard/internal/core/domain"
	"slices"
	"sync"
)

// FeedStore накапливает все загруженные страницы ленты текущей сессии.
// Коллекция всегда отсортирована по CreatedAt, новые первыми.
type FeedStore struct {
	mu       sync.RWMutex
	postings []domain.Posting

	// dedupe включает отсев повторов по ID; по умолчанию повторы сохраняются.
	dedupe bool
	seen   map[string]struct{}
}

func NewFeedStore(deduplicateByID bool) *FeedStore {
	return &FeedStore{
		dedupe: deduplicateByID,
		seen:   make(map[string]struct{}),
	}
}

// AppendPage добавляет страницу и пересортировывает всю коллекцию.
// Возвращает число реально добавленных объявлений.
func (s *FeedStore) AppendPage(page []domain.Posting) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, p := range page {
		if s.dedupe {
			if _, dup := s.seen[p.ID]; dup {
				continue
			}
			s.seen[p.ID] = struct{}{}
		}
		s.postings = append(s.postings, p)
		added++
	}

	// Стабильная сортировка: при равном CreatedAt сохраняется порядок поступления.
	slices.SortStableFunc(s.postings, func(a, b domain.Posting) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return added
}

// Reset очищает коллекцию.
func (s *FeedStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.postings = nil
	s.seen = make(map[string]struct{})
}

// All возвращает копию отсортированной коллекции.
func (s *FeedStore) All() []domain.Posting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Posting, len(s.postings))
	copy(out, s.postings)
	return out
}

func (s *FeedStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.postings)
}
