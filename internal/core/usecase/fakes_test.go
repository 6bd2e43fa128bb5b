package usecase

import (
	"context"
	"errors"
	"farmboard/internal/core/domain"
	"farmboard/internal/core/port"
	"fmt"
	"sync"
	"time"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func posting(id string, minutesAgo int, opts ...func(*domain.Posting)) domain.Posting {
	p := domain.Posting{
		ID:        id,
		Title:     "Posting " + id,
		Condition: domain.ConditionUsedGood,
		UserState: "CA",
		CreatedAt: baseTime.Add(-time.Duration(minutesAgo) * time.Minute),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func withPrice(v float64) func(*domain.Posting) {
	return func(p *domain.Posting) {
		p.Price = v
		p.HasPrice = true
		p.RawPrice = fmt.Sprintf("%.2f", v)
	}
}

func withTitle(t string) func(*domain.Posting) {
	return func(p *domain.Posting) { p.Title = t }
}

func withCondition(c domain.Condition) func(*domain.Posting) {
	return func(p *domain.Posting) { p.Condition = c }
}

func withState(s string) func(*domain.Posting) {
	return func(p *domain.Posting) { p.UserState = s }
}

func ids(postings []domain.Posting) []string {
	out := make([]string, 0, len(postings))
	for _, p := range postings {
		out = append(out, p.ID)
	}
	return out
}

// fakeFeed отдает заранее заданные страницы. Запрос страницы gatedPage
// сообщает в started и ждет, пока gate не закроют.
type fakeFeed struct {
	mu        sync.Mutex
	pages     map[int][]domain.Posting
	errs      map[int]error
	calls     []int
	gate      chan struct{}
	gatedPage int
	started   chan int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		pages: make(map[int][]domain.Posting),
		errs:  make(map[int]error),
	}
}

func (f *fakeFeed) FetchPage(ctx context.Context, page int) ([]domain.Posting, error) {
	f.mu.Lock()
	f.calls = append(f.calls, page)
	var gate chan struct{}
	var started chan int
	if page == f.gatedPage {
		gate, started = f.gate, f.started
	}
	postings, err := f.pages[page], f.errs[page]
	f.mu.Unlock()

	if started != nil {
		started <- page
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return postings, nil
}

func (f *fakeFeed) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFeed) callLog() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.calls...)
}

func (f *fakeFeed) block(page int) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gatedPage = page
	f.gate = make(chan struct{})
	f.started = make(chan int, 1)
	return f.gate
}

type recordingEvents struct {
	mu     sync.Mutex
	events []domain.FeedEvent
	err    error
}

func (r *recordingEvents) Publish(_ context.Context, event domain.FeedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingEvents) types() []domain.FeedEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.FeedEventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type mapStorage struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newMapStorage() *mapStorage {
	return &mapStorage{values: make(map[string]string)}
}

func (s *mapStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	v, ok := s.values[key]
	if !ok {
		return "", port.ErrKeyNotFound
	}
	return v, nil
}

func (s *mapStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *mapStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

var errBackendDown = errors.New("backend is down")
