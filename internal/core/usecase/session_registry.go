package usecase

import (
	"context"
	"farmboard/internal/contextkeys"
	"farmboard/internal/core/port"
	"farmboard/internal/core/port/usecases_port"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionRegistry хранит активные сессии просмотра ленты в памяти процесса.
type SessionRegistry struct {
	feed   port.MarketplaceFeedPort
	events port.FeedEventsPort
	flags  *RefreshFlags
	opts   SessionOptions
	ttl    time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*FeedSession
}

// NewSessionRegistry - конструктор. ttl <= 0 отключает вытеснение простаивающих сессий.
func NewSessionRegistry(feed port.MarketplaceFeedPort, events port.FeedEventsPort, storage port.LocalStoragePort, opts SessionOptions, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		feed:     feed,
		events:   events,
		flags:    NewRefreshFlags(storage),
		opts:     opts,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*FeedSession),
	}
}

func (r *SessionRegistry) Create(ctx context.Context) usecases_port.FeedSessionPort {
	id := uuid.New()
	session := NewFeedSession(id, r.feed, r.events, r.flags, r.opts)
	session.touch(r.now())

	r.mu.Lock()
	r.sessions[id] = session
	total := len(r.sessions)
	r.mu.Unlock()

	contextkeys.LoggerFromContext(ctx).Info("Feed session created", port.Fields{
		"session_id":      id.String(),
		"active_sessions": total,
	})
	return session
}

// Get возвращает сессию и продлевает ее жизнь.
func (r *SessionRegistry) Get(id uuid.UUID) (usecases_port.FeedSessionPort, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, usecases_port.ErrSessionNotFound
	}
	session.touch(r.now())
	return session, nil
}

func (r *SessionRegistry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return usecases_port.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// EvictIdle удаляет сессии, простаивающие дольше ttl. Возвращает число удаленных.
func (r *SessionRegistry) EvictIdle(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, session := range r.sessions {
		if session.idleSince(now) > r.ttl {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
