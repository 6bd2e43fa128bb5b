package usecase

import (
	"context"
	"farmboard/internal/contextkeys"
	"farmboard/internal/core/domain"
	"farmboard/internal/core/port"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PagerOptions - настраиваемое поведение пейджера.
type PagerOptions struct {
	// DiscardStalePages отбрасывает ответы на запросы, отправленные до последнего Reset.
	DiscardStalePages bool
}

// Pager управляет постраничной догрузкой ленты: Idle -> Fetching -> Idle | Exhausted.
//
// Каждый Reset начинает новое поколение. Занятость учитывается только для текущего
// поколения: загрузка, начатая до сброса, не блокирует первую страницу после него.
type Pager struct {
	sessionID uuid.UUID
	feed      port.MarketplaceFeedPort
	store     *FeedStore
	events    port.FeedEventsPort
	opts      PagerOptions
	now       func() time.Time

	mu         sync.Mutex
	cursor     domain.PaginationCursor
	generation uint64

	// fetching/fetchingGen - флаг "идет загрузка" и поколение, в котором она начата.
	fetching    bool
	fetchingGen uint64
}

func NewPager(sessionID uuid.UUID, feed port.MarketplaceFeedPort, store *FeedStore, events port.FeedEventsPort, opts PagerOptions) *Pager {
	return &Pager{
		sessionID: sessionID,
		feed:      feed,
		store:     store,
		events:    events,
		opts:      opts,
		now:       time.Now,
		cursor:    domain.InitialCursor(),
	}
}

// LoadMore - реакция на прокрутку к концу списка.
// Ошибка загрузки не фатальна: она возвращается вместе с результатом LoadFailed,
// курсор и хранилище при этом не меняются, повторной попытки нет.
func (p *Pager) LoadMore(ctx context.Context) (domain.LoadResult, error) {
	pagerLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "Pager.LoadMore"})

	p.mu.Lock()
	if p.busyLocked() {
		p.mu.Unlock()
		pagerLogger.Debug("Fetch already in flight, scroll event dropped", nil)
		return domain.LoadResult{Status: domain.LoadSkippedBusy}, nil
	}
	if p.cursor.AllPagesFetched {
		page := p.cursor.Page
		p.mu.Unlock()
		return domain.LoadResult{Status: domain.LoadSkippedExhausted, Page: page}, nil
	}
	page := p.cursor.Page
	issuedAt := p.generation
	p.fetching, p.fetchingGen = true, issuedAt
	p.mu.Unlock()

	pagerLogger = pagerLogger.WithFields(port.Fields{"page": page})
	pagerLogger.Debug("Fetching marketplace page", nil)

	// Отмена запроса вызывающей стороной не прерывает уже начатую загрузку страницы.
	postings, err := p.feed.FetchPage(context.WithoutCancel(ctx), page)

	p.mu.Lock()
	if p.fetchingGen == issuedAt {
		p.fetching = false
	}
	stale := issuedAt != p.generation

	if err != nil {
		p.mu.Unlock()
		pagerLogger.Error("Failed to fetch marketplace page", err, port.Fields{"stale": stale})
		p.publish(ctx, domain.EventPageFailed, page, 0, err.Error())
		return domain.LoadResult{Status: domain.LoadFailed, Page: page}, fmt.Errorf("failed to load page %d: %w", page, err)
	}

	if stale {
		if p.opts.DiscardStalePages {
			p.mu.Unlock()
			pagerLogger.Info("Discarding page fetched before the last reset", port.Fields{"postings_count": len(postings)})
			return domain.LoadResult{Status: domain.LoadDiscardedStale, Page: page}, nil
		}
		// Курсор принадлежит новому поколению, страница только добавляется в хранилище.
		appended := p.store.AppendPage(postings)
		p.mu.Unlock()
		pagerLogger.Warn("Applied page fetched before the last reset", port.Fields{
			"postings_count": len(postings),
			"appended":       appended,
		})
		return domain.LoadResult{Status: domain.LoadAppliedStale, Page: page, Appended: appended}, nil
	}

	if len(postings) == 0 {
		p.cursor.AllPagesFetched = true
		p.mu.Unlock()
		pagerLogger.Info("Marketplace feed exhausted", nil)
		p.publish(ctx, domain.EventPagesExhausted, page, 0, "")
		return domain.LoadResult{Status: domain.LoadExhausted, Page: page}, nil
	}

	appended := p.store.AppendPage(postings)
	p.cursor.Page++
	p.mu.Unlock()

	pagerLogger.Info("Marketplace page appended", port.Fields{
		"postings_count": len(postings),
		"appended":       appended,
	})
	p.publish(ctx, domain.EventPageFetched, page, appended, "")
	return domain.LoadResult{Status: domain.LoadFetched, Page: page, Appended: appended}, nil
}

// Reset возвращает курсор в начало и очищает хранилище под одной блокировкой.
// Уже начатая загрузка не отменяется, но перестает считаться текущей.
func (p *Pager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cursor = domain.InitialCursor()
	p.generation++
	p.store.Reset()
}

// PublishReset сообщает о сбросе сессии.
func (p *Pager) PublishReset(ctx context.Context) {
	p.publish(ctx, domain.EventSessionReset, domain.InitialCursor().Page, 0, "")
}

// Cursor возвращает копию текущего курсора.
func (p *Pager) Cursor() domain.PaginationCursor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

func (p *Pager) State() domain.PagerState {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.busyLocked() {
		return domain.PagerFetching
	}
	if p.cursor.AllPagesFetched {
		return domain.PagerExhausted
	}
	return domain.PagerIdle
}

func (p *Pager) busyLocked() bool {
	return p.fetching && p.fetchingGen == p.generation
}

func (p *Pager) publish(ctx context.Context, eventType domain.FeedEventType, page, count int, errMsg string) {
	if p.events == nil {
		return
	}
	event := domain.FeedEvent{
		SessionID:  p.sessionID,
		Type:       eventType,
		Page:       page,
		Count:      count,
		Error:      errMsg,
		OccurredAt: p.now().UTC(),
	}
	if err := p.events.Publish(ctx, event); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Failed to publish feed event", port.Fields{
			"event_type": string(eventType),
			"error":      err.Error(),
		})
	}
}
