package port

import (
	"context"
	"errors"
	"farmboard/internal/core/domain"
)

// MarketplaceFeedPort - источник страниц ленты маркетплейса (REST-бэкенд FarmBoard).
type MarketplaceFeedPort interface {
	// FetchPage возвращает объявления страницы page (нумерация с 1).
	// Пустой срез без ошибки означает, что страниц больше нет.
	FetchPage(ctx context.Context, page int) ([]domain.Posting, error)
}

// ErrMalformedFeedResponse - ответ бэкенда не соответствует контракту ленты
// (например, нет поля data). Пейджер обрабатывает его как сетевую ошибку.
var ErrMalformedFeedResponse = errors.New("marketplace feed: malformed response")
