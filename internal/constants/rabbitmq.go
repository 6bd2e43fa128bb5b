package constants

import "farmboard/internal/core/domain"

// Обменники
const (
	FeedEventsExchange     = "feed_exchange"
	FeedEventsExchangeType = "direct"
)

// Ключи маршрутизации
const (
	RoutingKeyPrefixFeedEvents = "feed.events."
)

// FeedEventRoutingKey возвращает ключ маршрутизации для типа события, например feed.events.page_fetched
func FeedEventRoutingKey(t domain.FeedEventType) string {
	return RoutingKeyPrefixFeedEvents + string(t)
}
