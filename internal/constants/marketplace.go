package constants

// Бэкенд FarmBoard
const (
	MarketplaceFeedPath  = "/api/v1/marketplace_feed"
	MarketplacePageParam = "page"
)

// Локальное хранилище
const (
	NeedsRefreshKeyPrefix = "marketplace:needs_refresh:"
	NeedsRefreshValue     = "true"
)
