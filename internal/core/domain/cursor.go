package domain

// PagerState - состояние автомата пагинации.
type PagerState string

const (
	PagerIdle      PagerState = "idle"
	PagerFetching  PagerState = "fetching"
	PagerExhausted PagerState = "exhausted"
)

// PaginationCursor - курсор постраничной загрузки ленты. Page начинается с 1.
type PaginationCursor struct {
	Page            int
	AllPagesFetched bool
}

// InitialCursor - курсор свежей сессии просмотра.
func InitialCursor() PaginationCursor {
	return PaginationCursor{Page: 1}
}

// LoadStatus - итог одного события "прокрутка к концу списка".
type LoadStatus string

const (
	LoadFetched          LoadStatus = "fetched"
	LoadExhausted        LoadStatus = "exhausted"
	LoadFailed           LoadStatus = "failed"
	LoadSkippedBusy      LoadStatus = "skipped_busy"
	LoadSkippedExhausted LoadStatus = "skipped_exhausted"
	LoadDiscardedStale   LoadStatus = "discarded_stale"
	// LoadAppliedStale - ответ на запрос до сброса добавлен в хранилище, курсор не тронут.
	LoadAppliedStale     LoadStatus = "applied_stale"
)

// LoadResult описывает, что произошло при попытке догрузить страницу.
type LoadResult struct {
	Status   LoadStatus
	Page     int
	Appended int
}
