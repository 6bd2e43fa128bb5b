package rest

import (
	"farmboard/internal/core/domain"
	"time"
)

// FilterRequest - тело PUT /feed/filters. Границы цены приходят строками из полей ввода;
// нечисловая строка означает отсутствие границы.
type FilterRequest struct {
	ConditionTypes []string `json:"condition_types"`
	StateTypes     []string `json:"state_types"`
	MinPrice       string   `json:"min_price"`
	MaxPrice       string   `json:"max_price"`
	SearchTerm     string   `json:"search_term"`
}

func (req FilterRequest) toCriteria() domain.FilterCriteria {
	criteria := domain.FilterCriteria{
		StateTypes: req.StateTypes,
		MinPrice:   domain.ParsePriceBound(req.MinPrice),
		MaxPrice:   domain.ParsePriceBound(req.MaxPrice),
		SearchTerm: req.SearchTerm,
	}
	for _, c := range req.ConditionTypes {
		criteria.ConditionTypes = append(criteria.ConditionTypes, domain.Condition(c))
	}
	return criteria
}

type FiltersResponse struct {
	ConditionTypes []string `json:"condition_types"`
	StateTypes     []string `json:"state_types"`
	MinPrice       *float64 `json:"min_price"`
	MaxPrice       *float64 `json:"max_price"`
	SearchTerm     string   `json:"search_term"`
}

type PostingResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Price        *float64  `json:"price"`
	PriceDisplay string    `json:"price_display"`
	Condition    string    `json:"condition"`
	UserState    string    `json:"user_state"`
	UserID       string    `json:"user_id"`
	Phone        string    `json:"phone,omitempty"`
	Images       []string  `json:"images"`
	CreatedAt    time.Time `json:"created_at"`
	PostedDate   string    `json:"posted_date"`
}

type FeedResponse struct {
	SessionID       string            `json:"session_id"`
	State           string            `json:"state"`
	Page            int               `json:"page"`
	AllPagesFetched bool              `json:"all_pages_fetched"`
	TotalCount      int               `json:"total_count"`
	DisplayedCount  int               `json:"displayed_count"`
	NeedsRefresh    bool              `json:"needs_refresh"`
	Filters         FiltersResponse   `json:"filters"`
	Postings        []PostingResponse `json:"postings"`
}

// LoadResponse - итог прокрутки или фокуса вместе с новым состоянием ленты
type LoadResponse struct {
	Status   string       `json:"status"`
	Page     int          `json:"page"`
	Appended int          `json:"appended"`
	Error    string       `json:"error,omitempty"`
	Feed     FeedResponse `json:"feed"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

func toPostingResponse(p domain.Posting) PostingResponse {
	resp := PostingResponse{
		ID:         p.ID,
		Title:      p.Title,
		Condition:  string(p.Condition),
		UserState:  p.UserState,
		UserID:     p.UserID,
		Images:     p.Images,
		CreatedAt:  p.CreatedAt,
		PostedDate: FormatPostedDate(p.CreatedAt),
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if p.HasPrice {
		price := p.Price
		resp.Price = &price
		resp.PriceDisplay = FormatPrice(p.Price)
	}
	if p.UserPhone != "" {
		resp.Phone = FormatPhone(p.UserPhone)
	}
	return resp
}

func toFeedResponse(s domain.FeedSnapshot) FeedResponse {
	postings := make([]PostingResponse, 0, len(s.Displayed))
	for _, p := range s.Displayed {
		postings = append(postings, toPostingResponse(p))
	}

	filters := FiltersResponse{
		ConditionTypes: make([]string, 0, len(s.Criteria.ConditionTypes)),
		StateTypes:     append([]string{}, s.Criteria.StateTypes...),
		MinPrice:       s.Criteria.MinPrice,
		MaxPrice:       s.Criteria.MaxPrice,
		SearchTerm:     s.Criteria.SearchTerm,
	}
	for _, c := range s.Criteria.ConditionTypes {
		filters.ConditionTypes = append(filters.ConditionTypes, string(c))
	}

	return FeedResponse{
		SessionID:       s.SessionID.String(),
		State:           string(s.State),
		Page:            s.Cursor.Page,
		AllPagesFetched: s.Cursor.AllPagesFetched,
		TotalCount:      s.TotalCount,
		DisplayedCount:  len(s.Displayed),
		NeedsRefresh:    s.Stale,
		Filters:         filters,
		Postings:        postings,
	}
}
