package marketplace_api_client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// marketplaceFeedResponse - тело ответа GET /api/v1/marketplace_feed (формат JSON:API).
// Элементы data разбираются по одному, чтобы одно битое объявление не отменяло страницу.
type marketplaceFeedResponse struct {
	Data []json.RawMessage `json:"data"`
}

type postingResource struct {
	ID         flexibleString    `json:"id"`
	Type       string            `json:"type"`
	Attributes postingAttributes `json:"attributes"`
}

type postingAttributes struct {
	Title     string         `json:"title"`
	Price     flexibleString `json:"price"`
	Condition string         `json:"condition"`
	UserState string         `json:"user_state"`
	CreatedAt string         `json:"created_at"`
	Images    []*string      `json:"images"`
	UserID    flexibleString `json:"user_id"`
	UserPhone string         `json:"user_phone"`
}

// flexibleString принимает строку, число или null; бэкенд отдает id и цену по-разному.
type flexibleString string

func (f *flexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*f = flexibleString(n.String())
	return nil
}
