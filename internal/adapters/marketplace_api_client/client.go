package marketplace_api_client

import (
	"context"
	"encoding/json"
	"errors"
	"farmboard/internal/constants"
	"farmboard/internal/contextkeys"
	"farmboard/internal/contracts"
	"farmboard/internal/core/domain"
	"farmboard/internal/core/port"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxFeedBodySize ограничивает размер читаемого ответа одной страницы.
const maxFeedBodySize = 8 << 20

var errMissingID = errors.New("posting has no id")

// createdAtLayouts - форматы created_at, которые встречаются в ответах бэкенда.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05 MST",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Client - клиент REST-бэкенда маркетплейса FarmBoard.
type Client struct {
	baseURL    string
	httpClient *http.Client
	contracts  *contracts.Registry
}

// NewClient - конструктор. registry может быть nil, тогда проверяется только наличие data.
func NewClient(baseURL string, timeout time.Duration, registry *contracts.Registry) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		contracts:  registry,
	}
}

// doRequest - внутренний хелпер для выполнения запросов
func (c *Client) doRequest(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// FetchPage реализует port.MarketplaceFeedPort.
func (c *Client) FetchPage(ctx context.Context, page int) ([]domain.Posting, error) {
	clientLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "MarketplaceApiClient",
		"method":    "FetchPage",
		"page":      page,
	})

	url := fmt.Sprintf("%s%s?%s=%d", c.baseURL, constants.MarketplaceFeedPath, constants.MarketplacePageParam, page)
	clientLogger.Debug("Sending request to marketplace backend", port.Fields{"url": url})

	resp, err := c.doRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		clientLogger.Error("Failed to perform request to marketplace backend", err, nil)
		return nil, fmt.Errorf("marketplace feed request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBodySize))
	if err != nil {
		clientLogger.Error("Failed to read response body", err, nil)
		return nil, fmt.Errorf("failed to read marketplace feed response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("marketplace backend returned non-success status code %d: %s", resp.StatusCode, string(body))
		clientLogger.Error("Received error response from marketplace backend", err, port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}

	if c.contracts != nil {
		if err := c.contracts.Validate(contracts.MarketplaceFeedV1, body); err != nil {
			clientLogger.Error("Marketplace feed response violates contract", err, nil)
			return nil, fmt.Errorf("%w: %v", port.ErrMalformedFeedResponse, err)
		}
	}

	var feed marketplaceFeedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		clientLogger.Error("Failed to decode marketplace feed response", err, nil)
		return nil, fmt.Errorf("%w: %v", port.ErrMalformedFeedResponse, err)
	}
	if feed.Data == nil && !hasDataField(body) {
		return nil, fmt.Errorf("%w: missing data field", port.ErrMalformedFeedResponse)
	}

	postings := make([]domain.Posting, 0, len(feed.Data))
	for i, item := range feed.Data {
		var res postingResource
		if err := json.Unmarshal(item, &res); err != nil {
			clientLogger.Warn("Skipping malformed posting", port.Fields{"index": i, "error": err.Error()})
			continue
		}
		posting, err := toDomain(res)
		if err != nil {
			clientLogger.Warn("Skipping invalid posting", port.Fields{
				"index":      i,
				"posting_id": string(res.ID),
				"created_at": res.Attributes.CreatedAt,
				"error":      err.Error(),
			})
			continue
		}
		postings = append(postings, posting)
	}

	clientLogger.Info("Successfully received marketplace feed page", port.Fields{
		"postings_count": len(postings),
		"skipped":        len(feed.Data) - len(postings),
	})
	return postings, nil
}

// hasDataField различает {"data": []} и ответ вовсе без data.
func hasDataField(body []byte) bool {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return false
	}
	raw, ok := envelope["data"]
	return ok && string(raw) != "null"
}

// toDomain маппит DTO в доменную модель; цена разбирается здесь и только здесь.
// Объявление без id или с нечитаемым created_at отбрасывается, остальные поля допускают null.
func toDomain(res postingResource) (domain.Posting, error) {
	if res.ID == "" {
		return domain.Posting{}, errMissingID
	}
	createdAt, err := parseCreatedAt(res.Attributes.CreatedAt)
	if err != nil {
		return domain.Posting{}, err
	}

	raw := string(res.Attributes.Price)
	price, ok := domain.ParsePrice(raw)

	images := make([]string, 0, len(res.Attributes.Images))
	for _, img := range res.Attributes.Images {
		if img != nil && *img != "" {
			images = append(images, *img)
		}
	}

	return domain.Posting{
		ID:        string(res.ID),
		Title:     res.Attributes.Title,
		RawPrice:  raw,
		Price:     price,
		HasPrice:  ok,
		Condition: domain.Condition(res.Attributes.Condition),
		UserState: res.Attributes.UserState,
		UserID:    string(res.Attributes.UserID),
		UserPhone: res.Attributes.UserPhone,
		Images:    images,
		CreatedAt: createdAt,
	}, nil
}

func parseCreatedAt(s string) (time.Time, error) {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported created_at format %q", s)
}
