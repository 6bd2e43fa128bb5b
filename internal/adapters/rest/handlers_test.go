package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"farmboard/internal/adapters/memstorage"
	"farmboard/internal/core/domain"
	"farmboard/internal/core/usecase"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	logger_adapter "farmboard/internal/adapters/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeed struct {
	mu    sync.Mutex
	pages map[int][]domain.Posting
	err   error
}

func (f *stubFeed) FetchPage(_ context.Context, page int) ([]domain.Posting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[page], nil
}

func (f *stubFeed) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func newTestAPI(t *testing.T) (*httptest.Server, *stubFeed) {
	t.Helper()

	created := time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)
	feed := &stubFeed{pages: map[int][]domain.Posting{
		1: {
			{ID: "1", Title: "Red Tractor", Price: 1250, HasPrice: true, RawPrice: "1250", Condition: domain.ConditionUsedGood, UserState: "CA", UserPhone: "5551234567", CreatedAt: created},
			{ID: "2", Title: "Hay", Price: 50, HasPrice: true, RawPrice: "50", Condition: domain.ConditionNew, UserState: "TX", CreatedAt: created.Add(-time.Hour)},
		},
		2: {
			{ID: "3", Title: "Old plow", Condition: domain.ConditionUsedBad, UserState: "CA", CreatedAt: created.Add(-2 * time.Hour)},
		},
	}}

	registry := usecase.NewSessionRegistry(feed, nil, memstorage.NewMemoryStorage(), usecase.SessionOptions{}, time.Hour)
	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{Writer: io.Discard, Level: slog.LevelError})

	srv := httptest.NewServer(NewRouter([]string{"*"}, NewFeedHandler(registry), logger))
	t.Cleanup(srv.Close)
	return srv, feed
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	var created CreateSessionResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/sessions", nil, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_, err := uuid.Parse(created.SessionID)
	require.NoError(t, err)
	return srv.URL + "/api/v1/sessions/" + created.SessionID
}

func TestFeedAPI_ScrollThroughFeed(t *testing.T) {
	srv, _ := newTestAPI(t)
	base := createSession(t, srv)

	var focus LoadResponse
	resp := doJSON(t, http.MethodPost, base+"/feed/focus", nil, &focus)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fetched", focus.Status)
	assert.Equal(t, 2, focus.Appended)
	require.Len(t, focus.Feed.Postings, 2)

	first := focus.Feed.Postings[0]
	assert.Equal(t, "Red Tractor", first.Title)
	assert.Equal(t, "$1,250.00", first.PriceDisplay)
	assert.Equal(t, "(555) 123-4567", first.Phone)
	assert.Equal(t, "03/07/2024", first.PostedDate)
	assert.NotNil(t, first.Images)

	var more LoadResponse
	doJSON(t, http.MethodPost, base+"/feed/load-more", nil, &more)
	assert.Equal(t, "fetched", more.Status)
	assert.Equal(t, 3, more.Feed.TotalCount)
	assert.Nil(t, more.Feed.Postings[2].Price)
	assert.Empty(t, more.Feed.Postings[2].PriceDisplay)

	doJSON(t, http.MethodPost, base+"/feed/load-more", nil, &more)
	assert.Equal(t, "exhausted", more.Status)
	assert.True(t, more.Feed.AllPagesFetched)

	doJSON(t, http.MethodPost, base+"/feed/load-more", nil, &more)
	assert.Equal(t, "skipped_exhausted", more.Status)
	assert.Equal(t, "exhausted", more.Feed.State)
}

func TestFeedAPI_Filters(t *testing.T) {
	srv, _ := newTestAPI(t)
	base := createSession(t, srv)
	doJSON(t, http.MethodPost, base+"/feed/focus", nil, nil)
	doJSON(t, http.MethodPost, base+"/feed/load-more", nil, nil)

	var filtered FeedResponse
	resp := doJSON(t, http.MethodPut, base+"/feed/filters", FilterRequest{
		StateTypes: []string{"CA"},
		MinPrice:   "100",
		MaxPrice:   "not a number",
	}, &filtered)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, filtered.TotalCount)
	assert.Equal(t, 1, filtered.DisplayedCount)
	assert.Equal(t, "1", filtered.Postings[0].ID)
	require.NotNil(t, filtered.Filters.MinPrice)
	assert.Equal(t, 100.0, *filtered.Filters.MinPrice)
	assert.Nil(t, filtered.Filters.MaxPrice)

	var search FeedResponse
	doJSON(t, http.MethodPut, base+"/feed/filters", FilterRequest{SearchTerm: "TRACTOR"}, &search)
	assert.Equal(t, 1, search.DisplayedCount)

	var cleared FeedResponse
	doJSON(t, http.MethodDelete, base+"/feed/filters", nil, &cleared)
	assert.Equal(t, 3, cleared.DisplayedCount)
	assert.Empty(t, cleared.Filters.StateTypes)
}

func TestFeedAPI_BackendFailureIsNotFatal(t *testing.T) {
	srv, feed := newTestAPI(t)
	base := createSession(t, srv)
	doJSON(t, http.MethodPost, base+"/feed/focus", nil, nil)

	feed.fail(errors.New("connection refused"))

	var failed LoadResponse
	resp := doJSON(t, http.MethodPost, base+"/feed/load-more", nil, &failed)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "failed", failed.Status)
	assert.NotEmpty(t, failed.Error)
	assert.Equal(t, 2, failed.Feed.TotalCount)
	assert.Equal(t, "idle", failed.Feed.State)
	assert.Equal(t, 2, failed.Feed.Page)
}

func TestFeedAPI_StaleFlag(t *testing.T) {
	srv, _ := newTestAPI(t)
	base := createSession(t, srv)

	resp := doJSON(t, http.MethodPost, base+"/feed/stale", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var feed FeedResponse
	doJSON(t, http.MethodGet, base+"/feed", nil, &feed)
	assert.True(t, feed.NeedsRefresh)

	var focus LoadResponse
	doJSON(t, http.MethodPost, base+"/feed/focus", nil, &focus)
	assert.False(t, focus.Feed.NeedsRefresh)
}

func TestFeedAPI_SessionErrors(t *testing.T) {
	srv, _ := newTestAPI(t)

	var body map[string]string
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/sessions/not-a-uuid/feed", nil, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/sessions/"+uuid.NewString()+"/feed", nil, &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	base := createSession(t, srv)
	req, err := http.NewRequest(http.MethodPut, base+"/feed/filters", bytes.NewBufferString("{broken"))
	require.NoError(t, err)
	badResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	badResp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, badResp.StatusCode)

	resp = doJSON(t, http.MethodDelete, base, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doJSON(t, http.MethodDelete, base, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFeedAPI_HealthAndTraceHeader(t *testing.T) {
	srv, _ := newTestAPI(t)

	var body map[string]string
	resp := doJSON(t, http.MethodGet, srv.URL+"/healthz", nil, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	_, err := uuid.Parse(resp.Header.Get("X-Trace-ID"))
	assert.NoError(t, err)
}
