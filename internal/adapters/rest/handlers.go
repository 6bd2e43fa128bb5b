package rest

import (
	"encoding/json"
	"farmboard/internal/contextkeys"
	"farmboard/internal/core/domain"
	"farmboard/internal/core/port"
	"farmboard/internal/core/port/usecases_port"
	"net/http"
)

// FeedHandler - обработчики экрана ленты маркетплейса
type FeedHandler struct {
	registry usecases_port.SessionRegistryPort
}

func NewFeedHandler(registry usecases_port.SessionRegistryPort) *FeedHandler {
	return &FeedHandler{registry: registry}
}

// session берет сессию, найденную WithSession.
func (h *FeedHandler) session(w http.ResponseWriter, r *http.Request) (usecases_port.FeedSessionPort, bool) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusInternalServerError, "Feed session is not resolved")
		return nil, false
	}
	return session, true
}

func (h *FeedHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.registry.Create(r.Context())
	RespondWithJSON(w, http.StatusCreated, CreateSessionResponse{SessionID: session.ID().String()})
}

func (h *FeedHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid session ID format")
		return
	}
	if err := h.registry.Delete(id); err != nil {
		writeSessionError(w, err, "Failed to delete feed session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, toFeedResponse(session.Snapshot(r.Context())))
}

// Focus - экран снова в фокусе: сброс ленты и загрузка первой страницы
func (h *FeedHandler) Focus(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := session.Focus(r.Context()); err != nil {
		// Флаг обновления не снялся, но лента уже сброшена
		contextkeys.LoggerFromContext(r.Context()).Warn("Focus completed with refresh flag error", port.Fields{"error": err.Error()})
	}
	h.respondLoad(w, r, session)
}

// LoadMore - прокрутка к концу списка
func (h *FeedHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respondLoad(w, r, session)
}

// respondLoad догружает страницу. Ошибка бэкенда не фатальна для экрана: 200 со статусом failed.
func (h *FeedHandler) respondLoad(w http.ResponseWriter, r *http.Request, session usecases_port.FeedSessionPort) {
	result, err := session.LoadMore(r.Context())

	resp := LoadResponse{
		Status:   string(result.Status),
		Page:     result.Page,
		Appended: result.Appended,
	}
	if err != nil {
		resp.Status = string(domain.LoadFailed)
		resp.Error = "Failed to load marketplace page"
	}
	resp.Feed = toFeedResponse(session.Snapshot(r.Context()))

	RespondWithJSON(w, http.StatusOK, resp)
}

func (h *FeedHandler) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session.ApplyFilters(req.toCriteria())
	RespondWithJSON(w, http.StatusOK, toFeedResponse(session.Snapshot(r.Context())))
}

func (h *FeedHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	session.ClearFilters()
	RespondWithJSON(w, http.StatusOK, toFeedResponse(session.Snapshot(r.Context())))
}

// MarkStale вызывают экраны создания и редактирования объявлений
func (h *FeedHandler) MarkStale(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := session.MarkStale(r.Context()); err != nil {
		contextkeys.LoggerFromContext(r.Context()).Error("Failed to mark feed stale", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to mark feed stale")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func Health(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
