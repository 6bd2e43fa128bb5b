package rest

import (
	"encoding/json"
	"errors"
	"farmboard/internal/core/port/usecases_port"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ErrorResponse - тело любого ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(response)
}

// writeSessionError: неизвестная сессия - 404, остальное - 500 с fallback-сообщением.
func writeSessionError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, usecases_port.ErrSessionNotFound) {
		WriteJSONError(w, http.StatusNotFound, "Feed session not found")
		return
	}
	WriteJSONError(w, http.StatusInternalServerError, fallback)
}

// sessionIDParam достает {sessionID} из пути
func sessionIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "sessionID"))
}
