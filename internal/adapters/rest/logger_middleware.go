package rest

import (
	"context"
	"farmboard/internal/contextkeys"
	"farmboard/internal/core/port"
	"farmboard/internal/core/port/usecases_port"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const traceHeader = "X-Trace-ID"

// LoggerMiddleware кладет в контекст логгер с trace_id и пишет access-лог.
// Маршрут и session_id известны только после роутинга, поэтому попадают в итоговую запись.
func LoggerMiddleware(logger port.LoggerPort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(traceHeader)
			if _, err := uuid.Parse(traceID); err != nil {
				traceID = uuid.New().String()
			}
			w.Header().Set(traceHeader, traceID)

			coreLogger := logger.WithFields(port.Fields{"trace_id": traceID})

			ctx := contextkeys.ContextWithLogger(r.Context(), coreLogger)
			ctx = contextkeys.ContextWithTraceID(ctx, traceID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			startTime := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := port.Fields{
				"http_method":   r.Method,
				"http_path":     r.URL.Path,
				"remote_addr":   r.RemoteAddr,
				"status_code":   ww.Status(),
				"bytes_written": ww.BytesWritten(),
				"duration_ms":   time.Since(startTime).Milliseconds(),
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					fields["route"] = pattern
				}
				if sessionID := rctx.URLParam("sessionID"); sessionID != "" {
					fields["session_id"] = sessionID
				}
			}

			if ww.Status() >= http.StatusInternalServerError {
				coreLogger.Warn("Request finished with server error", fields)
				return
			}
			coreLogger.Info("Request finished", fields)
		})
	}
}

type sessionKey struct{}

// WithSession находит сессию ленты по {sessionID}; дальше обработчик берет ее из контекста.
func (h *FeedHandler) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := sessionIDParam(r)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "Invalid session ID format")
			return
		}

		session, err := h.registry.Get(id)
		if err != nil {
			writeSessionError(w, err, "Failed to get feed session")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, session)))
	})
}

func sessionFromContext(ctx context.Context) (usecases_port.FeedSessionPort, bool) {
	session, ok := ctx.Value(sessionKey{}).(usecases_port.FeedSessionPort)
	return session, ok && session != nil
}
