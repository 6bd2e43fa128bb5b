// Package contextkeys переносит через context.Context данные запроса:
// логгер, trace_id и идентификатор сессии ленты.
package contextkeys

import (
	"context"
	"farmboard/internal/core/port"

	"github.com/google/uuid"
)

type (
	loggerKey  struct{}
	traceIDKey struct{}
)

// ContextWithLogger помещает логгер в контекст.
func ContextWithLogger(ctx context.Context, logger port.LoggerPort) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext извлекает логгер; без логгера в контексте возвращает заглушку.
func LoggerFromContext(ctx context.Context) port.LoggerPort {
	if logger, ok := ctx.Value(loggerKey{}).(port.LoggerPort); ok && logger != nil {
		return logger
	}
	return discardLogger{}
}

// ContextWithTraceID помещает trace_id в контекст.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext возвращает trace_id или пустую строку.
func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}

// ContextWithSession добавляет id сессии ленты в поля логгера из контекста.
func ContextWithSession(ctx context.Context, sessionID uuid.UUID) context.Context {
	logger := LoggerFromContext(ctx).WithFields(port.Fields{"session_id": sessionID.String()})
	return ContextWithLogger(ctx, logger)
}

type discardLogger struct{}

func (discardLogger) Info(string, port.Fields) {}
func (discardLogger) Warn(string, port.Fields) {}
func (discardLogger) Error(string, error, port.Fields) {}
func (discardLogger) Debug(string, port.Fields) {}
func (d discardLogger) WithFields(port.Fields) port.LoggerPort { return d }
