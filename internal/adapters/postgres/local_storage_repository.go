package postgres_adapter

import (
	"context"
	"errors"
	"farmboard/internal/contextkeys"
	"farmboard/internal/core/port"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const createLocalStorageTable = `
CREATE TABLE IF NOT EXISTS local_storage (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// dbExecutor - подмножество *pgxpool.Pool, нужное репозиторию.
type dbExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresLocalStorageRepository - реализация port.LocalStoragePort на PostgreSQL.
type PostgresLocalStorageRepository struct {
	db dbExecutor
}

// NewPostgresLocalStorageRepository - конструктор. Обычно db - это *pgxpool.Pool.
func NewPostgresLocalStorageRepository(db dbExecutor) (*PostgresLocalStorageRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database pool cannot be nil")
	}
	return &PostgresLocalStorageRepository{db: db}, nil
}

// EnsureSchema создает таблицу local_storage, если ее нет.
func (r *PostgresLocalStorageRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createLocalStorageTable); err != nil {
		return fmt.Errorf("failed to create local_storage table: %w", err)
	}
	return nil
}

func (r *PostgresLocalStorageRepository) Get(ctx context.Context, key string) (string, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresLocalStorageRepository",
		"method":    "Get",
		"key":       key,
	})

	query := `SELECT value FROM local_storage WHERE key = $1`

	var value string
	if err := r.db.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", port.ErrKeyNotFound
		}
		repoLogger.Error("Failed to read local storage key", err, port.Fields{"query": query})
		return "", fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return value, nil
}

// Set перезаписывает значение ключа (upsert).
func (r *PostgresLocalStorageRepository) Set(ctx context.Context, key, value string) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresLocalStorageRepository",
		"method":    "Set",
		"key":       key,
	})

	query := `
		INSERT INTO local_storage (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		repoLogger.Error("Failed to write local storage key", err, port.Fields{"query": query})
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}

	repoLogger.Debug("Local storage key written", nil)
	return nil
}

// Delete удаляет ключ. Отсутствующий ключ - ErrKeyNotFound.
func (r *PostgresLocalStorageRepository) Delete(ctx context.Context, key string) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresLocalStorageRepository",
		"method":    "Delete",
		"key":       key,
	})

	query := `DELETE FROM local_storage WHERE key = $1`

	cmdTag, err := r.db.Exec(ctx, query, key)
	if err != nil {
		repoLogger.Error("Failed to delete local storage key", err, port.Fields{"query": query})
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return port.ErrKeyNotFound
	}
	return nil
}
