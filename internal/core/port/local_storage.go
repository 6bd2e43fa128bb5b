package port

import (
	"context"
	"errors"
)

// ErrKeyNotFound возвращается, когда ключа нет в локальном хранилище.
var ErrKeyNotFound = errors.New("local storage: key not found")

// LocalStoragePort - простое хранилище "ключ-значение" (флаги обновления экранов и т.п.).
type LocalStoragePort interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
