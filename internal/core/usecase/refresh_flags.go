package usecase

import (
	"context"
	"errors"
	"farmboard/internal/constants"
	"farmboard/internal/contextkeys"
	"farmboard/internal/core/port"
	"fmt"

	"github.com/google/uuid"
)

// RefreshFlags - флаг "лента устарела", который выставляют другие экраны
// (создание, редактирование, удаление объявления).
type RefreshFlags struct {
	storage port.LocalStoragePort
}

func NewRefreshFlags(storage port.LocalStoragePort) *RefreshFlags {
	return &RefreshFlags{storage: storage}
}

func refreshKey(sessionID uuid.UUID) string {
	return constants.NeedsRefreshKeyPrefix + sessionID.String()
}

func (f *RefreshFlags) MarkStale(ctx context.Context, sessionID uuid.UUID) error {
	if err := f.storage.Set(ctx, refreshKey(sessionID), constants.NeedsRefreshValue); err != nil {
		return fmt.Errorf("failed to mark session %s stale: %w", sessionID, err)
	}
	return nil
}

// IsStale не считает ошибку хранилища фатальной: она логируется, а флаг считается снятым.
func (f *RefreshFlags) IsStale(ctx context.Context, sessionID uuid.UUID) bool {
	value, err := f.storage.Get(ctx, refreshKey(sessionID))
	if err != nil {
		if !errors.Is(err, port.ErrKeyNotFound) {
			contextkeys.LoggerFromContext(ctx).Error("Failed to read refresh flag", err, port.Fields{
				"session_id": sessionID.String(),
			})
		}
		return false
	}
	return value == constants.NeedsRefreshValue
}

// Consume снимает флаг и сообщает, был ли он выставлен.
func (f *RefreshFlags) Consume(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	stale := f.IsStale(ctx, sessionID)
	if err := f.storage.Delete(ctx, refreshKey(sessionID)); err != nil && !errors.Is(err, port.ErrKeyNotFound) {
		return stale, fmt.Errorf("failed to clear refresh flag of session %s: %w", sessionID, err)
	}
	return stale, nil
}
