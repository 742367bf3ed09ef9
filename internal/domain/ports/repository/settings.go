package repository

import (
	"context"

	"telegram-uid-keeper/internal/domain/model"
)

// SettingsRepository stores per-chat notification preferences.
// Get returns defaults (never ErrNotFound) for chats that were never configured.
type SettingsRepository interface {
	Get(ctx context.Context, chatID int64) (*model.ChatSettings, error)
	Save(ctx context.Context, s *model.ChatSettings) error
}
