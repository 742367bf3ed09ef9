package sqlite

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"telegram-uid-keeper/internal/domain"
	"telegram-uid-keeper/internal/domain/model"
	"telegram-uid-keeper/internal/domain/ports/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

type SettingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get never returns ErrNotFound: unconfigured chats get defaults.
func (r *SettingsRepo) Get(ctx context.Context, chatID int64) (*model.ChatSettings, error) {
	var s model.ChatSettings
	err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.DefaultChatSettings(chatID), nil
		}
		return nil, domain.NewStorageError("get settings", err)
	}
	return &s, nil
}

func (r *SettingsRepo) Save(ctx context.Context, s *model.ChatSettings) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}},
			UpdateAll: true,
		}).
		Create(s).Error
	if err != nil {
		return domain.NewStorageError("save settings", err)
	}
	return nil
}
