package usecase

import (
	"context"
	"strings"

	"telegram-uid-keeper/internal/domain"
	"telegram-uid-keeper/internal/domain/model"
	"telegram-uid-keeper/internal/domain/ports/repository"
	"telegram-uid-keeper/internal/infra/logging"

	"github.com/rs/zerolog"
)

var _ SettingsUseCase = (*settingsUC)(nil)

// SettingsUseCase manages per-chat notification preferences.
type SettingsUseCase interface {
	Get(ctx context.Context, chatID int64) (*model.ChatSettings, error)
	SetNotify(ctx context.Context, chatID int64, enabled bool) (*model.ChatSettings, error)
	SetNotificationText(ctx context.Context, chatID int64, text string) (*model.ChatSettings, error)
}

type settingsUC struct {
	settings repository.SettingsRepository
	log      *zerolog.Logger
}

func NewSettingsUseCase(settings repository.SettingsRepository, logger *zerolog.Logger) *settingsUC {
	return &settingsUC{settings: settings, log: logger}
}

func (u *settingsUC) Get(ctx context.Context, chatID int64) (*model.ChatSettings, error) {
	defer logging.TraceDuration(u.log, "SettingsUC.Get")()
	return u.settings.Get(ctx, chatID)
}

func (u *settingsUC) SetNotify(ctx context.Context, chatID int64, enabled bool) (*model.ChatSettings, error) {
	defer logging.TraceDuration(u.log, "SettingsUC.SetNotify")()

	s, err := u.settings.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	s.NotifyEnabled = enabled
	if err := u.settings.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (u *settingsUC) SetNotificationText(ctx context.Context, chatID int64, text string) (*model.ChatSettings, error) {
	defer logging.TraceDuration(u.log, "SettingsUC.SetNotificationText")()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrInvalidArgument
	}
	s, err := u.settings.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	s.NotificationText = text
	if err := u.settings.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
