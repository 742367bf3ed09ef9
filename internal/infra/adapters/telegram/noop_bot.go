package telegram

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-uid-keeper/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter logs outgoing messages instead of calling Telegram. Used in
// dev mode so the app runs without a bot token.
type NoopBotAdapter struct {
	log *zerolog.Logger
}

func NewNoopBotAdapter(logger *zerolog.Logger) *NoopBotAdapter {
	return &NoopBotAdapter{log: logger}
}

func (b *NoopBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	b.log.Info().Int64("chat_id", chatID).Str("text", text).Msg("noop send message")
	return nil
}

func (b *NoopBotAdapter) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	b.log.Info().Int64("chat_id", chatID).Str("text", text).Int("rows", len(rows)).Msg("noop send buttons")
	return nil
}

func (b *NoopBotAdapter) SendDocument(ctx context.Context, chatID int64, doc adapter.Document) error {
	b.log.Info().Int64("chat_id", chatID).Str("name", doc.Name).Int("size", len(doc.Bytes)).Msg("noop send document")
	return nil
}

func (b *NoopBotAdapter) SendPhotoURL(ctx context.Context, chatID int64, caption, url string) error {
	b.log.Info().Int64("chat_id", chatID).Str("url", url).Msg("noop send photo")
	return nil
}
