package adapter

import "context"

type InlineButton struct {
	Text string
	Data string
	URL  string
}

// Document is a file payload pushed back into a chat (CSV exports).
type Document struct {
	Name  string
	Bytes []byte
}

type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendButtons(ctx context.Context, chatID int64, text string, rows [][]InlineButton) error
	SendDocument(ctx context.Context, chatID int64, doc Document) error
	SendPhotoURL(ctx context.Context, chatID int64, caption, url string) error
}
