package model

// ChatSettings holds per-chat preferences. NotifyEnabled controls whether
// auto-detected saves are confirmed back into the chat; NotificationText
// optionally overrides the confirmation template ("%s" is replaced with the
// saved UIDs).
type ChatSettings struct {
	ChatID           int64  `gorm:"primaryKey;column:chat_id"`
	NotifyEnabled    bool   `gorm:"column:notify_enabled"`
	NotificationText string `gorm:"column:notification_text"`
}

func (ChatSettings) TableName() string { return "chat_settings" }

// DefaultChatSettings is what a chat gets before anyone touches /notify.
func DefaultChatSettings(chatID int64) *ChatSettings {
	return &ChatSettings{ChatID: chatID, NotifyEnabled: true}
}
