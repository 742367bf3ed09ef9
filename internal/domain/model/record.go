package model

import (
	"strings"
	"time"

	"telegram-uid-keeper/internal/domain"
)

// UIDRecord is a saved Facebook user identifier with submitter metadata.
// UID is the natural primary key; CreatedAt is immutable after the first save.
type UIDRecord struct {
	UID         string    `gorm:"primaryKey;column:uid"`
	SubmittedBy int64     `gorm:"column:submitted_by;index"`
	ChatID      int64     `gorm:"column:chat_id;index"`
	Note        string    `gorm:"column:note"`
	Source      string    `gorm:"column:source"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (UIDRecord) TableName() string { return "uid_records" }

// NewUIDRecord validates the UID (digits only, as Facebook numeric ids are)
// and stamps the creation time.
func NewUIDRecord(uid string, submittedBy, chatID int64, note, source string) (*UIDRecord, error) {
	uid = strings.TrimSpace(uid)
	if !IsNumericUID(uid) {
		return nil, domain.ErrInvalidArgument
	}
	return &UIDRecord{
		UID:         uid,
		SubmittedBy: submittedBy,
		ChatID:      chatID,
		Note:        strings.TrimSpace(note),
		Source:      strings.TrimSpace(source),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// IsNumericUID reports whether s looks like a Facebook numeric identifier.
func IsNumericUID(s string) bool {
	if s == "" || len(s) > 32 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
