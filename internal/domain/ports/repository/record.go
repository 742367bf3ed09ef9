package repository

import (
	"context"
	"time"

	"telegram-uid-keeper/internal/domain/model"
)

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	SubmittedBy int64
	ChatID      int64
}

// RecordRepository is the persistence port for saved UIDs.
// Save is idempotent: when the UID already exists the stored record is
// returned unchanged and created=false.
type RecordRepository interface {
	Save(ctx context.Context, rec *model.UIDRecord) (saved *model.UIDRecord, created bool, err error)
	Find(ctx context.Context, uid string) (*model.UIDRecord, error)
	Delete(ctx context.Context, uid string) (bool, error)
	DeleteByChat(ctx context.Context, chatID int64) (int64, error)
	List(ctx context.Context, filter ListFilter) ([]*model.UIDRecord, error)
	Search(ctx context.Context, query string, limit int) ([]*model.UIDRecord, error)
	Count(ctx context.Context) (int, error)
	LastSavedAt(ctx context.Context) (time.Time, error)
}
