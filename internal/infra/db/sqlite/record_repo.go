package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"telegram-uid-keeper/internal/domain"
	"telegram-uid-keeper/internal/domain/model"
	"telegram-uid-keeper/internal/domain/ports/repository"
)

var _ repository.RecordRepository = (*RecordRepo)(nil)

type RecordRepo struct {
	db *gorm.DB
}

func NewRecordRepo(db *gorm.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// Save inserts the record unless the UID already exists, in which case the
// stored row is returned untouched. ON CONFLICT DO NOTHING keeps the
// insert-or-skip decision inside a single statement, so two near-simultaneous
// saves of the same UID cannot both create a row.
func (r *RecordRepo) Save(ctx context.Context, rec *model.UIDRecord) (*model.UIDRecord, bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rec)
	if res.Error != nil {
		return nil, false, domain.NewStorageError("save record", res.Error)
	}
	if res.RowsAffected > 0 {
		return rec, true, nil
	}
	existing, err := r.Find(ctx, rec.UID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *RecordRepo) Find(ctx context.Context, uid string) (*model.UIDRecord, error) {
	var rec model.UIDRecord
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStorageError("find record", err)
	}
	return &rec, nil
}

func (r *RecordRepo) Delete(ctx context.Context, uid string) (bool, error) {
	res := r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&model.UIDRecord{})
	if res.Error != nil {
		return false, domain.NewStorageError("delete record", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *RecordRepo) DeleteByChat(ctx context.Context, chatID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("chat_id = ?", chatID).Delete(&model.UIDRecord{})
	if res.Error != nil {
		return 0, domain.NewStorageError("delete by chat", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *RecordRepo) List(ctx context.Context, filter repository.ListFilter) ([]*model.UIDRecord, error) {
	q := r.db.WithContext(ctx).Model(&model.UIDRecord{}).Order("created_at ASC")
	if filter.SubmittedBy != 0 {
		q = q.Where("submitted_by = ?", filter.SubmittedBy)
	}
	if filter.ChatID != 0 {
		q = q.Where("chat_id = ?", filter.ChatID)
	}
	var recs []*model.UIDRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, domain.NewStorageError("list records", err)
	}
	return recs, nil
}

func (r *RecordRepo) Search(ctx context.Context, query string, limit int) ([]*model.UIDRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	like := "%" + query + "%"
	var recs []*model.UIDRecord
	err := r.db.WithContext(ctx).
		Where("uid LIKE ? OR note LIKE ?", like, like).
		Order("created_at ASC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, domain.NewStorageError("search records", err)
	}
	return recs, nil
}

func (r *RecordRepo) Count(ctx context.Context) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.UIDRecord{}).Count(&n).Error; err != nil {
		return 0, domain.NewStorageError("count records", err)
	}
	return int(n), nil
}

// LastSavedAt returns the newest created_at, or the zero time when the
// table is empty.
func (r *RecordRepo) LastSavedAt(ctx context.Context) (time.Time, error) {
	var rec model.UIDRecord
	err := r.db.WithContext(ctx).Order("created_at DESC").First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, domain.NewStorageError("last saved at", err)
	}
	return rec.CreatedAt, nil
}
