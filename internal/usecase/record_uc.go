package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strconv"
	"time"

	"telegram-uid-keeper/internal/domain"
	"telegram-uid-keeper/internal/domain/model"
	"telegram-uid-keeper/internal/domain/ports/repository"
	"telegram-uid-keeper/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ RecordUseCase = (*recordUC)(nil)

// RecordUseCase exposes UID store operations used by bot and admin flows.
type RecordUseCase interface {
	Save(ctx context.Context, uid string, submittedBy, chatID int64, note, source string) (*model.UIDRecord, bool, error)
	Delete(ctx context.Context, uid string) (bool, error)
	DeleteAll(ctx context.Context, chatID int64) (int64, error)
	List(ctx context.Context, filter repository.ListFilter) ([]*model.UIDRecord, error)
	Search(ctx context.Context, query string) ([]*model.UIDRecord, error)
	Exists(ctx context.Context, uid string) (bool, error)
	Count(ctx context.Context) (int, error)
	ExportCSV(ctx context.Context) ([]byte, error)
}

type recordUC struct {
	records repository.RecordRepository
	log     *zerolog.Logger
}

func NewRecordUseCase(records repository.RecordRepository, logger *zerolog.Logger) *recordUC {
	return &recordUC{records: records, log: logger}
}

// Save validates the UID and stores it. A duplicate save returns the
// existing record unchanged and created=false; it is never an error.
func (u *recordUC) Save(ctx context.Context, uid string, submittedBy, chatID int64, note, source string) (*model.UIDRecord, bool, error) {
	defer logging.TraceDuration(u.log, "RecordUC.Save")()

	rec, err := model.NewUIDRecord(uid, submittedBy, chatID, note, source)
	if err != nil {
		return nil, false, err
	}
	saved, created, err := u.records.Save(ctx, rec)
	if err != nil {
		u.log.Error().Err(err).Str("uid", rec.UID).Msg("save uid failed")
		return nil, false, err
	}
	return saved, created, nil
}

func (u *recordUC) Delete(ctx context.Context, uid string) (bool, error) {
	defer logging.TraceDuration(u.log, "RecordUC.Delete")()
	if !model.IsNumericUID(uid) {
		return false, domain.ErrInvalidArgument
	}
	return u.records.Delete(ctx, uid)
}

func (u *recordUC) DeleteAll(ctx context.Context, chatID int64) (int64, error) {
	defer logging.TraceDuration(u.log, "RecordUC.DeleteAll")()
	return u.records.DeleteByChat(ctx, chatID)
}

func (u *recordUC) List(ctx context.Context, filter repository.ListFilter) ([]*model.UIDRecord, error) {
	defer logging.TraceDuration(u.log, "RecordUC.List")()
	return u.records.List(ctx, filter)
}

func (u *recordUC) Search(ctx context.Context, query string) ([]*model.UIDRecord, error) {
	defer logging.TraceDuration(u.log, "RecordUC.Search")()
	if query == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.records.Search(ctx, query, 50)
}

func (u *recordUC) Exists(ctx context.Context, uid string) (bool, error) {
	defer logging.TraceDuration(u.log, "RecordUC.Exists")()
	_, err := u.records.Find(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (u *recordUC) Count(ctx context.Context) (int, error) {
	defer logging.TraceDuration(u.log, "RecordUC.Count")()
	return u.records.Count(ctx)
}

// ExportCSV renders every record as CSV with a header row, ordered by
// created_at ascending.
func (u *recordUC) ExportCSV(ctx context.Context) ([]byte, error) {
	defer logging.TraceDuration(u.log, "RecordUC.ExportCSV")()

	recs, err := u.records.List(ctx, repository.ListFilter{})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"uid", "note", "submitted_by", "source", "created_at"}); err != nil {
		return nil, err
	}
	for _, r := range recs {
		row := []string{
			r.UID,
			r.Note,
			strconv.FormatInt(r.SubmittedBy, 10),
			r.Source,
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
