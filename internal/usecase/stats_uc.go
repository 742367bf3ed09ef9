package usecase

import (
	"context"
	"time"

	"telegram-uid-keeper/internal/domain/ports/repository"
	"telegram-uid-keeper/internal/infra/logging"

	"github.com/rs/zerolog"
)

var _ StatsUseCase = (*statsUC)(nil)

// Stats is the aggregate shown by /stats and the admin API.
type Stats struct {
	TotalRecords int
	LastSavedAt  time.Time
}

type StatsUseCase interface {
	Overview(ctx context.Context) (*Stats, error)
}

type statsUC struct {
	records repository.RecordRepository
	log     *zerolog.Logger
}

func NewStatsUseCase(records repository.RecordRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{records: records, log: logger}
}

func (u *statsUC) Overview(ctx context.Context) (*Stats, error) {
	defer logging.TraceDuration(u.log, "StatsUC.Overview")()

	total, err := u.records.Count(ctx)
	if err != nil {
		return nil, err
	}
	last, err := u.records.LastSavedAt(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{TotalRecords: total, LastSavedAt: last}, nil
}
