package ingestion

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/wellbeing-backend/internal/data/storeerr"
	domain "github.com/yungbote/wellbeing-backend/internal/domain/ingestion"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

const defaultRecentLimit = 50

type RunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *domain.Run) (*domain.Run, error)
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*domain.Run, error)
}

type runRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRunRepo(db *gorm.DB, baseLog *logger.Logger) RunRepo {
	repoLog := baseLog.With("repo", "IngestionRunRepo")
	return &runRepo{db: db, log: repoLog}
}

func (r *runRepo) Create(ctx context.Context, tx *gorm.DB, run *domain.Run) (*domain.Run, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return nil, storeerr.MapError("IngestionRunRepo.Create", err)
	}
	return run, nil
}

// ListRecent returns runs newest first. limit <= 0 uses the default of 50.
func (r *runRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*domain.Run, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	var results []*domain.Run
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, storeerr.MapError("IngestionRunRepo.ListRecent", err)
	}
	return results, nil
}
