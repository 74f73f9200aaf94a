package student

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/wellbeing-backend/internal/data/storeerr"
	domain "github.com/yungbote/wellbeing-backend/internal/domain/student"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

// Order is a whitelisted ORDER BY clause for List.
type Order string

const (
	OrderIDAsc  Order = "id ASC"
	OrderIDDesc Order = "id DESC"
)

const upsertBatchSize = 500

type StudentRepo interface {
	List(ctx context.Context, tx *gorm.DB, order Order) ([]*domain.Student, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*domain.Student, error)
	GetByFingerprint(ctx context.Context, tx *gorm.DB, fingerprint string) (*domain.Student, error)
	UpsertBatch(ctx context.Context, tx *gorm.DB, students []*domain.Student) error
	CreateOrGet(ctx context.Context, tx *gorm.DB, s *domain.Student) (*domain.Student, bool, error)
}

type studentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	repoLog := baseLog.With("repo", "StudentRepo")
	return &studentRepo{db: db, log: repoLog}
}

func (r *studentRepo) List(ctx context.Context, tx *gorm.DB, order Order) ([]*domain.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx)
	switch order {
	case OrderIDAsc, OrderIDDesc:
		q = q.Order(string(order))
	case "":
	default:
		return nil, fmt.Errorf("StudentRepo.List: unsupported order %q", order)
	}

	var results []*domain.Student
	if err := q.Find(&results).Error; err != nil {
		return nil, storeerr.MapError("StudentRepo.List", err)
	}
	return results, nil
}

func (r *studentRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).Model(&domain.Student{}).Count(&count).Error; err != nil {
		return 0, storeerr.MapError("StudentRepo.Count", err)
	}
	return count, nil
}

func (r *studentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*domain.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var s domain.Student
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, storeerr.MapError("StudentRepo.GetByID", err)
	}
	return &s, nil
}

func (r *studentRepo) GetByFingerprint(ctx context.Context, tx *gorm.DB, fingerprint string) (*domain.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var s domain.Student
	if err := transaction.WithContext(ctx).Where("fingerprint = ?", fingerprint).First(&s).Error; err != nil {
		return nil, storeerr.MapError("StudentRepo.GetByFingerprint", err)
	}
	return &s, nil
}

// UpsertBatch inserts every record in one transaction. Records whose
// fingerprint already exists, in the table or earlier in the batch, are
// skipped. The caller's records are not modified.
func (r *studentRepo) UpsertBatch(ctx context.Context, tx *gorm.DB, students []*domain.Student) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	rows := make([]domain.Student, 0, len(students))
	seen := make(map[string]struct{}, len(students))
	for _, s := range students {
		if s == nil {
			continue
		}
		row := *s
		row.ID = 0
		if row.Fingerprint == "" {
			row.Seal()
		}
		if _, dup := seen[row.Fingerprint]; dup {
			continue
		}
		seen[row.Fingerprint] = struct{}{}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}

	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		return txx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "fingerprint"}},
				DoNothing: true,
			}).
			CreateInBatches(&rows, upsertBatchSize).Error
	})
	if err != nil {
		return storeerr.MapError("StudentRepo.UpsertBatch", err)
	}
	return nil
}

// CreateOrGet inserts s unless its fingerprint exists and returns the stored
// record either way. created reports whether this call inserted it.
func (r *studentRepo) CreateOrGet(ctx context.Context, tx *gorm.DB, s *domain.Student) (*domain.Student, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if s == nil {
		return nil, false, fmt.Errorf("StudentRepo.CreateOrGet: nil student")
	}

	row := *s
	row.ID = 0
	row.Seal()

	var (
		stored  *domain.Student
		created bool
	)
	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		res := txx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "fingerprint"}},
				DoNothing: true,
			}).
			Create(&row)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected > 0
		var got domain.Student
		if err := txx.Where("fingerprint = ?", row.Fingerprint).First(&got).Error; err != nil {
			return err
		}
		stored = &got
		return nil
	})
	if err != nil {
		return nil, false, storeerr.MapError("StudentRepo.CreateOrGet", err)
	}
	return stored, created, nil
}
