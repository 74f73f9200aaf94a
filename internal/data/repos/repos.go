package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/wellbeing-backend/internal/data/repos/ingestion"
	"github.com/yungbote/wellbeing-backend/internal/data/repos/student"
	"github.com/yungbote/wellbeing-backend/internal/data/storeerr"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

type StudentRepo = student.StudentRepo
type StudentOrder = student.Order
type IngestionRunRepo = ingestion.RunRepo

const (
	OrderIDAsc  = student.OrderIDAsc
	OrderIDDesc = student.OrderIDDesc
)

var (
	ErrStoreFailure        = storeerr.ErrStoreFailure
	ErrStoreNotInitialized = storeerr.ErrStoreNotInitialized
	ErrNotFound            = storeerr.ErrNotFound
)

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	return student.NewStudentRepo(db, baseLog)
}

func NewIngestionRunRepo(db *gorm.DB, baseLog *logger.Logger) IngestionRunRepo {
	return ingestion.NewRunRepo(db, baseLog)
}
