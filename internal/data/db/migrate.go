package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/wellbeing-backend/internal/domain/ingestion"
	"github.com/yungbote/wellbeing-backend/internal/domain/student"
)

// Models lists every table owned by the service, in migration order.
func Models() []any {
	return []any{
		&student.Student{},
		&ingestion.Run{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
