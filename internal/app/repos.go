package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/wellbeing-backend/internal/data/repos"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

type Repos struct {
	Student      repos.StudentRepo
	IngestionRun repos.IngestionRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Student:      repos.NewStudentRepo(db, log),
		IngestionRun: repos.NewIngestionRunRepo(db, log),
	}
}
