package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/wellbeing-backend/internal/analytics"
	"github.com/yungbote/wellbeing-backend/internal/ingestion/pipeline"
	"github.com/yungbote/wellbeing-backend/internal/observability"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
	"github.com/yungbote/wellbeing-backend/internal/services"
)

type Services struct {
	Engine *analytics.Engine

	Student        services.StudentService
	Ingestion      services.IngestionService
	Analytics      services.AnalyticsService
	Recommendation services.RecommendationService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	engine := analytics.NewEngine(cfg.Scoring)
	ingest := pipeline.New(log, pipeline.DefaultRegistry(), pipeline.Options{MaxBytes: cfg.UploadMaxBytes})

	student := services.NewStudentService(db, log, repos.Student, engine, clients.AnalyticsCache, metrics)
	return Services{
		Engine:         engine,
		Student:        student,
		Ingestion:      services.NewIngestionService(db, log, ingest, repos.Student, repos.IngestionRun, clients.AnalyticsCache, metrics),
		Analytics:      services.NewAnalyticsService(db, log, repos.Student, engine, clients.AnalyticsCache, metrics),
		Recommendation: services.NewRecommendationService(log, student, engine),
	}
}
