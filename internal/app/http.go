package app

import (
	"github.com/yungbote/wellbeing-backend/internal/http"
	httpH "github.com/yungbote/wellbeing-backend/internal/http/handlers"
	"github.com/yungbote/wellbeing-backend/internal/observability"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

type Handlers struct {
	Health         *httpH.HealthHandler
	Student        *httpH.StudentHandler
	Upload         *httpH.UploadHandler
	Analytics      *httpH.AnalyticsHandler
	Recommendation *httpH.RecommendationHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:         httpH.NewHealthHandler(),
		Student:        httpH.NewStudentHandler(log, services.Student),
		Upload:         httpH.NewUploadHandler(log, services.Ingestion, cfg.UploadMaxBytes),
		Analytics:      httpH.NewAnalyticsHandler(log, services.Analytics),
		Recommendation: httpH.NewRecommendationHandler(log, services.Recommendation),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:                   log,
		Metrics:               metrics,
		ServiceName:           serviceName,
		AllowedOrigins:        cfg.AllowedOrigins,
		StaticDir:             cfg.StaticDir,
		StudentHandler:        handlers.Student,
		UploadHandler:         handlers.Upload,
		AnalyticsHandler:      handlers.Analytics,
		RecommendationHandler: handlers.Recommendation,
		HealthHandler:         handlers.Health,
	})
}
