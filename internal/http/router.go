package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/wellbeing-backend/internal/http/handlers"
	httpMW "github.com/yungbote/wellbeing-backend/internal/http/middleware"
	"github.com/yungbote/wellbeing-backend/internal/observability"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string
	StaticDir      string

	StudentHandler        *httpH.StudentHandler
	UploadHandler         *httpH.UploadHandler
	AnalyticsHandler      *httpH.AnalyticsHandler
	RecommendationHandler *httpH.RecommendationHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		if cfg.HealthHandler != nil {
			api.GET("/health", cfg.HealthHandler.Status)
		}

		// Students
		if cfg.StudentHandler != nil {
			api.GET("/students", cfg.StudentHandler.List)
			api.POST("/students", cfg.StudentHandler.Create)
			api.GET("/students/:id", cfg.StudentHandler.Get)
		}

		// Upload
		if cfg.UploadHandler != nil {
			api.POST("/upload/csv", cfg.UploadHandler.UploadCSV)
			api.GET("/upload/runs", cfg.UploadHandler.ListRuns)
		}

		// Analytics
		if cfg.AnalyticsHandler != nil {
			api.GET("/analytics/segments", cfg.AnalyticsHandler.Segments)
			api.GET("/analytics/correlations", cfg.AnalyticsHandler.Correlations)
		}

		// Recommendations
		if cfg.RecommendationHandler != nil {
			api.GET("/recommendations/:id", cfg.RecommendationHandler.ForStudent)
		}
	}

	// Dashboard assets
	if dir := strings.TrimSpace(cfg.StaticDir); dir != "" {
		fs := http.Dir(dir)
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "No encontrado", "code": "not_found"}})
				return
			}
			c.FileFromFS(c.Request.URL.Path, fs)
		})
	}

	return r
}
