package app

import (
	"fmt"
	"time"

	"github.com/yungbote/wellbeing-backend/internal/analytics"
	"github.com/yungbote/wellbeing-backend/internal/data/db"
	"github.com/yungbote/wellbeing-backend/internal/observability"
	"github.com/yungbote/wellbeing-backend/internal/platform/envutil"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

const defaultUploadMaxBytes = 10 << 20

type Config struct {
	Port    string
	LogMode string

	DB          db.Config
	AutoMigrate bool

	UploadMaxBytes int64
	StaticDir      string
	AllowedOrigins []string

	RedisAddr         string
	AnalyticsCacheTTL time.Duration

	ScoringConfigPath string
	Scoring           analytics.Config

	MetricsEnabled  bool
	Otel            observability.OtelConfig
	ShutdownTimeout time.Duration
}

// LoadConfig reads the process environment. Only an invalid scoring file is
// an error; everything else falls back to defaults.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:    envutil.String("PORT", "8080", log),
		LogMode: envutil.String("LOG_MODE", "development", log),
		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", db.DriverPostgres, log),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres", log),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", log),
			PostgresName:     envutil.String("POSTGRES_NAME", "wellbeing", log),
			SQLitePath:       envutil.String("SQLITE_PATH", "wellbeing.db", log),
		},
		AutoMigrate:       envutil.Bool("DB_AUTO_MIGRATE", true, log),
		UploadMaxBytes:    int64(envutil.Int("UPLOAD_MAX_BYTES", defaultUploadMaxBytes, log)),
		StaticDir:         envutil.String("STATIC_DIR", "", log),
		AllowedOrigins:    envutil.List("CORS_ALLOWED_ORIGINS", nil),
		RedisAddr:         envutil.String("REDIS_ADDR", "", log),
		AnalyticsCacheTTL: time.Duration(envutil.Int("ANALYTICS_CACHE_TTL_SECONDS", 60, log)) * time.Second,
		ScoringConfigPath: envutil.String("SCORING_CONFIG_PATH", "", log),
		MetricsEnabled:    envutil.Bool("METRICS_ENABLED", true, log),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "wellbeing-backend", log),
			Environment: envutil.String("OTEL_ENVIRONMENT", envutil.String("LOG_MODE", "development", nil), log),
			Version:     envutil.String("OTEL_SERVICE_VERSION", "", log),
			Exporter:    envutil.String("OTEL_EXPORTER", "stdout", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: float64(envutil.Int("OTEL_SAMPLE_PERCENT", 100, log)) / 100,
		},
		ShutdownTimeout: time.Duration(envutil.Int("SHUTDOWN_TIMEOUT_SECONDS", 10, log)) * time.Second,
	}
	if cfg.UploadMaxBytes <= 0 {
		cfg.UploadMaxBytes = defaultUploadMaxBytes
	}

	scoring, err := analytics.LoadConfig(cfg.ScoringConfigPath)
	if err != nil {
		return Config{}, fmt.Errorf("load scoring config: %w", err)
	}
	cfg.Scoring = scoring
	return cfg, nil
}

func (c Config) Addr() string { return ":" + c.Port }
