package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/wellbeing-backend/internal/data/db"
	"github.com/yungbote/wellbeing-backend/internal/http"
	"github.com/yungbote/wellbeing-backend/internal/observability"
	"github.com/yungbote/wellbeing-backend/internal/platform/envutil"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	Metrics  *observability.Metrics
	Server   *http.Server

	store        *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// New loads .env and the environment, then wires every layer. The HTTP
// server is built but not started.
func New() (*App, error) {
	if _, err := envutil.LoadDotenv(envutil.String("DOTENV_PATH", ".env", nil)); err != nil {
		return nil, fmt.Errorf("load dotenv: %w", err)
	}

	log, err := logger.New(envutil.String("LOG_MODE", "development", nil))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	a, err := Build(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

// Build wires an App from an explicit configuration.
func Build(log *logger.Logger, cfg Config) (*App, error) {
	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	otelShutdown := observability.InitOTel(context.Background(), log, cfg.Otel)
	metrics := observability.Init(cfg.MetricsEnabled)

	store, err := OpenStore(log, cfg)
	if err != nil {
		_ = otelShutdown(context.Background())
		return nil, err
	}
	theDB := store.DB()

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = store.Close()
		_ = otelShutdown(context.Background())
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients, metrics)
	handlerset := wireHandlers(log, cfg, serviceset)
	server := wireServer(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		Metrics:      metrics,
		Server:       server,
		store:        store,
		otelShutdown: otelShutdown,
	}, nil
}

// OpenStore connects to the configured database and migrates it when
// DB_AUTO_MIGRATE is on.
func OpenStore(log *logger.Logger, cfg Config) (*db.Service, error) {
	store, err := db.NewService(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	if cfg.AutoMigrate {
		if err := db.AutoMigrateAll(store.DB()); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	return store, nil
}

// Start launches background collectors.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.Metrics.StartStoreCollector(ctx, a.Log, a.DB)
	a.Metrics.StartRedisCollector(ctx, a.Log, a.Cfg.RedisAddr)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Start()

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.Addr())
		errCh <- a.Server.Run(a.Cfg.Addr())
	}()

	select {
	case <-ctx.Done():
		a.Log.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		defer cancel()
		return a.Server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.Log.Warn("store close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
