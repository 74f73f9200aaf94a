package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/wellbeing-backend/internal/analytics"
	"github.com/yungbote/wellbeing-backend/internal/clients/redis"
	"github.com/yungbote/wellbeing-backend/internal/data/repos"
	"github.com/yungbote/wellbeing-backend/internal/observability"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

const (
	cacheKeySegments     = "segments"
	cacheKeyCorrelations = "correlations"
)

type AnalyticsService interface {
	Segments(ctx context.Context) (*analytics.SegmentTotals, error)
	Correlations(ctx context.Context) (*analytics.Matrix, error)
}

type analyticsService struct {
	db          *gorm.DB
	log         *logger.Logger
	studentRepo repos.StudentRepo
	engine      *analytics.Engine
	cache       redis.AnalyticsCache
	metrics     *observability.Metrics
}

func NewAnalyticsService(
	db *gorm.DB,
	log *logger.Logger,
	studentRepo repos.StudentRepo,
	engine *analytics.Engine,
	cache redis.AnalyticsCache,
	metrics *observability.Metrics,
) AnalyticsService {
	if cache == nil {
		cache = redis.NewNopAnalyticsCache()
	}
	return &analyticsService{
		db:          db,
		log:         log.With("service", "AnalyticsService"),
		studentRepo: studentRepo,
		engine:      engine,
		cache:       cache,
		metrics:     metrics,
	}
}

func (s *analyticsService) Segments(ctx context.Context) (*analytics.SegmentTotals, error) {
	var out analytics.SegmentTotals
	gen, cached := s.generation(ctx)
	if cached && s.lookup(ctx, gen, cacheKeySegments, &out) {
		return &out, nil
	}
	rows, err := s.studentRepo.List(ctx, nil, repos.OrderIDAsc)
	if err != nil {
		return nil, err
	}
	out = s.engine.Segments(rows)
	if cached {
		s.store(ctx, gen, cacheKeySegments, out)
	}
	return &out, nil
}

func (s *analyticsService) Correlations(ctx context.Context) (*analytics.Matrix, error) {
	var out analytics.Matrix
	gen, cached := s.generation(ctx)
	if cached && s.lookup(ctx, gen, cacheKeyCorrelations, &out) {
		return &out, nil
	}
	rows, err := s.studentRepo.List(ctx, nil, repos.OrderIDAsc)
	if err != nil {
		return nil, err
	}
	out = analytics.Correlations(rows)
	if cached {
		s.store(ctx, gen, cacheKeyCorrelations, out)
	}
	return &out, nil
}

// generation is read before the students are listed, so a result computed
// from rows that an ingest has since replaced is stored under a retired
// generation. cached=false skips the cache for this request.
func (s *analyticsService) generation(ctx context.Context) (gen int64, cached bool) {
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.metrics.IncCacheLookup("error")
		s.log.Warn("Analytics cache generation read failed", "error", err)
		return 0, false
	}
	return gen, true
}

// Cache errors degrade to recomputation.
func (s *analyticsService) lookup(ctx context.Context, gen int64, key string, dst any) bool {
	ok, err := s.cache.Get(ctx, gen, key, dst)
	switch {
	case err != nil:
		s.metrics.IncCacheLookup("error")
		s.log.Warn("Analytics cache read failed", "key", key, "error", err)
		return false
	case ok:
		s.metrics.IncCacheLookup("hit")
		return true
	default:
		s.metrics.IncCacheLookup("miss")
		return false
	}
}

func (s *analyticsService) store(ctx context.Context, gen int64, key string, v any) {
	if err := s.cache.Set(ctx, gen, key, v); err != nil {
		s.log.Warn("Analytics cache write failed", "key", key, "error", err)
	}
}
