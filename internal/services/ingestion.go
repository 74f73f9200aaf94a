package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/wellbeing-backend/internal/clients/redis"
	"github.com/yungbote/wellbeing-backend/internal/data/repos"
	"github.com/yungbote/wellbeing-backend/internal/domain/ingestion"
	"github.com/yungbote/wellbeing-backend/internal/ingestion/pipeline"
	"github.com/yungbote/wellbeing-backend/internal/observability"
	"github.com/yungbote/wellbeing-backend/internal/platform/ctxutil"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

// Upload is one file handed to the ingestion service.
type Upload struct {
	FileName string
	Data     []byte
}

type IngestionService interface {
	Ingest(ctx context.Context, upload Upload) (*pipeline.Result, error)
	RecentRuns(ctx context.Context, limit int) ([]*ingestion.Run, error)
}

type ingestionService struct {
	db          *gorm.DB
	log         *logger.Logger
	pipeline    *pipeline.Pipeline
	studentRepo repos.StudentRepo
	runRepo     repos.IngestionRunRepo
	cache       redis.AnalyticsCache
	metrics     *observability.Metrics
}

func NewIngestionService(
	db *gorm.DB,
	log *logger.Logger,
	p *pipeline.Pipeline,
	studentRepo repos.StudentRepo,
	runRepo repos.IngestionRunRepo,
	cache redis.AnalyticsCache,
	metrics *observability.Metrics,
) IngestionService {
	if cache == nil {
		cache = redis.NewNopAnalyticsCache()
	}
	return &ingestionService{
		db:          db,
		log:         log.With("service", "IngestionService"),
		pipeline:    p,
		studentRepo: studentRepo,
		runRepo:     runRepo,
		cache:       cache,
		metrics:     metrics,
	}
}

type runMeta struct {
	Columns []string `json:"columns"`
	Bytes   int      `json:"bytes"`
}

// Ingest writes the student batch and its run record in one transaction.
func (s *ingestionService) Ingest(ctx context.Context, upload Upload) (*pipeline.Result, error) {
	ctx, span := observability.Tracer().Start(ctx, "IngestionService.Ingest")
	defer span.End()

	started := time.Now()
	sum := sha256.Sum256(upload.Data)
	digest := hex.EncodeToString(sum[:])
	span.SetAttributes(
		attribute.String("ingest.file_name", upload.FileName),
		attribute.Int("ingest.bytes", len(upload.Data)),
	)

	store := pipeline.StoreFunc(func(ctx context.Context, batch *pipeline.Batch) error {
		meta, err := json.Marshal(runMeta{Columns: batch.Columns, Bytes: len(upload.Data)})
		if err != nil {
			return err
		}
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.studentRepo.UpsertBatch(ctx, tx, batch.Students); err != nil {
				return err
			}
			_, err := s.runRepo.Create(ctx, tx, &ingestion.Run{
				Schema:     batch.Schema,
				FileName:   upload.FileName,
				FileSHA256: digest,
				Submitted:  len(batch.Students),
				Meta:       datatypes.JSON(meta),
			})
			return err
		})
	})

	res, err := s.pipeline.Ingest(ctx, store, upload.Data)
	if err != nil {
		reason := failureReason(err)
		s.metrics.ObserveIngest("", 0, reason, time.Since(started))
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
		if errors.Is(err, pipeline.ErrInputFormat) {
			s.log.Info("CSV rejected", append(ctxutil.LogFields(ctx), "file", upload.FileName, "reason", reason)...)
		} else {
			s.log.Error("CSV ingestion failed", append(ctxutil.LogFields(ctx), "file", upload.FileName, "error", err)...)
		}
		return nil, err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("Analytics cache invalidation failed", "error", err)
	}
	s.metrics.ObserveIngest(res.Schema, res.Inserted, "", time.Since(started))
	span.SetAttributes(
		attribute.String("ingest.schema", res.Schema),
		attribute.Int("ingest.rows", res.Inserted),
	)
	s.log.Info("CSV ingested", append(ctxutil.LogFields(ctx),
		"file", upload.FileName,
		"schema", res.Schema,
		"rows", res.Inserted,
		"sha256", digest,
	)...)
	return res, nil
}

func (s *ingestionService) RecentRuns(ctx context.Context, limit int) ([]*ingestion.Run, error) {
	return s.runRepo.ListRecent(ctx, nil, limit)
}

// failureReason is the metric label for a failed ingestion.
func failureReason(err error) string {
	switch {
	case errors.Is(err, pipeline.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, pipeline.ErrUnrecognizedSchema):
		return "unrecognized_schema"
	case errors.Is(err, pipeline.ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, pipeline.ErrInputTooLarge):
		return "too_large"
	case errors.Is(err, repos.ErrStoreNotInitialized):
		return "store_not_initialized"
	default:
		return "store_failure"
	}
}
