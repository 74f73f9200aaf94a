package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/yungbote/wellbeing-backend/internal/analytics"
	"github.com/yungbote/wellbeing-backend/internal/clients/redis"
	"github.com/yungbote/wellbeing-backend/internal/data/repos"
	"github.com/yungbote/wellbeing-backend/internal/domain/student"
	"github.com/yungbote/wellbeing-backend/internal/normalization"
	"github.com/yungbote/wellbeing-backend/internal/observability"
	"github.com/yungbote/wellbeing-backend/internal/platform/ctxutil"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

// StudentInput is a single manual submission.
type StudentInput struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Age            *int     `json:"age" validate:"omitempty,gte=0,lte=130"`
	Gender         *string  `json:"gender" validate:"omitempty,max=64"`
	Year           *int     `json:"year" validate:"omitempty,gte=0,lte=20"`
	StudyIntensity *int     `json:"studyIntensity" validate:"required,gte=0,lte=10"`
	SleepProblems  *int     `json:"sleepProblems" validate:"required,gte=0,lte=10"`
	Headaches      *int     `json:"headaches" validate:"required,gte=0,lte=10"`
	SocialPressure *int     `json:"socialPressure" validate:"required,gte=0,lte=10"`
	Anxiety        *int     `json:"anxiety" validate:"required,gte=0,lte=10"`
	GPA            *float64 `json:"gpa" validate:"omitempty,gte=0"`
}

// ScoredStudent is a stored record with its derived risk fields.
type ScoredStudent struct {
	*student.Student
	analytics.Assessment
}

type StudentService interface {
	List(ctx context.Context) ([]ScoredStudent, error)
	Get(ctx context.Context, id uint) (*ScoredStudent, error)
	// Create stores in unless an identical record exists; created reports
	// which case happened. Either way the stored record is returned.
	Create(ctx context.Context, in StudentInput) (*ScoredStudent, bool, error)
}

type studentService struct {
	db          *gorm.DB
	log         *logger.Logger
	studentRepo repos.StudentRepo
	engine      *analytics.Engine
	cache       redis.AnalyticsCache
	metrics     *observability.Metrics
	validate    *validator.Validate
}

func NewStudentService(
	db *gorm.DB,
	log *logger.Logger,
	studentRepo repos.StudentRepo,
	engine *analytics.Engine,
	cache redis.AnalyticsCache,
	metrics *observability.Metrics,
) StudentService {
	if cache == nil {
		cache = redis.NewNopAnalyticsCache()
	}
	return &studentService{
		db:          db,
		log:         log.With("service", "StudentService"),
		studentRepo: studentRepo,
		engine:      engine,
		cache:       cache,
		metrics:     metrics,
		validate:    newValidator(),
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *studentService) score(st *student.Student) ScoredStudent {
	return ScoredStudent{Student: st, Assessment: s.engine.Assess(st)}
}

func (s *studentService) List(ctx context.Context) ([]ScoredStudent, error) {
	rows, err := s.studentRepo.List(ctx, nil, repos.OrderIDAsc)
	if err != nil {
		return nil, err
	}
	out := make([]ScoredStudent, 0, len(rows))
	for _, st := range rows {
		out = append(out, s.score(st))
	}
	return out, nil
}

func (s *studentService) Get(ctx context.Context, id uint) (*ScoredStudent, error) {
	st, err := s.studentRepo.GetByID(ctx, nil, id)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, fmt.Errorf("student %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	scored := s.score(st)
	return &scored, nil
}

// toStudent trims text fields and validates the result.
func (s *studentService) toStudent(in StudentInput) (*student.Student, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Gender != nil {
		in.Gender = normalization.TrimmedOrNil(*in.Gender)
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, newValidationError(err)
	}
	return &student.Student{
		Name:           in.Name,
		Age:            in.Age,
		Gender:         in.Gender,
		Year:           in.Year,
		StudyIntensity: *in.StudyIntensity,
		SleepProblems:  *in.SleepProblems,
		Headaches:      *in.Headaches,
		SocialPressure: *in.SocialPressure,
		Anxiety:        *in.Anxiety,
		GPA:            in.GPA,
	}, nil
}

func (s *studentService) Create(ctx context.Context, in StudentInput) (*ScoredStudent, bool, error) {
	ctx, span := observability.Tracer().Start(ctx, "StudentService.Create")
	defer span.End()

	st, err := s.toStudent(in)
	if err != nil {
		s.metrics.IncSubmission("invalid")
		span.SetStatus(codes.Error, "invalid submission")
		return nil, false, err
	}
	st.Seal()
	span.SetAttributes(attribute.String("student.fingerprint", st.Fingerprint))

	stored, created, err := s.studentRepo.CreateOrGet(ctx, nil, st)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failure")
		s.log.Error("Student submission failed", append(ctxutil.LogFields(ctx), "student_name", st.Name, "error", err)...)
		return nil, false, err
	}

	outcome := "existing"
	if created {
		outcome = "created"
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn("Analytics cache invalidation failed", "error", err)
		}
	}
	s.metrics.IncSubmission(outcome)
	span.SetAttributes(attribute.Bool("student.created", created))
	s.log.Debug("Student submitted", append(ctxutil.LogFields(ctx),
		"student_id", stored.ID,
		"student_name", stored.Name,
		"outcome", outcome,
	)...)

	scored := s.score(stored)
	return &scored, created, nil
}
