package services

import (
	"context"

	"github.com/yungbote/wellbeing-backend/internal/analytics"
	"github.com/yungbote/wellbeing-backend/internal/domain/student"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
)

// RecommendationReport is the per-student advice view.
type RecommendationReport struct {
	Student         *student.Student  `json:"student"`
	RiskScore       int               `json:"riskScore"`
	RiskSegment     analytics.Segment `json:"riskSegment"`
	Recommendations []string          `json:"recommendations"`
}

type RecommendationService interface {
	ForStudent(ctx context.Context, id uint) (*RecommendationReport, error)
}

type recommendationService struct {
	log      *logger.Logger
	students StudentService
	engine   *analytics.Engine
}

func NewRecommendationService(log *logger.Logger, students StudentService, engine *analytics.Engine) RecommendationService {
	return &recommendationService{
		log:      log.With("service", "RecommendationService"),
		students: students,
		engine:   engine,
	}
}

func (s *recommendationService) ForStudent(ctx context.Context, id uint) (*RecommendationReport, error) {
	scored, err := s.students.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RecommendationReport{
		Student:         scored.Student,
		RiskScore:       scored.Score,
		RiskSegment:     scored.Segment,
		Recommendations: s.engine.Recommend(scored.Factors()),
	}, nil
}
