package analytics

import (
	"math"

	"github.com/yungbote/wellbeing-backend/internal/domain/student"
)

type Segment string

const (
	SegmentLow      Segment = "bajo"
	SegmentModerate Segment = "moderado"
	SegmentHigh     Segment = "alto"
)

// Engine evaluates scores, segments and recommendations for one Config.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config { return e.cfg }

// Score returns the weighted risk score in 0..100.
func (e *Engine) Score(f student.Factors) int {
	w := e.cfg.Weights
	// Explicit conversions keep each product rounded on its own so results
	// do not depend on fused multiply-add.
	s := float64(float64(f.StudyIntensity)*w.StudyIntensity) +
		float64(float64(f.SleepProblems)*w.SleepProblems) +
		float64(float64(f.Headaches)*w.Headaches) +
		float64(float64(f.SocialPressure)*w.SocialPressure) +
		float64(float64(f.Anxiety)*w.Anxiety)
	score := int(math.Round(float64(s * 10)))
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	}
	return score
}

func (e *Engine) Segment(score int) Segment {
	switch {
	case score >= e.cfg.Segments.High:
		return SegmentHigh
	case score >= e.cfg.Segments.Moderate:
		return SegmentModerate
	default:
		return SegmentLow
	}
}

// Assessment is the derived, never persisted view of a student.
type Assessment struct {
	Score   int     `json:"riskScore"`
	Segment Segment `json:"riskSegment"`
}

func (e *Engine) Assess(s *student.Student) Assessment {
	score := e.Score(s.Factors())
	return Assessment{Score: score, Segment: e.Segment(score)}
}

// SegmentTotals counts students per segment.
type SegmentTotals struct {
	Low      int `json:"bajo"`
	Moderate int `json:"moderado"`
	High     int `json:"alto"`
}

func (e *Engine) Segments(students []*student.Student) SegmentTotals {
	var out SegmentTotals
	for _, s := range students {
		if s == nil {
			continue
		}
		switch e.Assess(s).Segment {
		case SegmentHigh:
			out.High++
		case SegmentModerate:
			out.Moderate++
		default:
			out.Low++
		}
	}
	return out
}
