package analytics

import "github.com/yungbote/wellbeing-backend/internal/domain/student"

const (
	RecBreathing      = "Técnicas de respiración/mindfulness (10 min diarios)."
	RecSleepHygiene   = "Rutina de higiene del sueño (horarios regulares, evitar pantallas)."
	RecStudyPlanning  = "Planificación semanal con descansos y técnica Pomodoro."
	RecBoundaries     = "Taller de límites personales y asertividad."
	RecActiveBreaks   = "Pausas activas y revisión de ergonomía del estudio."
	RecKeepMonitoring = "Mantener hábitos actuales y seguimiento mensual."
)

type recommendationRule struct {
	factor    string
	threshold func(Thresholds) int
	text      string
}

// Rule order is the order advice is shown in.
var recommendationRules = []recommendationRule{
	{student.FactorAnxiety, func(t Thresholds) int { return t.Anxiety }, RecBreathing},
	{student.FactorSleepProblems, func(t Thresholds) int { return t.SleepProblems }, RecSleepHygiene},
	{student.FactorStudyIntensity, func(t Thresholds) int { return t.StudyIntensity }, RecStudyPlanning},
	{student.FactorSocialPressure, func(t Thresholds) int { return t.SocialPressure }, RecBoundaries},
	{student.FactorHeadaches, func(t Thresholds) int { return t.Headaches }, RecActiveBreaks},
}

// Recommend returns the advice triggered by f, or the single maintenance
// recommendation when no factor reaches its threshold.
func (e *Engine) Recommend(f student.Factors) []string {
	out := make([]string, 0, len(recommendationRules))
	for _, rule := range recommendationRules {
		if f.Value(rule.factor) >= rule.threshold(e.cfg.Recommendations) {
			out = append(out, rule.text)
		}
	}
	if len(out) == 0 {
		out = append(out, RecKeepMonitoring)
	}
	return out
}
