package pipeline

import (
	"fmt"
	"strings"

	"github.com/yungbote/wellbeing-backend/internal/domain/student"
	"github.com/yungbote/wellbeing-backend/internal/normalization"
)

// StressLevelDataset columns: 0..5 scales except anxiety_level (0..30).
const (
	ColAnxietyLevel = "anxiety_level"
	ColSleepQuality = "sleep_quality"
	ColHeadache     = "headache"
	ColPeerPressure = "peer_pressure"
	ColStudyLoad    = "study_load"
)

// Stress_Dataset questions, answered yes/no/sometimes or on a 1..5 scale.
const (
	QuestionHeadaches   = "Have you been getting headaches more often than usual?"
	QuestionSleep       = "Do you face any sleep problems or difficulties falling asleep?"
	QuestionWorkload    = "Do you feel overwhelmed with your academic workload?"
	QuestionCompetition = "Are you in competition with your peers, and does it affect you?"
	QuestionAnxiety     = "Have you been dealing with anxiety or tension recently?"
)

const (
	ColName   = "name"
	ColAge    = "Age"
	ColGender = "Gender"
)

const (
	shortScaleMax   = 5
	anxietyScaleMax = 30
)

var StressLevelSchema = Schema{
	Name:     "StressLevelDataset",
	Required: []string{ColAnxietyLevel, ColSleepQuality, ColHeadache, ColPeerPressure, ColStudyLoad},
	Map:      mapStressLevel,
}

var StressSurveySchema = Schema{
	Name:     "Stress_Dataset",
	Required: []string{QuestionHeadaches, QuestionSleep, QuestionWorkload, QuestionCompetition, QuestionAnxiety},
	Map:      mapStressSurvey,
}

// FallbackName is the display name of a row without a name column value.
func FallbackName(ordinal int) string {
	return fmt.Sprintf("Estudiante_%d", ordinal)
}

func rowName(row Row, ordinal int) string {
	if name := strings.TrimSpace(row.Get(ColName)); name != "" {
		return name
	}
	return FallbackName(ordinal)
}

func mapStressLevel(_ []string, row Row, ordinal int) *student.Student {
	return &student.Student{
		Name:           rowName(row, ordinal),
		StudyIntensity: normalization.LinearScaleText(row.Get(ColStudyLoad), shortScaleMax),
		SleepProblems:  normalization.InvertedScaleText(row.Get(ColSleepQuality), shortScaleMax),
		Headaches:      normalization.LinearScaleText(row.Get(ColHeadache), shortScaleMax),
		SocialPressure: normalization.LinearScaleText(row.Get(ColPeerPressure), shortScaleMax),
		Anxiety:        normalization.LinearScaleText(row.Get(ColAnxietyLevel), anxietyScaleMax),
	}
}

func mapStressSurvey(columns []string, row Row, ordinal int) *student.Student {
	social := normalization.YesNoMaybeScale(row.Get(QuestionCompetition))
	if col, ok := peerPressureColumn(columns); ok {
		social = normalization.AverageFactors(social, normalization.YesNoMaybeScale(row.Get(col)))
	}
	return &student.Student{
		Name:           rowName(row, ordinal),
		Age:            normalization.ParseAgeOrNil(row.Get(ColAge)),
		Gender:         normalization.TrimmedOrNil(row.Get(ColGender)),
		StudyIntensity: normalization.YesNoMaybeScale(row.Get(QuestionWorkload)),
		SleepProblems:  normalization.YesNoMaybeScale(row.Get(QuestionSleep)),
		Headaches:      normalization.YesNoMaybeScale(row.Get(QuestionHeadaches)),
		SocialPressure: social,
		Anxiety:        normalization.YesNoMaybeScale(row.Get(QuestionAnxiety)),
	}
}

// peerPressureColumn finds the first extra column, in header order, whose
// name mentions peers or pressure. The competition question itself is
// excluded.
func peerPressureColumn(columns []string) (string, bool) {
	for _, c := range columns {
		if c == QuestionCompetition {
			continue
		}
		lc := strings.ToLower(c)
		if strings.Contains(lc, "peer") || strings.Contains(lc, "pressure") {
			return c, true
		}
	}
	return "", false
}
