package student

import (
	"time"
)

// Canonical factor names, in presentation order.
const (
	FactorStudyIntensity = "studyIntensity"
	FactorSleepProblems  = "sleepProblems"
	FactorHeadaches      = "headaches"
	FactorSocialPressure = "socialPressure"
	FactorAnxiety        = "anxiety"
)

// FactorNames lists the five canonical factors in presentation order.
var FactorNames = []string{
	FactorStudyIntensity,
	FactorSleepProblems,
	FactorHeadaches,
	FactorSocialPressure,
	FactorAnxiety,
}

// Student is the canonical wellbeing record. Factors are integers in 0..10.
// Fingerprint is the natural dedup key and never changes after insert.
type Student struct {
	ID     uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string  `gorm:"column:name;not null" json:"name"`
	Age    *int    `gorm:"column:age" json:"age"`
	Gender *string `gorm:"column:gender" json:"gender"`
	Year   *int    `gorm:"column:year" json:"year"`

	StudyIntensity int `gorm:"column:study_intensity;not null" json:"studyIntensity"`
	SleepProblems  int `gorm:"column:sleep_problems;not null" json:"sleepProblems"`
	Headaches      int `gorm:"column:headaches;not null" json:"headaches"`
	SocialPressure int `gorm:"column:social_pressure;not null" json:"socialPressure"`
	Anxiety        int `gorm:"column:anxiety;not null" json:"anxiety"`

	GPA *float64 `gorm:"column:gpa" json:"gpa"`

	Fingerprint string    `gorm:"column:fingerprint;not null;uniqueIndex:idx_student_fingerprint" json:"fingerprint"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"createdAt"`
}

func (Student) TableName() string { return "student" }

// Factors is the five-factor vector consumed by scoring and correlation.
type Factors struct {
	StudyIntensity int
	SleepProblems  int
	Headaches      int
	SocialPressure int
	Anxiety        int
}

func (s *Student) Factors() Factors {
	if s == nil {
		return Factors{}
	}
	return Factors{
		StudyIntensity: s.StudyIntensity,
		SleepProblems:  s.SleepProblems,
		Headaches:      s.Headaches,
		SocialPressure: s.SocialPressure,
		Anxiety:        s.Anxiety,
	}
}

// Value returns the factor by canonical name; unknown names read as 0.
func (f Factors) Value(name string) int {
	switch name {
	case FactorStudyIntensity:
		return f.StudyIntensity
	case FactorSleepProblems:
		return f.SleepProblems
	case FactorHeadaches:
		return f.Headaches
	case FactorSocialPressure:
		return f.SocialPressure
	case FactorAnxiety:
		return f.Anxiety
	default:
		return 0
	}
}
