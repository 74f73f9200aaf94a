package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/wellbeing-backend/internal/domain/student"
)

// SeedStudent inserts a sealed student built from name and the five factors
// in presentation order.
func SeedStudent(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, factors ...int) *student.Student {
	tb.Helper()
	s := &student.Student{Name: name}
	vals := make([]int, len(student.FactorNames))
	copy(vals, factors)
	s.StudyIntensity = vals[0]
	s.SleepProblems = vals[1]
	s.Headaches = vals[2]
	s.SocialPressure = vals[3]
	s.Anxiety = vals[4]
	s.Seal()
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed student: %v", err)
	}
	return s
}
