package pipeline

import (
	"github.com/yungbote/wellbeing-backend/internal/domain/student"
)

// Mapper converts one data row into a canonical record. ordinal is the
// 1-based position of the row among data rows.
type Mapper func(columns []string, row Row, ordinal int) *student.Student

// Schema is a known source format. A header matches when it contains every
// required column; extra columns are ignored.
type Schema struct {
	Name     string
	Required []string
	Map      Mapper
}

func (s Schema) Matches(columns []string) bool {
	have := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		have[c] = struct{}{}
	}
	for _, req := range s.Required {
		if _, ok := have[req]; !ok {
			return false
		}
	}
	return len(s.Required) > 0
}

// Registry holds schemas in detection order. The first match wins.
type Registry struct {
	schemas []Schema
}

func NewRegistry(schemas ...Schema) *Registry {
	return &Registry{schemas: append([]Schema(nil), schemas...)}
}

// DefaultRegistry detects StressLevelDataset before Stress_Dataset.
func DefaultRegistry() *Registry {
	return NewRegistry(StressLevelSchema, StressSurveySchema)
}

func (r *Registry) Schemas() []Schema {
	return append([]Schema(nil), r.schemas...)
}

// Detect returns the first schema whose required columns are all present.
func (r *Registry) Detect(columns []string) (Schema, bool) {
	for _, s := range r.schemas {
		if s.Matches(columns) {
			return s, true
		}
	}
	return Schema{}, false
}
