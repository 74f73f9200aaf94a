package services

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gorm.io/gorm"

	"github.com/yungbote/wellbeing-backend/internal/analytics"
	"github.com/yungbote/wellbeing-backend/internal/data/repos"
	"github.com/yungbote/wellbeing-backend/internal/data/repos/testutil"
	"github.com/yungbote/wellbeing-backend/internal/domain/student"
)

func TestAnalyticsServiceSegmentsCached(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	empty, err := env.analytics.Segments(ctx)
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	if diff := cmp.Diff(analytics.SegmentTotals{}, *empty); diff != "" {
		t.Fatalf("Segments (empty) mismatch (-want +got):\n%s", diff)
	}

	if _, err := env.ingestion.Ingest(ctx, Upload{FileName: "s.csv", Data: []byte(stressLevelCSV)}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	got, err := env.analytics.Segments(ctx)
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	want := analytics.SegmentTotals{Low: 1, Moderate: 2}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Fatalf("Segments mismatch (-want +got):\n%s", diff)
	}
	if _, err := env.analytics.Segments(ctx); err != nil {
		t.Fatalf("Segments (cached): %v", err)
	}
	if hits := env.metrics.CacheLookups("hit"); hits != 1 {
		t.Fatalf("cache hits: got=%v want=1", hits)
	}
	if misses := env.metrics.CacheLookups("miss"); misses != 2 {
		t.Fatalf("cache misses: got=%v want=2", misses)
	}

	// A new submission invalidates the cached totals.
	if _, _, err := env.students.Create(ctx, validInput("Ana", 10, 10, 10, 10, 10)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err = env.analytics.Segments(ctx)
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	if got.High != 1 {
		t.Fatalf("Segments after create: got=%+v", *got)
	}
}

func TestAnalyticsServiceCacheErrorFallsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.cache.getErr = errCacheDown

	if _, _, err := env.students.Create(ctx, validInput("Ana", 0, 0, 0, 0, 0)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := env.analytics.Segments(ctx)
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	if got.Low != 1 {
		t.Fatalf("Segments: got=%+v", *got)
	}
	if n := env.metrics.CacheLookups("error"); n != 1 {
		t.Fatalf("cache errors: got=%v want=1", n)
	}
}

func TestAnalyticsServiceCorrelations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.ingestion.Ingest(ctx, Upload{FileName: "s.csv", Data: []byte(stressLevelCSV)}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	m, err := env.analytics.Correlations(ctx)
	if err != nil {
		t.Fatalf("Correlations: %v", err)
	}
	if diff := cmp.Diff(student.FactorNames, m.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	for _, a := range m.Fields {
		if m.Matrix[a][a] != 1 {
			t.Fatalf("diagonal %s: got=%v", a, m.Matrix[a][a])
		}
		for _, b := range m.Fields {
			if m.Matrix[a][b] != m.Matrix[b][a] {
				t.Fatalf("asymmetric at %s/%s", a, b)
			}
		}
	}

	cached, err := env.analytics.Correlations(ctx)
	if err != nil {
		t.Fatalf("Correlations (cached): %v", err)
	}
	if diff := cmp.Diff(m, cached); diff != "" {
		t.Fatalf("cached matrix mismatch (-want +got):\n%s", diff)
	}
}

// afterListRepo runs hook once, after the first List has read its rows.
type afterListRepo struct {
	repos.StudentRepo
	hook func()
}

func (r *afterListRepo) List(ctx context.Context, tx *gorm.DB, order repos.StudentOrder) ([]*student.Student, error) {
	rows, err := r.StudentRepo.List(ctx, tx, order)
	if r.hook != nil {
		hook := r.hook
		r.hook = nil
		hook()
	}
	return rows, err
}

func TestAnalyticsServiceDropsResultsOfRetiredGeneration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	repo := &afterListRepo{StudentRepo: env.studentRepo}
	svc := NewAnalyticsService(env.db, testutil.Logger(t), repo, env.engine, env.cache, env.metrics)

	// An ingest commits while the first request still holds the old rows.
	repo.hook = func() {
		if _, err := env.ingestion.Ingest(ctx, Upload{FileName: "s.csv", Data: []byte(stressLevelCSV)}); err != nil {
			t.Fatalf("Ingest: %v", err)
		}
	}
	stale, err := svc.Segments(ctx)
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	if diff := cmp.Diff(analytics.SegmentTotals{}, *stale); diff != "" {
		t.Fatalf("Segments (in flight) mismatch (-want +got):\n%s", diff)
	}

	fresh, err := svc.Segments(ctx)
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	if diff := cmp.Diff(analytics.SegmentTotals{Low: 1, Moderate: 2}, *fresh); diff != "" {
		t.Fatalf("Segments after ingest mismatch (-want +got):\n%s", diff)
	}
	if hits := env.metrics.CacheLookups("hit"); hits != 0 {
		t.Fatalf("cache hits: got=%v want=0", hits)
	}
}
