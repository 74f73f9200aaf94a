package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/wellbeing-backend/internal/analytics"
	"github.com/yungbote/wellbeing-backend/internal/data/repos"
	"github.com/yungbote/wellbeing-backend/internal/data/repos/testutil"
	"github.com/yungbote/wellbeing-backend/internal/ingestion/pipeline"
	"github.com/yungbote/wellbeing-backend/internal/observability"
	"github.com/yungbote/wellbeing-backend/internal/pkg/pointers"
)

// fakeCache is an in-process AnalyticsCache that stores JSON like the redis one.
type fakeCache struct {
	mu            sync.Mutex
	gen           int64
	data          map[string][]byte
	invalidations int
	getErr        error
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func fakeKey(gen int64, key string) string { return fmt.Sprintf("v%d:%s", gen, key) }

func (c *fakeCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *fakeCache) Get(_ context.Context, gen int64, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.data[fakeKey(gen, key)]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *fakeCache) Set(_ context.Context, gen int64, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[fakeKey(gen, key)] = raw
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	c.gen++
	c.data = map[string][]byte{}
	return nil
}

func (c *fakeCache) Close() error { return nil }

var errCacheDown = errors.New("cache down")

type testEnv struct {
	db              *gorm.DB
	cache           *fakeCache
	metrics         *observability.Metrics
	engine          *analytics.Engine
	students        StudentService
	ingestion       IngestionService
	analytics       AnalyticsService
	recommendations RecommendationService
	runRepo         repos.IngestionRunRepo
	studentRepo     repos.StudentRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.Isolated(t)
	log := testutil.Logger(t)

	env := &testEnv{
		db:      db,
		cache:   newFakeCache(),
		metrics: observability.New(),
		engine:  analytics.NewEngine(analytics.DefaultConfig()),
	}
	env.studentRepo = repos.NewStudentRepo(db, log)
	env.runRepo = repos.NewIngestionRunRepo(db, log)
	env.students = NewStudentService(db, log, env.studentRepo, env.engine, env.cache, env.metrics)
	env.ingestion = NewIngestionService(db, log, pipeline.New(log, nil, pipeline.Options{MaxBytes: 1 << 20}),
		env.studentRepo, env.runRepo, env.cache, env.metrics)
	env.analytics = NewAnalyticsService(db, log, env.studentRepo, env.engine, env.cache, env.metrics)
	env.recommendations = NewRecommendationService(log, env.students, env.engine)
	return env
}

func validInput(name string, si, sp, h, soc, anx int) StudentInput {
	return StudentInput{
		Name:           name,
		StudyIntensity: pointers.Int(si),
		SleepProblems:  pointers.Int(sp),
		Headaches:      pointers.Int(h),
		SocialPressure: pointers.Int(soc),
		Anxiety:        pointers.Int(anx),
	}
}
