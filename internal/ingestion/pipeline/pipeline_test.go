package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/yungbote/wellbeing-backend/internal/domain/student"
	"github.com/yungbote/wellbeing-backend/internal/pkg/pointers"
)

// memStore keeps records keyed by fingerprint, first write wins.
type memStore struct {
	mu      sync.Mutex
	byKey   map[string]*student.Student
	fail    error
	batches int
}

func newMemStore() *memStore {
	return &memStore{byKey: map[string]*student.Student{}}
}

func (m *memStore) UpsertBatch(_ context.Context, b *Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.batches++
	for _, s := range b.Students {
		if _, ok := m.byKey[s.Fingerprint]; !ok {
			m.byKey[s.Fingerprint] = s
		}
	}
	return nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byKey)
}

const stressLevelCSV = "anxiety_level,self_esteem,sleep_quality,headache,peer_pressure,study_load\n" +
	"30,10,0,0,0,5\n" +
	"15,20,3,2,4,1\n" +
	"\n" +
	"0,25,5,5,5,0\n"

func TestIngestStressLevelEndToEnd(t *testing.T) {
	store := newMemStore()
	p := New(nil, nil, Options{})

	res, err := p.Ingest(context.Background(), store, []byte(stressLevelCSV))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Inserted != 3 || res.Schema != StressLevelSchema.Name {
		t.Fatalf("Ingest: unexpected result %+v", res)
	}

	batch, err := p.Prepare([]byte(stressLevelCSV))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	want := []*student.Student{
		{Name: "Estudiante_1", StudyIntensity: 10, SleepProblems: 10, Headaches: 0, SocialPressure: 0, Anxiety: 10},
		{Name: "Estudiante_2", StudyIntensity: 2, SleepProblems: 4, Headaches: 4, SocialPressure: 8, Anxiety: 5},
		{Name: "Estudiante_3", StudyIntensity: 0, SleepProblems: 0, Headaches: 10, SocialPressure: 10, Anxiety: 0},
	}
	if diff := cmp.Diff(want, batch.Students, cmpopts.IgnoreFields(student.Student{}, "Fingerprint")); diff != "" {
		t.Fatalf("Prepare mismatch (-want +got):\n%s", diff)
	}
	for _, s := range batch.Students {
		if s.Fingerprint != student.Fingerprint(s) {
			t.Fatalf("Prepare: record %s not sealed", s.Name)
		}
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	store := newMemStore()
	p := New(nil, nil, Options{})

	for i := 0; i < 2; i++ {
		res, err := p.Ingest(context.Background(), store, []byte(stressLevelCSV))
		if err != nil {
			t.Fatalf("Ingest #%d: %v", i+1, err)
		}
		// Submitted rows are reported even when they already exist.
		if res.Inserted != 3 {
			t.Fatalf("Ingest #%d: inserted=%d want=3", i+1, res.Inserted)
		}
	}
	if got := store.count(); got != 3 {
		t.Fatalf("store count after re-ingest: got=%d want=3", got)
	}

	// Duplicate rows inside one file collapse too.
	dup := "anxiety_level,sleep_quality,headache,peer_pressure,study_load,name\n30,0,0,0,5,Ana\n30,0,0,0,5,ana \n"
	res, err := p.Ingest(context.Background(), store, []byte(dup))
	if err != nil {
		t.Fatalf("Ingest(dup): %v", err)
	}
	if res.Inserted != 2 || store.count() != 4 {
		t.Fatalf("Ingest(dup): inserted=%d count=%d", res.Inserted, store.count())
	}
}

func TestIngestConcurrentDuplicatesConverge(t *testing.T) {
	store := newMemStore()
	p := New(nil, nil, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Ingest(context.Background(), store, []byte(stressLevelCSV)); err != nil {
				t.Errorf("Ingest: %v", err)
			}
		}()
	}
	wg.Wait()
	if got := store.count(); got != 3 {
		t.Fatalf("store count: got=%d want=3", got)
	}
}

func TestStressSurveyMapping(t *testing.T) {
	t.Parallel()

	header := []string{"Gender", "Age", QuestionHeadaches, QuestionSleep, QuestionWorkload, QuestionCompetition, QuestionAnxiety, "Peer pressure at school", "name"}
	rows := [][]string{
		{"Female", "20,4", "Yes", "Sometimes", "3", "No", "4", "yes", "Lucía"},
		{"", "n/a", "no", "1", "5", "sí", "whatever", "", ""},
		{"Male", "1e300", "no", "no", "no", "no", "no", "", ""},
	}
	var b strings.Builder
	b.WriteString(csvLine(header))
	for _, r := range rows {
		b.WriteString(csvLine(r))
	}

	batch, err := New(nil, nil, Options{}).Prepare([]byte(b.String()))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if batch.Schema != StressSurveySchema.Name {
		t.Fatalf("Prepare: schema=%s", batch.Schema)
	}
	want := []*student.Student{
		{
			Name: "Lucía", Age: pointers.Int(20), Gender: pointers.String("Female"),
			Headaches: 10, SleepProblems: 5, StudyIntensity: 5, SocialPressure: 5, Anxiety: 8,
		},
		{
			Name:      "Estudiante_2",
			Headaches: 0, SleepProblems: 2, StudyIntensity: 10, SocialPressure: 5, Anxiety: 0,
		},
		{Name: "Estudiante_3", Gender: pointers.String("Male")},
	}
	if diff := cmp.Diff(want, batch.Students, cmpopts.IgnoreFields(student.Student{}, "Fingerprint")); diff != "" {
		t.Fatalf("Prepare mismatch (-want +got):\n%s", diff)
	}
}

func TestStressSurveyWithoutPeerColumn(t *testing.T) {
	t.Parallel()

	header := []string{QuestionCompetition, QuestionHeadaches, QuestionSleep, QuestionWorkload, QuestionAnxiety}
	data := csvLine(header) + csvLine([]string{"yes", "no", "no", "no", "no"})
	batch, err := New(nil, nil, Options{}).Prepare([]byte(data))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if got := batch.Students[0].SocialPressure; got != 10 {
		t.Fatalf("SocialPressure: got=%d want=10", got)
	}
}

func TestPrepareErrors(t *testing.T) {
	t.Parallel()

	p := New(nil, nil, Options{MaxBytes: 256})
	cases := []struct {
		name string
		data string
		want error
	}{
		{"empty file", "", ErrEmptyInput},
		{"bom only", "\xEF\xBB\xBF", ErrEmptyInput},
		{"header only", "anxiety_level,sleep_quality,headache,peer_pressure,study_load\n", ErrEmptyInput},
		{"blank lines", "anxiety_level,sleep_quality,headache,peer_pressure,study_load\n\n   \n\t\n", ErrEmptyInput},
		{"missing study_load", "anxiety_level,sleep_quality,headache,peer_pressure,name\n1,2,3,4,x\n", ErrUnrecognizedSchema},
		{"unrelated", "a,b\n1,2\n", ErrUnrecognizedSchema},
		{"ragged", "anxiety_level,sleep_quality,headache,peer_pressure,study_load\n1,2,3\n", ErrMalformedInput},
		{"bad quote", "anxiety_level,sleep_quality,headache,peer_pressure,study_load\n\"1,2,3,4,5\n", ErrMalformedInput},
		{"too large", strings.Repeat("x", 300), ErrInputTooLarge},
	}
	for _, tc := range cases {
		_, err := p.Prepare([]byte(tc.data))
		if !errors.Is(err, tc.want) {
			t.Fatalf("Prepare(%s): got=%v want=%v", tc.name, err, tc.want)
		}
		if !errors.Is(err, ErrInputFormat) {
			t.Fatalf("Prepare(%s): %v is not an input format error", tc.name, err)
		}
	}
}

func TestIngestStoreFailureWrites(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.fail = errors.New("connection reset")
	_, err := New(nil, nil, Options{}).Ingest(context.Background(), store, []byte(stressLevelCSV))
	if !errors.Is(err, ErrStore) || errors.Is(err, ErrInputFormat) {
		t.Fatalf("Ingest: expected store error, got %v", err)
	}
	if store.count() != 0 {
		t.Fatalf("Ingest: store should be empty after failure")
	}
}

func TestParseCSVHandlesBOMAndInvalidUTF8(t *testing.T) {
	t.Parallel()

	data := append([]byte("\xEF\xBB\xBFname , study_load\n"), []byte("Jos\xff ,  3\n")...)
	table, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if diff := cmp.Diff([]string{"name", "study_load"}, table.Columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if got := table.Rows[0].Get("name"); got != "Jos�" {
		t.Fatalf("name: got=%q", got)
	}
	if got := table.Rows[0].Get("study_load"); got != "3" {
		t.Fatalf("study_load: got=%q", got)
	}
}

func TestParseCSVSkipsWhitespaceLines(t *testing.T) {
	t.Parallel()

	data := "  \n" +
		"name,anxiety_level,sleep_quality,headache,peer_pressure,study_load\n" +
		"ana,30,0,0,0,5\n" +
		"   \n" +
		"luis,15,3,2,4,1\n" +
		"\t\n"
	batch, err := New(nil, nil, Options{}).Prepare([]byte(data))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	var names []string
	for _, s := range batch.Students {
		names = append(names, s.Name)
	}
	if diff := cmp.Diff([]string{"ana", "luis"}, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCSVKeepsRowsOfEmptyCells(t *testing.T) {
	t.Parallel()

	data := "anxiety_level,sleep_quality,headache,peer_pressure,study_load\n" +
		"30,0,0,0,5\n" +
		",,,,\n" +
		"15,3,2,4,1\n"
	batch, err := New(nil, nil, Options{}).Prepare([]byte(data))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	want := []*student.Student{
		{Name: "Estudiante_1", StudyIntensity: 10, SleepProblems: 10, Anxiety: 10},
		{Name: "Estudiante_2"},
		{Name: "Estudiante_3", StudyIntensity: 2, SleepProblems: 4, Headaches: 4, SocialPressure: 8, Anxiety: 5},
	}
	if diff := cmp.Diff(want, batch.Students, cmpopts.IgnoreFields(student.Student{}, "Fingerprint")); diff != "" {
		t.Fatalf("Prepare mismatch (-want +got):\n%s", diff)
	}
}

func csvLine(cells []string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",") + "\n"
}
