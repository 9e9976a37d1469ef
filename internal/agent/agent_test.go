package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"testing"

	"github.com/jobscout/jobscout/internal/filter"
	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubSource struct {
	name string
	jobs []model.JobRecord
	err  error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Search(_ context.Context, _ model.SearchSpec) ([]model.JobRecord, error) {
	return s.jobs, s.err
}

// scoreRanker annotates each job with a fixed score keyed by title.
type scoreRanker struct {
	scores map[string]int
}

func (r *scoreRanker) Rank(_ context.Context, jobs []model.JobRecord) ([]model.JobRecord, error) {
	out := make([]model.JobRecord, len(jobs))
	copy(out, jobs)
	for i := range out {
		out[i].Annotation = &model.MatchAnnotation{OverallScore: r.scores[out[i].Title]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OverallScore() > out[j].OverallScore()
	})
	return out, nil
}

type captureNotifier struct {
	calls [][]model.JobRecord
	err   error
}

func (n *captureNotifier) Notify(jobs []model.JobRecord) error {
	n.calls = append(n.calls, jobs)
	return n.err
}

func passFilter() *filter.KeywordFilter {
	// "data" is an interest worth +2, so any title containing it survives.
	return filter.NewKeywordFilter([]string{"data"}, nil)
}

func testStore(t *testing.T) *store.FileStore {
	t.Helper()
	s, err := store.OpenFileStore(filepath.Join(t.TempDir(), "matches.json"))
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	return s
}

func TestRun_DedupAcrossSources(t *testing.T) {
	sources := []model.Source{
		&stubSource{name: "one", jobs: []model.JobRecord{
			{Title: "Data Scientist", URL: "u1", Source: "one"},
		}},
		&stubSource{name: "two", jobs: []model.JobRecord{
			{Title: "Data Scientist", URL: "u1", Source: "two"},
			{Title: "Data Engineer", URL: "u2", Source: "two"},
		}},
	}
	st := testStore(t)
	n := &captureNotifier{}
	a := New(sources, model.SearchSpec{}, passFilter(), &scoreRanker{scores: map[string]int{}}, st, n, testLogger())

	jobs, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 unique jobs, got %d", len(jobs))
	}
	if a.State() != StateDone {
		t.Errorf("state = %v, want done", a.State())
	}
	if len(n.calls) != 1 || len(n.calls[0]) != 2 {
		t.Errorf("notifier not invoked with the new jobs: %v", n.calls)
	}
}

func TestRun_SecondRunReportsNothingNew(t *testing.T) {
	src := &stubSource{name: "one", jobs: []model.JobRecord{
		{Title: "Data Scientist", URL: "u1"},
	}}
	st := testStore(t)
	n := &captureNotifier{}
	a := New([]model.Source{src}, model.SearchSpec{}, passFilter(), &scoreRanker{scores: map[string]int{}}, st, n, testLogger())

	first, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 new job, got %d", len(first))
	}

	second, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("expected no new jobs on rerun, got %d", len(second))
	}
	if len(n.calls) != 1 {
		t.Errorf("notifier must be skipped when nothing is new, calls = %d", len(n.calls))
	}
}

func TestRun_PartialSourceFailure(t *testing.T) {
	sources := []model.Source{
		&stubSource{name: "down", err: errors.New("connection refused")},
		&stubSource{name: "up", jobs: []model.JobRecord{
			{Title: "Data Scientist", URL: "u1"},
		}},
	}
	a := New(sources, model.SearchSpec{}, passFilter(), &scoreRanker{scores: map[string]int{}}, testStore(t), nil, testLogger())

	jobs, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("a single failed source must not fail the run: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("expected results from the healthy source, got %d", len(jobs))
	}
}

func TestRun_AllSourcesFailed(t *testing.T) {
	sources := []model.Source{
		&stubSource{name: "one", err: errors.New("boom")},
		&stubSource{name: "two", err: errors.New("boom")},
	}
	a := New(sources, model.SearchSpec{}, passFilter(), &scoreRanker{scores: map[string]int{}}, testStore(t), nil, testLogger())

	if _, err := a.Run(context.Background()); !errors.Is(err, ErrAllSourcesFailed) {
		t.Fatalf("err = %v, want ErrAllSourcesFailed", err)
	}
	if a.State() != StateFailed {
		t.Errorf("state = %v, want failed", a.State())
	}
}

func TestRun_DropsInadmissibleRecords(t *testing.T) {
	src := &stubSource{name: "one", jobs: []model.JobRecord{
		{Title: "", URL: "u1"},
		{Title: "Data Scientist", URL: ""},
		{Title: "Data Scientist", URL: "u2"},
	}}
	a := New([]model.Source{src}, model.SearchSpec{}, passFilter(), &scoreRanker{scores: map[string]int{}}, testStore(t), nil, testLogger())

	jobs, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(jobs) != 1 || jobs[0].URL != "u2" {
		t.Errorf("expected only the admissible record, got %v", jobs)
	}
}

func TestRun_NewJobsKeepRankedOrder(t *testing.T) {
	src := &stubSource{name: "one", jobs: []model.JobRecord{
		{Title: "Data Analyst", URL: "u1"},
		{Title: "Data Scientist", URL: "u2"},
		{Title: "Data Engineer", URL: "u3"},
	}}
	ranker := &scoreRanker{scores: map[string]int{
		"Data Analyst":   3,
		"Data Scientist": 9,
		"Data Engineer":  6,
	}}
	a := New([]model.Source{src}, model.SearchSpec{}, passFilter(), ranker, testStore(t), nil, testLogger())

	jobs, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"u2", "u3", "u1"}
	if len(jobs) != len(want) {
		t.Fatalf("expected %d jobs, got %d", len(want), len(jobs))
	}
	for i, url := range want {
		if jobs[i].URL != url {
			t.Errorf("jobs[%d].URL = %q, want %q", i, jobs[i].URL, url)
		}
	}
}

func TestRun_NotifierFailureDoesNotFailRun(t *testing.T) {
	src := &stubSource{name: "one", jobs: []model.JobRecord{
		{Title: "Data Scientist", URL: "u1"},
	}}
	n := &captureNotifier{err: errors.New("webhook down")}
	a := New([]model.Source{src}, model.SearchSpec{}, passFilter(), &scoreRanker{scores: map[string]int{}}, testStore(t), n, testLogger())

	jobs, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("a failed notification must not fail the run: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("expected 1 new job, got %d", len(jobs))
	}
	if a.State() != StateDone {
		t.Errorf("state = %v, want done", a.State())
	}
}

func TestRun_FilterRemovesNonMatches(t *testing.T) {
	src := &stubSource{name: "one", jobs: []model.JobRecord{
		{Title: "Data Scientist", URL: "u1"},
		{Title: "Office Manager", URL: "u2"},
	}}
	a := New([]model.Source{src}, model.SearchSpec{}, passFilter(), &scoreRanker{scores: map[string]int{}}, testStore(t), nil, testLogger())

	jobs, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(jobs) != 1 || jobs[0].URL != "u1" {
		t.Errorf("expected the filter to drop non-matching postings, got %v", jobs)
	}
}
