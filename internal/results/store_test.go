package results

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/474benchen/bias-aware-gridsearch/internal/estimator"
	"github.com/474benchen/bias-aware-gridsearch/internal/gridsearch"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun() (Run, []gridsearch.Record) {
	run := Run{
		Estimator:          "logistic",
		OutcomeColumn:      "label",
		ProtectedAttribute: "group",
		Privileged:         1,
		Unprivileged:       0,
		Folds:              5,
		Metric:             "disparate_impact",
	}
	records := []gridsearch.Record{
		{Params: estimator.Params{"lr": 0.1, "epochs": 100}, MeanAccuracy: 0.91, MeanBias: 0.12},
		{Params: estimator.Params{"lr": 0.5, "epochs": 100}, MeanAccuracy: 0.88, MeanBias: 0.05},
	}
	return run, records
}

func TestSaveRun_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	run, records := sampleRun()

	id, err := s.SaveRun(run, records)
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("SaveRun returned an empty run ID")
	}

	got, err := s.Records(id)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Errorf("Records(%s) = %v, want %v", id, got, records)
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	run, records := sampleRun()

	run.ID = "older"
	run.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if _, err := s.SaveRun(run, records); err != nil {
		t.Fatal(err)
	}
	run.ID = "newer"
	run.CreatedAt = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	if _, err := s.SaveRun(run, records); err != nil {
		t.Fatal(err)
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != "newer" || runs[1].ID != "older" {
		t.Errorf("run order = [%s %s], want [newer older]", runs[0].ID, runs[1].ID)
	}
	if runs[0].Metric != "disparate_impact" || runs[0].Folds != 5 {
		t.Errorf("run fields lost: %+v", runs[0])
	}
}

func TestListRuns_Limit(t *testing.T) {
	s := openTestStore(t)
	run, records := sampleRun()
	for i, id := range []string{"a", "b", "c"} {
		run.ID = id
		run.CreatedAt = time.Date(2026, 3, 1, 12, i, 0, 0, time.UTC)
		if _, err := s.SaveRun(run, records); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.ListRuns(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("got %d runs, want 2", len(runs))
	}
}

func TestLogSelection_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	run, records := sampleRun()
	id, err := s.SaveRun(run, records)
	if err != nil {
		t.Fatal(err)
	}

	sel := &gridsearch.Selection{
		Policy:    gridsearch.PolicyBalanced,
		Record:    records[1],
		Threshold: 2,
	}
	if err := LogSelectionResult(s.DB(), id, sel); err != nil {
		t.Fatal(err)
	}

	entries, err := s.Selections(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d selection entries, want 1", len(entries))
	}
	e := entries[0]
	if e.RunID != id || e.Policy != "balanced" || e.Threshold != 2 {
		t.Errorf("entry = %+v", e)
	}
	if !reflect.DeepEqual(e.Params, records[1].Params) {
		t.Errorf("Params = %v, want %v", e.Params, records[1].Params)
	}
	if e.MeanAccuracy != 0.88 || e.MeanBias != 0.05 {
		t.Errorf("scores = (%v, %v), want (0.88, 0.05)", e.MeanAccuracy, e.MeanBias)
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt not persisted")
	}
}

func TestSelections_EmptyRun(t *testing.T) {
	s := openTestStore(t)
	entries, err := s.Selections("no-such-run")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries for unknown run", len(entries))
	}
}
