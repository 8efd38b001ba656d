package gridsearch

import (
	"errors"
	"reflect"
	"testing"

	"github.com/474benchen/bias-aware-gridsearch/internal/dataset"
	"github.com/474benchen/bias-aware-gridsearch/internal/estimator"
	"github.com/474benchen/bias-aware-gridsearch/internal/fairness"
)

// fullFrame builds the 10-row labeled dataset used for retraining checks.
func fullFrame(t *testing.T) *dataset.Frame {
	t.Helper()
	f, err := dataset.New(
		[]string{"label", "signal", "group"},
		map[string][]float64{
			"label":  {1, 0, 1, 0, 1, 0, 1, 0, 1, 0},
			"signal": {1, 0, 1, 0, 1, 0, 1, 0, 1, 0},
			"group":  {1, 0, 1, 0, 1, 0, 1, 0, 1, 0},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// fittedSearch returns a session with injected records plus recorders for
// every Fit call made by the fake estimator's clones.
func fittedSearch(t *testing.T, records []Record) (*Search, *[]int, *[]int) {
	t.Helper()
	fitRows := &[]int{}
	fitCols := &[]int{}
	s := &Search{
		cfg: Config{
			Estimator:          &fakeEstimator{fitRows: fitRows, fitCols: fitCols},
			Grid:               Grid{"flips": {0}},
			Dataset:            fullFrame(t),
			OutcomeColumn:      "label",
			ProtectedAttribute: "group",
			Privileged:         1,
			Unprivileged:       0,
			Folds:              2,
			Metric:             fairness.StatisticalParityDifference,
		},
		records: records,
	}
	return s, fitRows, fitCols
}

func threeRecords() []Record {
	return []Record{
		{Params: estimator.Params{"flips": 0}, MeanAccuracy: 0.8, MeanBias: 0.3},
		{Params: estimator.Params{"flips": 1}, MeanAccuracy: 0.9, MeanBias: 0.4},
		{Params: estimator.Params{"flips": 2}, MeanAccuracy: 0.9, MeanBias: 0.1},
	}
}

func TestSelectHighestAccuracy_FirstRecordWinsTies(t *testing.T) {
	s, _, _ := fittedSearch(t, threeRecords())
	sel, err := s.SelectHighestAccuracy()
	if err != nil {
		t.Fatal(err)
	}
	// Records 1 and 2 share accuracy 0.9; enumeration order breaks the tie.
	if !reflect.DeepEqual(sel.Record.Params, estimator.Params{"flips": 1}) {
		t.Errorf("selected %v, want flips=1", sel.Record.Params)
	}
	if sel.Policy != PolicyHighestAccuracy {
		t.Errorf("policy = %q", sel.Policy)
	}
	if sel.Model == nil {
		t.Error("selection has no retrained model")
	}
}

func TestSelectLeastBiased(t *testing.T) {
	s, _, _ := fittedSearch(t, threeRecords())
	sel, err := s.SelectLeastBiased()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(sel.Record.Params, estimator.Params{"flips": 2}) {
		t.Errorf("selected %v, want flips=2", sel.Record.Params)
	}
}

func TestSelectLeastBiased_TwoRecordExample(t *testing.T) {
	s, _, _ := fittedSearch(t, []Record{
		{Params: estimator.Params{"flips": 0}, MeanAccuracy: 0.9, MeanBias: 0.2},
		{Params: estimator.Params{"flips": 1}, MeanAccuracy: 0.85, MeanBias: 0.05},
	})
	sel, err := s.SelectLeastBiased()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(sel.Record.Params, estimator.Params{"flips": 1}) {
		t.Errorf("selected %v, want the bias=0.05 configuration", sel.Record.Params)
	}
}

func TestSelectBalanced(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		want      estimator.Params
	}{
		{"threshold 1 equals highest accuracy", 1, estimator.Params{"flips": 1}},
		{"threshold 2 picks least bias among top two", 2, estimator.Params{"flips": 2}},
		{"threshold of all records equals least biased", 3, estimator.Params{"flips": 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := fittedSearch(t, threeRecords())
			sel, err := s.SelectBalanced(tt.threshold)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(sel.Record.Params, tt.want) {
				t.Errorf("selected %v, want %v", sel.Record.Params, tt.want)
			}
			if sel.Threshold != tt.threshold {
				t.Errorf("Threshold = %d, want %d", sel.Threshold, tt.threshold)
			}
		})
	}
}

func TestSelectBalanced_InvalidThreshold(t *testing.T) {
	for _, threshold := range []int{0, -1, 4} {
		s, fitRows, _ := fittedSearch(t, threeRecords())
		_, err := s.SelectBalanced(threshold)
		var ite *InvalidThresholdError
		if !errors.As(err, &ite) {
			t.Fatalf("threshold %d: expected InvalidThresholdError, got %v", threshold, err)
		}
		if len(*fitRows) != 0 {
			t.Errorf("threshold %d: retraining ran despite invalid threshold", threshold)
		}
	}
}

func TestFindOptimum_NotImplemented(t *testing.T) {
	s, _, _ := fittedSearch(t, threeRecords())
	_, err := s.FindOptimum(0.05)
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestSelect_BeforeFit(t *testing.T) {
	s, _, _ := fittedSearch(t, nil)
	if _, err := s.SelectHighestAccuracy(); !errors.Is(err, ErrNotFitted) {
		t.Errorf("SelectHighestAccuracy: %v", err)
	}
	if _, err := s.SelectLeastBiased(); !errors.Is(err, ErrNotFitted) {
		t.Errorf("SelectLeastBiased: %v", err)
	}
	if _, err := s.SelectBalanced(1); !errors.Is(err, ErrNotFitted) {
		t.Errorf("SelectBalanced: %v", err)
	}
}

func TestSelection_RetrainsOnFullDataset(t *testing.T) {
	s, fitRows, fitCols := fittedSearch(t, threeRecords())
	if _, err := s.SelectLeastBiased(); err != nil {
		t.Fatal(err)
	}
	// One fit, over all 10 dataset rows, with the outcome column excluded
	// from the 3-column frame.
	if !reflect.DeepEqual(*fitRows, []int{10}) {
		t.Errorf("fit row counts = %v, want [10]", *fitRows)
	}
	if !reflect.DeepEqual(*fitCols, []int{2}) {
		t.Errorf("fit feature counts = %v, want [2]", *fitCols)
	}
}

func TestNew_Validation(t *testing.T) {
	base := Config{
		Estimator:          &fakeEstimator{},
		Grid:               Grid{"flips": {0}},
		OutcomeColumn:      "label",
		ProtectedAttribute: "group",
		Privileged:         1,
		Unprivileged:       0,
		Folds:              2,
	}

	tests := []struct {
		name   string
		mutate func(*testing.T, *Config)
	}{
		{"nil estimator", func(t *testing.T, c *Config) { c.Dataset = fullFrame(t); c.Estimator = nil }},
		{"nil dataset", func(t *testing.T, c *Config) {}},
		{"missing outcome column", func(t *testing.T, c *Config) { c.Dataset = fullFrame(t); c.OutcomeColumn = "income" }},
		{"missing protected attribute", func(t *testing.T, c *Config) { c.Dataset = fullFrame(t); c.ProtectedAttribute = "race" }},
		{"same group values", func(t *testing.T, c *Config) { c.Dataset = fullFrame(t); c.Unprivileged = 1 }},
		{"one fold", func(t *testing.T, c *Config) { c.Dataset = fullFrame(t); c.Folds = 1 }},
		{"empty grid", func(t *testing.T, c *Config) { c.Dataset = fullFrame(t); c.Grid = Grid{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(t, &cfg)
			if _, err := New(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSearch_FitStoresRecordsOnlyOnSuccess(t *testing.T) {
	df := fullFrame(t)
	s, err := New(Config{
		Estimator:          &fakeEstimator{},
		Grid:               Grid{"flips": {0, 1}},
		Dataset:            df,
		OutcomeColumn:      "label",
		ProtectedAttribute: "group",
		Privileged:         1,
		Unprivileged:       0,
		Folds:              2,
		Metric:             fairness.StatisticalParityDifference,
	})
	if err != nil {
		t.Fatal(err)
	}

	X, err := df.Drop("label")
	if err != nil {
		t.Fatal(err)
	}
	y, err := df.Column("label")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if got := len(s.Results()); got != 2 {
		t.Fatalf("Results() has %d records, want 2", got)
	}

	// A failing pass must clear previously stored results.
	if err := s.Fit(X, y[:3]); err == nil {
		t.Fatal("expected misaligned labels to fail")
	}
	if got := len(s.Results()); got != 0 {
		t.Errorf("failed Fit left %d records exposed", got)
	}
}
