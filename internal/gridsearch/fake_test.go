package gridsearch

import (
	"errors"

	"github.com/474benchen/bias-aware-gridsearch/internal/estimator"
)

// fakeEstimator predicts the label carried in feature column 0, mispredicting
// the first "flips" rows of each batch. That makes per-fold accuracy and
// group rates fully scripted by the configuration and the dataset layout.
type fakeEstimator struct {
	flips   int
	failFit bool

	// shared across clones so tests can observe every Fit call
	fitRows *[]int
	fitCols *[]int
}

func (f *fakeEstimator) Name() string { return "fake" }

func (f *fakeEstimator) Clone() estimator.Estimator {
	c := *f
	return &c
}

func (f *fakeEstimator) SetParams(p estimator.Params) error {
	for name, v := range p {
		switch name {
		case "flips":
			f.flips = int(v)
		case "noop":
		case "boom":
			f.failFit = v != 0
		default:
			return &estimator.ConfigurationError{Param: name, Reason: "is not a hyperparameter of fake"}
		}
	}
	return nil
}

func (f *fakeEstimator) Fit(X [][]float64, y []float64) error {
	if f.failFit {
		return errors.New("fit exploded")
	}
	if f.fitRows != nil {
		*f.fitRows = append(*f.fitRows, len(X))
	}
	if f.fitCols != nil && len(X) > 0 {
		*f.fitCols = append(*f.fitCols, len(X[0]))
	}
	return nil
}

func (f *fakeEstimator) Predict(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = row[0]
		if i < f.flips {
			out[i] = 1 - out[i]
		}
	}
	return out, nil
}
