// Package estimator defines the trainable model capability consumed by the
// grid search: estimators can be cloned without sharing fitted state, accept
// hyperparameters from a validated configuration, and fit/predict over
// row-major float64 feature matrices with 0/1 labels.
package estimator

// #region imports
import (
	"fmt"
	"sort"
	"strings"
)

// #endregion

// #region params

// Params is one hyperparameter configuration: a mapping from recognized
// parameter name to value. Its identity is its contents.
type Params map[string]float64

// String renders params in sorted-key order for logs and storage.
func (p Params) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, p[k]))
	}
	return strings.Join(parts, " ")
}

// Clone returns an independent copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// #endregion

// #region configuration-error

// ConfigurationError reports a hyperparameter key the estimator does not
// recognize, or a value outside its valid range.
type ConfigurationError struct {
	Param  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: parameter %q %s", e.Param, e.Reason)
}

// #endregion

// #region interface

// Estimator is the trainable model capability.
type Estimator interface {
	// Name identifies the estimator kind for logs and the results store.
	Name() string
	// Clone returns an unfitted copy sharing no mutable state with the
	// original. Hyperparameters are carried over, fitted state is not.
	Clone() Estimator
	// SetParams applies a configuration in place. Unknown keys and invalid
	// values fail with *ConfigurationError.
	SetParams(p Params) error
	// Fit trains on aligned features and labels.
	Fit(X [][]float64, y []float64) error
	// Predict returns one label per feature row.
	Predict(X [][]float64) ([]float64, error)
}

// New constructs a registered estimator by name with default hyperparameters.
func New(name string) (Estimator, error) {
	switch name {
	case "logistic":
		return NewLogistic(), nil
	case "knn":
		return NewKNN(), nil
	default:
		return nil, fmt.Errorf("unknown estimator %q", name)
	}
}

// #endregion
