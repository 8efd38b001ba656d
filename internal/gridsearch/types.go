package gridsearch

// #region imports
import (
	"errors"
	"fmt"

	"github.com/474benchen/bias-aware-gridsearch/internal/estimator"
)

// #endregion

// #region record

// Record is the cross-validated score pair for one configuration. Records are
// immutable once the evaluator emits them; MeanAccuracy and MeanBias are
// arithmetic means over exactly the configured number of folds. MeanBias is
// the mean deviation of the fairness metric from its parity point, so smaller
// is always fairer.
type Record struct {
	Params       estimator.Params
	MeanAccuracy float64
	MeanBias     float64
}

// #endregion

// #region policy

// Policy identifies a model selection strategy.
type Policy string

const (
	PolicyHighestAccuracy Policy = "highest_accuracy"
	PolicyLeastBiased     Policy = "least_biased"
	PolicyBalanced        Policy = "balanced"
)

// Selection is the outcome of applying a policy: the winning record and the
// model retrained on the full dataset with its configuration.
type Selection struct {
	Policy    Policy
	Record    Record
	Threshold int // balanced policy only, 0 otherwise
	Model     estimator.Estimator
}

// #endregion

// #region errors

// InvalidThresholdError reports a balanced-selection threshold outside
// [1, number of records].
type InvalidThresholdError struct {
	Threshold int
	Records   int
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("invalid threshold %d: must be between 1 and %d", e.Threshold, e.Records)
}

// ErrNotImplemented marks the declared-but-unspecified optimum-model policy.
var ErrNotImplemented = errors.New("optimum model selection is not implemented")

// ErrNotFitted is returned when a selection method runs before a successful Fit.
var ErrNotFitted = errors.New("no evaluation records: run Fit first")

// #endregion
