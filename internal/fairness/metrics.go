// Package fairness implements group-fairness metrics over labeled prediction
// tables. A metric compares the favorable-outcome rate of the privileged group
// against the unprivileged group; the favorable outcome is label 1.
package fairness

// #region imports
import (
	"fmt"
	"math"

	"github.com/474benchen/bias-aware-gridsearch/internal/dataset"
)

// #endregion

// #region metric

// ComputeFunc scores one prediction table. privileged and unprivileged are the
// protected-attribute values designating the two groups.
type ComputeFunc func(f *dataset.Frame, predicted, protected string, privileged, unprivileged float64) (float64, error)

// Metric bundles a fairness score with the value it takes at perfect parity,
// so callers can rank configurations by distance from parity regardless of
// whether the metric is a ratio or a signed difference.
type Metric struct {
	Name        string
	ParityPoint float64
	Compute     ComputeFunc
}

// Deviation returns the magnitude of v's departure from parity.
func (m Metric) Deviation(v float64) float64 {
	return math.Abs(v - m.ParityPoint)
}

// #endregion

// #region builtin-metrics

// DisparateImpact is the ratio of unprivileged to privileged favorable-outcome
// rates. 1.0 means parity; values below 1 disfavor the unprivileged group.
var DisparateImpact = Metric{
	Name:        "disparate_impact",
	ParityPoint: 1.0,
	Compute:     disparateImpact,
}

// StatisticalParityDifference is the unprivileged favorable-outcome rate minus
// the privileged rate. 0 means parity; negative values disfavor the
// unprivileged group.
var StatisticalParityDifference = Metric{
	Name:        "statistical_parity",
	ParityPoint: 0.0,
	Compute:     statisticalParityDifference,
}

// ByName resolves a metric from its configuration name.
func ByName(name string) (Metric, error) {
	switch name {
	case DisparateImpact.Name:
		return DisparateImpact, nil
	case StatisticalParityDifference.Name:
		return StatisticalParityDifference, nil
	default:
		return Metric{}, fmt.Errorf("unknown fairness metric %q", name)
	}
}

// #endregion

// #region compute

func disparateImpact(f *dataset.Frame, predicted, protected string, privileged, unprivileged float64) (float64, error) {
	privRate, unprivRate, err := groupRates(f, predicted, protected, privileged, unprivileged)
	if err != nil {
		return 0, err
	}
	if privRate == 0 {
		return 0, &dataset.DataError{Msg: "privileged group has zero favorable-outcome rate, disparate impact undefined"}
	}
	return unprivRate / privRate, nil
}

func statisticalParityDifference(f *dataset.Frame, predicted, protected string, privileged, unprivileged float64) (float64, error) {
	privRate, unprivRate, err := groupRates(f, predicted, protected, privileged, unprivileged)
	if err != nil {
		return 0, err
	}
	return unprivRate - privRate, nil
}

// groupRates computes the favorable-outcome rate of each group.
func groupRates(f *dataset.Frame, predicted, protected string, privileged, unprivileged float64) (privRate, unprivRate float64, err error) {
	preds, err := f.Column(predicted)
	if err != nil {
		return 0, 0, err
	}
	attrs, err := f.Column(protected)
	if err != nil {
		return 0, 0, err
	}

	var privTotal, privFav, unprivTotal, unprivFav int
	for i, a := range attrs {
		switch a {
		case privileged:
			privTotal++
			if preds[i] == 1 {
				privFav++
			}
		case unprivileged:
			unprivTotal++
			if preds[i] == 1 {
				unprivFav++
			}
		}
	}
	if privTotal == 0 {
		return 0, 0, &dataset.DataError{Msg: fmt.Sprintf("no rows with privileged value %v in column %q", privileged, protected)}
	}
	if unprivTotal == 0 {
		return 0, 0, &dataset.DataError{Msg: fmt.Sprintf("no rows with unprivileged value %v in column %q", unprivileged, protected)}
	}
	return float64(privFav) / float64(privTotal), float64(unprivFav) / float64(unprivTotal), nil
}

// #endregion
