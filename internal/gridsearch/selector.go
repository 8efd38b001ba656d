package gridsearch

// #region imports
import (
	"fmt"
	"log"
	"sort"

	"github.com/474benchen/bias-aware-gridsearch/internal/estimator"
)

// #endregion

// #region highest-accuracy

// SelectHighestAccuracy retrains the configuration with the highest mean
// accuracy. Ties go to the first record in enumeration order.
func (s *Search) SelectHighestAccuracy() (*Selection, error) {
	if len(s.records) == 0 {
		return nil, ErrNotFitted
	}
	best := 0
	for i, r := range s.records {
		if r.MeanAccuracy > s.records[best].MeanAccuracy {
			best = i
		}
	}
	return s.finish(PolicyHighestAccuracy, s.records[best], 0)
}

// #endregion

// #region least-biased

// SelectLeastBiased retrains the configuration with the smallest mean bias
// deviation. Ties go to the first record in enumeration order.
func (s *Search) SelectLeastBiased() (*Selection, error) {
	if len(s.records) == 0 {
		return nil, ErrNotFitted
	}
	best := 0
	for i, r := range s.records {
		if r.MeanBias < s.records[best].MeanBias {
			best = i
		}
	}
	return s.finish(PolicyLeastBiased, s.records[best], 0)
}

// #endregion

// #region balanced

// SelectBalanced ranks records by descending accuracy (enumeration order
// breaking ties), keeps the top threshold, and retrains the least-biased of
// those. threshold must lie in [1, len(records)].
func (s *Search) SelectBalanced(threshold int) (*Selection, error) {
	if len(s.records) == 0 {
		return nil, ErrNotFitted
	}
	if threshold < 1 || threshold > len(s.records) {
		return nil, &InvalidThresholdError{Threshold: threshold, Records: len(s.records)}
	}

	ranked := append([]Record(nil), s.records...)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].MeanAccuracy > ranked[b].MeanAccuracy
	})
	top := ranked[:threshold]

	best := 0
	for i, r := range top {
		if r.MeanBias < top[best].MeanBias {
			best = i
		}
	}
	return s.finish(PolicyBalanced, top[best], threshold)
}

// #endregion

// #region find-optimum

// FindOptimum is declared as part of the selection surface but has no defined
// behavior yet; it always fails with ErrNotImplemented.
func (s *Search) FindOptimum(margin float64) (*Selection, error) {
	return nil, ErrNotImplemented
}

// #endregion

// #region retrain

// finish retrains the winning configuration on the full dataset through the
// same clone/configure/fit contract evaluation uses.
func (s *Search) finish(policy Policy, rec Record, threshold int) (*Selection, error) {
	model, err := s.retrain(rec.Params)
	if err != nil {
		return nil, err
	}
	log.Printf("[SELECT] policy=%s params={%s} accuracy=%.4f bias=%.4f",
		policy, rec.Params, rec.MeanAccuracy, rec.MeanBias)
	return &Selection{
		Policy:    policy,
		Record:    rec,
		Threshold: threshold,
		Model:     model,
	}, nil
}

func (s *Search) retrain(params estimator.Params) (estimator.Estimator, error) {
	features, err := s.cfg.Dataset.Matrix(s.cfg.OutcomeColumn)
	if err != nil {
		return nil, err
	}
	target, err := s.cfg.Dataset.Column(s.cfg.OutcomeColumn)
	if err != nil {
		return nil, err
	}

	model := s.cfg.Estimator.Clone()
	if err := model.SetParams(params); err != nil {
		return nil, err
	}
	if err := model.Fit(features, target); err != nil {
		return nil, fmt.Errorf("retrain on full dataset: %w", err)
	}
	return model, nil
}

// #endregion
