// Package gridsearch runs cross-validated hyperparameter search that scores
// every configuration on predictive accuracy and group-fairness bias, then
// selects a final model under an accuracy/fairness trade-off policy.
package gridsearch

// #region imports
import (
	"fmt"
	"log"
	"time"

	"github.com/474benchen/bias-aware-gridsearch/internal/dataset"
	"github.com/474benchen/bias-aware-gridsearch/internal/estimator"
	"github.com/474benchen/bias-aware-gridsearch/internal/fairness"
)

// #endregion

// #region config

// Config wires a search session.
type Config struct {
	// Estimator is the base capability; the search only ever fits clones.
	Estimator estimator.Estimator
	// Grid is the configuration space.
	Grid Grid
	// Dataset is the full labeled table, used verbatim for final retraining.
	// It must contain OutcomeColumn and ProtectedAttribute.
	Dataset            *dataset.Frame
	OutcomeColumn      string
	ProtectedAttribute string
	Privileged         float64
	Unprivileged       float64
	// Folds is the cross-validation fold count.
	Folds int
	// Metric defaults to disparate impact.
	Metric fairness.Metric
	// Workers bounds parallel configuration evaluation; 0 or 1 is serial.
	Workers int
}

func (c Config) validate() error {
	if c.Estimator == nil {
		return fmt.Errorf("search needs an estimator")
	}
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if c.Dataset == nil {
		return fmt.Errorf("search needs a dataset")
	}
	if !c.Dataset.Has(c.OutcomeColumn) {
		return &dataset.DataError{Msg: fmt.Sprintf("outcome column %q not in dataset", c.OutcomeColumn)}
	}
	if !c.Dataset.Has(c.ProtectedAttribute) {
		return &dataset.DataError{Msg: fmt.Sprintf("protected attribute %q not in dataset", c.ProtectedAttribute)}
	}
	if c.Privileged == c.Unprivileged {
		return fmt.Errorf("privileged and unprivileged values must differ")
	}
	if c.Folds < 2 {
		return fmt.Errorf("fold count must be at least 2, got %d", c.Folds)
	}
	return nil
}

// #endregion

// #region search

// Search is a staged grid-search session: Fit evaluates the configuration
// space, the Select methods consume the stored records. Records exist only
// after a fully successful Fit.
type Search struct {
	cfg     Config
	records []Record
}

// New validates the configuration and returns an unfitted session.
func New(cfg Config) (*Search, error) {
	if cfg.Metric.Compute == nil {
		cfg.Metric = fairness.DisparateImpact
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Search{cfg: cfg}, nil
}

// #endregion

// #region fit

// Fit evaluates every configuration against X and y and stores the records.
// On any failure the session keeps no partial results.
func (s *Search) Fit(X *dataset.Frame, y []float64) error {
	start := time.Now()
	records, err := Evaluate(s.cfg.Estimator, s.cfg.Grid, X, y, EvalOptions{
		OutcomeColumn:      s.cfg.OutcomeColumn,
		ProtectedAttribute: s.cfg.ProtectedAttribute,
		Privileged:         s.cfg.Privileged,
		Unprivileged:       s.cfg.Unprivileged,
		Folds:              s.cfg.Folds,
		Metric:             s.cfg.Metric,
		Workers:            s.cfg.Workers,
	})
	if err != nil {
		s.records = nil
		return err
	}
	s.records = records

	log.Printf("[SEARCH] evaluated %d configurations × %d folds (%s, metric=%s) in %s",
		len(records), s.cfg.Folds, s.cfg.Estimator.Name(), s.cfg.Metric.Name, time.Since(start).Round(time.Millisecond))
	return nil
}

// Results returns a copy of the evaluation records in enumeration order.
func (s *Search) Results() []Record {
	return append([]Record(nil), s.records...)
}

// Metric returns the fairness metric in effect for this session.
func (s *Search) Metric() fairness.Metric {
	return s.cfg.Metric
}

// #endregion
