package gridsearch

// #region imports
import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/474benchen/bias-aware-gridsearch/internal/dataset"
	"github.com/474benchen/bias-aware-gridsearch/internal/estimator"
	"github.com/474benchen/bias-aware-gridsearch/internal/fairness"
	"github.com/474benchen/bias-aware-gridsearch/internal/folds"
)

// #endregion

// #region options

// EvalOptions configure one evaluation pass over a configuration space.
type EvalOptions struct {
	OutcomeColumn      string
	ProtectedAttribute string
	Privileged         float64
	Unprivileged       float64
	Folds              int
	Metric             fairness.Metric
	// Workers bounds parallel configuration evaluation; values below 2 run
	// serially. Output order is the enumeration order either way.
	Workers int
}

// #endregion

// #region evaluate

// Evaluate scores every configuration in the grid with k-fold cross
// validation and returns one record per configuration, in enumeration order.
// The first capability failure aborts the whole pass; no partial result set
// is returned.
func Evaluate(base estimator.Estimator, grid Grid, X *dataset.Frame, y []float64, opts EvalOptions) ([]Record, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if X.NumRows() != len(y) {
		return nil, &dataset.DataError{Msg: fmt.Sprintf("feature frame has %d rows, labels have %d", X.NumRows(), len(y))}
	}
	if !X.Has(opts.ProtectedAttribute) {
		return nil, &dataset.DataError{Msg: fmt.Sprintf("protected attribute %q not in training frame", opts.ProtectedAttribute)}
	}
	if opts.Metric.Compute == nil {
		return nil, fmt.Errorf("no fairness metric configured")
	}

	// Fold boundaries depend only on the row count, so every configuration
	// shares one partition sequence.
	parts, err := folds.Split(X.NumRows(), opts.Folds)
	if err != nil {
		return nil, err
	}

	configs := grid.Enumerate()
	records := make([]Record, len(configs))

	if opts.Workers > 1 {
		g, ctx := errgroup.WithContext(context.Background())
		g.SetLimit(opts.Workers)
		for i, params := range configs {
			i, params := i, params
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				rec, err := evaluateConfig(base, params, X, y, parts, opts)
				if err != nil {
					return err
				}
				records[i] = rec
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return records, nil
	}

	for i, params := range configs {
		rec, err := evaluateConfig(base, params, X, y, parts, opts)
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}
	return records, nil
}

// #endregion

// #region evaluate-config

// evaluateConfig runs all folds for one configuration and averages the
// per-fold accuracy and bias deviation.
func evaluateConfig(base estimator.Estimator, params estimator.Params, X *dataset.Frame, y []float64, parts []folds.Partition, opts EvalOptions) (Record, error) {
	var accSum, biasSum float64
	for fi, part := range parts {
		acc, bias, err := evaluateFold(base, params, X, y, part, opts)
		if err != nil {
			return Record{}, fmt.Errorf("configuration {%s} fold %d: %w", params, fi, err)
		}
		accSum += acc
		biasSum += bias
	}
	n := float64(len(parts))
	return Record{
		Params:       params,
		MeanAccuracy: accSum / n,
		MeanBias:     biasSum / n,
	}, nil
}

func evaluateFold(base estimator.Estimator, params estimator.Params, X *dataset.Frame, y []float64, part folds.Partition, opts EvalOptions) (acc, bias float64, err error) {
	model := base.Clone()
	if err := model.SetParams(params); err != nil {
		return 0, 0, err
	}

	trainFrame, err := X.Select(part.Train)
	if err != nil {
		return 0, 0, err
	}
	trainX, err := trainFrame.Matrix()
	if err != nil {
		return 0, 0, err
	}
	trainY := pick(y, part.Train)

	valFrame, err := X.Select(part.Val)
	if err != nil {
		return 0, 0, err
	}
	valX, err := valFrame.Matrix()
	if err != nil {
		return 0, 0, err
	}
	valY := pick(y, part.Val)

	if err := model.Fit(trainX, trainY); err != nil {
		return 0, 0, fmt.Errorf("fit: %w", err)
	}
	preds, err := model.Predict(valX)
	if err != nil {
		return 0, 0, fmt.Errorf("predict: %w", err)
	}
	if len(preds) != len(valY) {
		return 0, 0, &dataset.DataError{Msg: fmt.Sprintf("predicted %d labels for %d validation rows", len(preds), len(valY))}
	}

	hits := 0
	for i := range preds {
		if preds[i] == valY[i] {
			hits++
		}
	}
	acc = float64(hits) / float64(len(valY))

	bias, err = foldBias(valFrame, valY, preds, opts)
	if err != nil {
		return 0, 0, err
	}
	return acc, bias, nil
}

// foldBias assembles the {outcome, protected, predicted} table for one
// validation slice and scores it with the configured metric.
func foldBias(valFrame *dataset.Frame, valY, preds []float64, opts EvalOptions) (float64, error) {
	attr, err := valFrame.Column(opts.ProtectedAttribute)
	if err != nil {
		return 0, err
	}
	predCol := opts.OutcomeColumn + "_pred"
	table, err := dataset.New(
		[]string{opts.OutcomeColumn, opts.ProtectedAttribute, predCol},
		map[string][]float64{
			opts.OutcomeColumn:      valY,
			opts.ProtectedAttribute: attr,
			predCol:                 preds,
		},
	)
	if err != nil {
		return 0, err
	}
	v, err := opts.Metric.Compute(table, predCol, opts.ProtectedAttribute, opts.Privileged, opts.Unprivileged)
	if err != nil {
		return 0, err
	}
	return opts.Metric.Deviation(v), nil
}

func pick(vals []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = vals[idx]
	}
	return out
}

// #endregion
