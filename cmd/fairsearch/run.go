package main

// #region imports
import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/474benchen/bias-aware-gridsearch/internal/config"
	"github.com/474benchen/bias-aware-gridsearch/internal/dataset"
	"github.com/474benchen/bias-aware-gridsearch/internal/estimator"
	"github.com/474benchen/bias-aware-gridsearch/internal/fairness"
	"github.com/474benchen/bias-aware-gridsearch/internal/gridsearch"
	"github.com/474benchen/bias-aware-gridsearch/internal/results"
)

// #endregion

// #region run-command

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a grid search and select a model",
		Long: `Load the dataset, evaluate every grid configuration with k-fold cross
validation, persist the run, then apply the configured selection policy and
log the decision.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("policy") {
				cfg.Selection.Policy, _ = cmd.Flags().GetString("policy")
			}
			if cmd.Flags().Changed("threshold") {
				cfg.Selection.Threshold, _ = cmd.Flags().GetInt("threshold")
			}
			return runSearch(cfg)
		},
	}

	cmd.Flags().String("policy", "", "selection policy (highest_accuracy, least_biased, balanced)")
	cmd.Flags().Int("threshold", 0, "top-accuracy pool size for the balanced policy")
	return cmd
}

// #endregion

// #region run-search

func runSearch(cfg *config.Config) error {
	frame, err := dataset.FromCSV(cfg.Dataset.Path)
	if err != nil {
		return err
	}

	base, err := estimator.New(cfg.Search.Estimator)
	if err != nil {
		return err
	}
	metric, err := fairness.ByName(cfg.Search.Metric)
	if err != nil {
		return err
	}

	search, err := gridsearch.New(gridsearch.Config{
		Estimator:          base,
		Grid:               gridsearch.Grid(cfg.Grid),
		Dataset:            frame,
		OutcomeColumn:      cfg.Dataset.OutcomeColumn,
		ProtectedAttribute: cfg.Dataset.ProtectedAttribute,
		Privileged:         cfg.Dataset.Privileged,
		Unprivileged:       cfg.Dataset.Unprivileged,
		Folds:              cfg.Search.Folds,
		Metric:             metric,
		Workers:            cfg.Search.Workers,
	})
	if err != nil {
		return err
	}

	X, err := frame.Drop(cfg.Dataset.OutcomeColumn)
	if err != nil {
		return err
	}
	y, err := frame.Column(cfg.Dataset.OutcomeColumn)
	if err != nil {
		return err
	}

	if err := search.Fit(X, y); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	records := search.Results()
	printRecords(records)

	store, err := results.Open(cfg.Results.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.SaveRun(results.Run{
		Estimator:          cfg.Search.Estimator,
		OutcomeColumn:      cfg.Dataset.OutcomeColumn,
		ProtectedAttribute: cfg.Dataset.ProtectedAttribute,
		Privileged:         cfg.Dataset.Privileged,
		Unprivileged:       cfg.Dataset.Unprivileged,
		Folds:              cfg.Search.Folds,
		Metric:             cfg.Search.Metric,
	}, records)
	if err != nil {
		return fmt.Errorf("persist run: %w", err)
	}

	sel, err := applyPolicy(search, cfg.Selection)
	if err != nil {
		return err
	}
	if err := results.LogSelectionResult(store.DB(), runID, sel); err != nil {
		return err
	}

	fmt.Printf("\nrun %s\n", runID)
	fmt.Printf("selected policy=%s params={%s} accuracy=%.4f bias=%.4f\n",
		sel.Policy, sel.Record.Params, sel.Record.MeanAccuracy, sel.Record.MeanBias)
	return nil
}

func applyPolicy(search *gridsearch.Search, sel config.SelectionConfig) (*gridsearch.Selection, error) {
	switch sel.Policy {
	case "highest_accuracy":
		return search.SelectHighestAccuracy()
	case "least_biased":
		return search.SelectLeastBiased()
	case "balanced":
		return search.SelectBalanced(sel.Threshold)
	default:
		return nil, fmt.Errorf("unknown selection policy %q", sel.Policy)
	}
}

func printRecords(records []gridsearch.Record) {
	fmt.Printf("%-4s  %-40s  %-10s  %-10s\n", "#", "params", "accuracy", "bias")
	for i, rec := range records {
		fmt.Printf("%-4d  %-40s  %-10.4f  %-10.4f\n", i, rec.Params, rec.MeanAccuracy, rec.MeanBias)
	}
}

// #endregion
