package main

// #region imports
import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/474benchen/bias-aware-gridsearch/internal/results"
)

// #endregion

// #region main

func main() {
	dbPath := flag.String("db", "", "path to fairsearch.db")
	last := flag.Int("last", 20, "show N most recent runs")
	runID := flag.String("run", "", "show records and selections for one run")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/fairsearch.db [--last N] [--run id] [--json]")
		os.Exit(2)
	}

	store, err := results.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *runID != "" {
		err = runDetailMode(store, *runID, *jsonOut)
	} else {
		err = runListMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion

// #region list-mode

func runListMode(store *results.Store, last int, jsonOut bool) error {
	runs, err := store.ListRuns(last)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	fmt.Printf("%-36s  %-9s  %-19s  %-6s  %s\n", "run", "estimator", "metric", "folds", "created")
	for _, r := range runs {
		fmt.Printf("%-36s  %-9s  %-19s  %-6d  %s\n",
			r.ID, r.Estimator, r.Metric, r.Folds, r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// #endregion

// #region detail-mode

type recordRow struct {
	Position     int     `json:"position"`
	Params       string  `json:"params"`
	MeanAccuracy float64 `json:"mean_accuracy"`
	MeanBias     float64 `json:"mean_bias"`
}

type runDetail struct {
	Records    []recordRow              `json:"records"`
	Selections []results.SelectionEntry `json:"selections,omitempty"`
}

func runDetailMode(store *results.Store, runID string, jsonOut bool) error {
	records, err := store.Records(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no records for run %s", runID)
	}
	selections, err := store.Selections(runID)
	if err != nil {
		return err
	}

	if jsonOut {
		detail := runDetail{Selections: selections}
		for i, rec := range records {
			detail.Records = append(detail.Records, recordRow{
				Position:     i,
				Params:       rec.Params.String(),
				MeanAccuracy: rec.MeanAccuracy,
				MeanBias:     rec.MeanBias,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	fmt.Printf("%-4s  %-40s  %-10s  %-10s\n", "#", "params", "accuracy", "bias")
	for i, rec := range records {
		fmt.Printf("%-4d  %-40s  %-10.4f  %-10.4f\n", i, rec.Params, rec.MeanAccuracy, rec.MeanBias)
	}
	if len(selections) > 0 {
		fmt.Println()
		fmt.Printf("%-18s  %-40s  %-10s  %-10s  %s\n", "policy", "params", "accuracy", "bias", "threshold")
		for _, sel := range selections {
			fmt.Printf("%-18s  %-40s  %-10.4f  %-10.4f  %d\n",
				sel.Policy, sel.Params, sel.MeanAccuracy, sel.MeanBias, sel.Threshold)
		}
	}
	return nil
}

// #endregion
