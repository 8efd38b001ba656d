package results

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/474benchen/bias-aware-gridsearch/internal/estimator"
	"github.com/474benchen/bias-aware-gridsearch/internal/gridsearch"
)

// #endregion

// #region selection-entry

// SelectionEntry is a single row in the selection_log table: which policy was
// applied to which run, and which configuration won.
type SelectionEntry struct {
	RunID        string
	Policy       string
	Params       estimator.Params
	MeanAccuracy float64
	MeanBias     float64
	Threshold    int // balanced policy only, 0 otherwise
	CreatedAt    time.Time
}

// #endregion

// #region log-selection

// LogSelection writes a selection decision to the selection_log table.
func LogSelection(db *sql.DB, entry SelectionEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	paramsJSON, err := json.Marshal(entry.Params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO selection_log (run_id, policy, params_json, mean_accuracy, mean_bias, threshold, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.Policy,
		string(paramsJSON),
		entry.MeanAccuracy,
		entry.MeanBias,
		entry.Threshold,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log selection: %w", err)
	}
	return nil
}

// LogSelectionResult records a completed Selection against a run.
func LogSelectionResult(db *sql.DB, runID string, sel *gridsearch.Selection) error {
	return LogSelection(db, SelectionEntry{
		RunID:        runID,
		Policy:       string(sel.Policy),
		Params:       sel.Record.Params,
		MeanAccuracy: sel.Record.MeanAccuracy,
		MeanBias:     sel.Record.MeanBias,
		Threshold:    sel.Threshold,
	})
}

// #endregion

// #region selections

// Selections returns the selection decisions logged for a run, oldest first.
func (s *Store) Selections(runID string) ([]SelectionEntry, error) {
	rows, err := s.db.Query(`
		SELECT policy, params_json, mean_accuracy, mean_bias, threshold, created_at
		FROM selection_log
		WHERE run_id = ?
		ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []SelectionEntry
	for rows.Next() {
		var e SelectionEntry
		var paramsJSON, createdAt string
		if err := rows.Scan(&e.Policy, &paramsJSON, &e.MeanAccuracy, &e.MeanBias, &e.Threshold, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(paramsJSON), &e.Params); err != nil {
			return nil, fmt.Errorf("unmarshal params: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			e.CreatedAt = t
		}
		e.RunID = runID
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion
