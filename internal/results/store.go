// Package results persists search runs, their evaluation records, and the
// selection decisions made against them in SQLite.
package results

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/474benchen/bias-aware-gridsearch/internal/estimator"
	"github.com/474benchen/bias-aware-gridsearch/internal/gridsearch"
)

// #endregion

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS search_runs (
	run_id              TEXT PRIMARY KEY,
	estimator           TEXT NOT NULL,
	outcome_column      TEXT NOT NULL,
	protected_attribute TEXT NOT NULL,
	privileged          REAL NOT NULL,
	unprivileged        REAL NOT NULL,
	folds               INTEGER NOT NULL,
	metric              TEXT NOT NULL,
	created_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS evaluation_records (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	position      INTEGER NOT NULL,
	params_json   TEXT NOT NULL,
	mean_accuracy REAL NOT NULL,
	mean_bias     REAL NOT NULL,
	FOREIGN KEY (run_id) REFERENCES search_runs(run_id)
);

CREATE INDEX IF NOT EXISTS idx_evaluation_records_run
ON evaluation_records(run_id, position);

CREATE TABLE IF NOT EXISTS selection_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	policy        TEXT NOT NULL,
	params_json   TEXT NOT NULL,
	mean_accuracy REAL NOT NULL,
	mean_bias     REAL NOT NULL,
	threshold     INTEGER NOT NULL DEFAULT 0,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES search_runs(run_id)
);
`

// #endregion

// #region store

// Store manages search history in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the results database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the raw handle for the provenance logger and inspector.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion

// #region run

// Run describes one completed search run.
type Run struct {
	ID                 string
	Estimator          string
	OutcomeColumn      string
	ProtectedAttribute string
	Privileged         float64
	Unprivileged       float64
	Folds              int
	Metric             string
	CreatedAt          time.Time
}

// SaveRun persists a run and its records in one transaction and returns the
// run ID (generated when empty).
func (s *Store) SaveRun(run Run, records []gridsearch.Record) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO search_runs
		(run_id, estimator, outcome_column, protected_attribute, privileged, unprivileged, folds, metric, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Estimator, run.OutcomeColumn, run.ProtectedAttribute,
		run.Privileged, run.Unprivileged, run.Folds, run.Metric,
		run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for i, rec := range records {
		paramsJSON, err := json.Marshal(rec.Params)
		if err != nil {
			return "", fmt.Errorf("marshal params: %w", err)
		}
		_, err = tx.Exec(`
			INSERT INTO evaluation_records (run_id, position, params_json, mean_accuracy, mean_bias)
			VALUES (?, ?, ?, ?, ?)`,
			run.ID, i, string(paramsJSON), rec.MeanAccuracy, rec.MeanBias,
		)
		if err != nil {
			return "", fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return run.ID, nil
}

// #endregion

// #region queries

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, estimator, outcome_column, protected_attribute,
		       privileged, unprivileged, folds, metric, created_at
		FROM search_runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Estimator, &r.OutcomeColumn, &r.ProtectedAttribute,
			&r.Privileged, &r.Unprivileged, &r.Folds, &r.Metric, &createdAt); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Records returns a run's evaluation records in their original enumeration
// order.
func (s *Store) Records(runID string) ([]gridsearch.Record, error) {
	rows, err := s.db.Query(`
		SELECT params_json, mean_accuracy, mean_bias
		FROM evaluation_records
		WHERE run_id = ?
		ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []gridsearch.Record
	for rows.Next() {
		var paramsJSON string
		var rec gridsearch.Record
		if err := rows.Scan(&paramsJSON, &rec.MeanAccuracy, &rec.MeanBias); err != nil {
			return nil, err
		}
		var params estimator.Params
		if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
			return nil, fmt.Errorf("unmarshal params: %w", err)
		}
		rec.Params = params
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion
