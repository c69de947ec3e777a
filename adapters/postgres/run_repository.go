// Package postgres persists battery run results for benchmarking history.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"gonist/domain/battery"
)

// RunRecord is one persisted test result row
type RunRecord struct {
	ID                  int64     `db:"id" json:"id"`
	RunID               string    `db:"run_id" json:"run_id"`
	SequenceFingerprint string    `db:"sequence_fingerprint" json:"sequence_fingerprint"`
	TestName            string    `db:"test_name" json:"test_name"`
	Status              string    `db:"status" json:"status"`
	Statistic           float64   `db:"statistic" json:"statistic"`
	Scores              []byte    `db:"scores" json:"scores"`
	Reason              string    `db:"reason" json:"reason"`
	ElapsedMicros       int64     `db:"elapsed_micros" json:"elapsed_micros"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

// RunRepository stores and retrieves battery run results
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Connect opens a postgres connection pool and verifies it
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the results table if it does not exist
func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS battery_results (
			id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			sequence_fingerprint TEXT NOT NULL,
			test_name TEXT NOT NULL,
			status TEXT NOT NULL,
			statistic DOUBLE PRECISION NOT NULL,
			scores JSONB NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			elapsed_micros BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_battery_results_run ON battery_results (run_id);
		CREATE INDEX IF NOT EXISTS idx_battery_results_sequence ON battery_results (sequence_fingerprint)`

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveRun persists every result of one battery run under its run id
func (r *RunRepository) SaveRun(ctx context.Context, runID string, sequenceFingerprint string, results []battery.Result) error {
	query := `
		INSERT INTO battery_results (
			run_id, sequence_fingerprint, test_name, status,
			statistic, scores, reason, elapsed_micros
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, result := range results {
		scoresJSON, err := json.Marshal(result.Scores)
		if err != nil {
			return fmt.Errorf("failed to marshal scores for %s: %w", result.Name, err)
		}
		_, err = tx.ExecContext(ctx, query,
			runID,
			sequenceFingerprint,
			result.Name,
			string(result.Status),
			result.Statistic,
			scoresJSON,
			result.Reason,
			result.Elapsed.Microseconds(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert result for %s: %w", result.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", runID, err)
	}
	return nil
}

// GetRun returns all persisted results for one run id, in insertion order
func (r *RunRepository) GetRun(ctx context.Context, runID string) ([]RunRecord, error) {
	query := `
		SELECT id, run_id, sequence_fingerprint, test_name, status,
			   statistic, scores, reason, elapsed_micros, created_at
		FROM battery_results
		WHERE run_id = $1
		ORDER BY id`

	var records []RunRecord
	if err := r.db.SelectContext(ctx, &records, query, runID); err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}
	return records, nil
}

// GetRunsForSequence returns the distinct run ids recorded for a sequence,
// newest first
func (r *RunRepository) GetRunsForSequence(ctx context.Context, sequenceFingerprint string) ([]string, error) {
	query := `
		SELECT run_id
		FROM battery_results
		WHERE sequence_fingerprint = $1
		GROUP BY run_id
		ORDER BY MAX(created_at) DESC`

	var runIDs []string
	if err := r.db.SelectContext(ctx, &runIDs, query, sequenceFingerprint); err != nil {
		return nil, fmt.Errorf("failed to get runs for sequence: %w", err)
	}
	return runIDs, nil
}
