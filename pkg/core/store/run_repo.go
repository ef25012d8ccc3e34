// Package store persists valuation run summaries to Postgres. The
// engine itself is stateless; saving a run is a post-run side effect
// owned by the pipeline.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dcf_suite/pkg/core/valuation"
	"dcf_suite/pkg/models"
)

// RunRepo persists valuation run summaries and owns its connection
// pool. It satisfies pipeline.RunStore.
type RunRepo struct {
	pool *pgxpool.Pool
}

// Open connects a run repository to the given Postgres URL. The pool
// connects lazily, so a bad URL fails here but an unreachable server
// surfaces on first use.
func Open(ctx context.Context, databaseURL string) (*RunRepo, error) {
	if databaseURL == "" {
		return nil, &models.InputValidationError{Field: "database url", Reason: "required"}
	}
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return &RunRepo{pool: pool}, nil
}

// Close releases the connection pool.
func (r *RunRepo) Close() {
	r.pool.Close()
}

// SaveRun persists a finished run keyed by its run ID. The summary goes
// into a single JSONB blob; ticker and headline price are lifted into
// columns for querying.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS valuation_runs (
//   run_id UUID PRIMARY KEY,
//   ticker TEXT NOT NULL,
//   share_price DOUBLE PRECISION,
//   summary_json JSONB,
//   created_at TIMESTAMPTZ
// );
func (r *RunRepo) SaveRun(ctx context.Context, summary *valuation.Summary) error {
	jsonData, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	query := `
		INSERT INTO valuation_runs (run_id, ticker, share_price, summary_json, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (run_id)
		DO UPDATE SET
			ticker = EXCLUDED.ticker,
			share_price = EXCLUDED.share_price,
			summary_json = EXCLUDED.summary_json,
			created_at = EXCLUDED.created_at;
	`

	_, err = r.pool.Exec(ctx, query,
		summary.RunID, summary.Ticker, summary.Band.Point.Result.SharePrice, jsonData, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// LoadRun retrieves a run summary by its ID.
func (r *RunRepo) LoadRun(ctx context.Context, runID string) (*valuation.Summary, error) {
	query := `SELECT summary_json FROM valuation_runs WHERE run_id = $1`

	var jsonData []byte
	err := r.pool.QueryRow(ctx, query, runID).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &models.NotFoundError{Kind: "valuation run", Key: runID}
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var summary valuation.Summary
	if err := json.Unmarshal(jsonData, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run summary: %w", err)
	}
	return &summary, nil
}

// LatestRun retrieves the most recent run for a ticker.
func (r *RunRepo) LatestRun(ctx context.Context, ticker string) (*valuation.Summary, error) {
	query := `
		SELECT summary_json FROM valuation_runs
		WHERE ticker = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var jsonData []byte
	err := r.pool.QueryRow(ctx, query, ticker).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &models.NotFoundError{Kind: "valuation run", Key: ticker}
		}
		return nil, fmt.Errorf("failed to load latest run: %w", err)
	}

	var summary valuation.Summary
	if err := json.Unmarshal(jsonData, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run summary: %w", err)
	}
	return &summary, nil
}
