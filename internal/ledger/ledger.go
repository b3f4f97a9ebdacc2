// Package ledger provides the append-only run log backed by PostgreSQL.
// Every pipeline invocation is recorded once at start and mutated exactly
// once at termination; rows are never deleted. Run identifiers come from a
// BIGSERIAL counter, so two simultaneous runs get distinct ledger rows but
// still race on the shared artifact slots, so run one pipeline at a time.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/trendforge/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          BIGSERIAL PRIMARY KEY,
	started_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	finished_at TIMESTAMPTZ,
	topic       TEXT,
	status      TEXT NOT NULL DEFAULT 'running',
	error       TEXT
);
CREATE TABLE IF NOT EXISTS candidates (
	id     BIGSERIAL PRIMARY KEY,
	run_id BIGINT NOT NULL REFERENCES runs(id),
	source TEXT NOT NULL,
	title  TEXT,
	url    TEXT,
	score  INTEGER,
	extra  JSONB
);`

// Store wraps a PostgreSQL connection pool for run bookkeeping.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and ensures the ledger tables exist.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure ledger schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Start records a new run and returns its identifier.
func (s *Store) Start(ctx context.Context, topic string) (int64, error) {
	var id int64
	var topicArg *string
	if topic != "" {
		topicArg = &topic
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO runs (topic, status) VALUES ($1, 'running') RETURNING id`,
		topicArg,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to start run: %w", err)
	}
	return id, nil
}

// Finish marks a run as terminated with the given status and optional error
// message. This is the single mutation a run row ever receives.
func (s *Store) Finish(ctx context.Context, runID int64, status, errMsg string) error {
	var errArg *string
	if errMsg != "" {
		errArg = &errMsg
	}
	_, err := s.pool.Exec(ctx,
		`UPDATE runs SET finished_at = NOW(), status = $1, error = $2 WHERE id = $3`,
		status, errArg, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run %d: %w", runID, err)
	}
	return nil
}

// SaveCandidates records discovered candidates for a run. This is an
// analytics sink; callers treat failures as non-fatal.
func (s *Store) SaveCandidates(ctx context.Context, runID int64, candidates []types.Candidate) error {
	for _, c := range candidates {
		if c.IsError() {
			continue
		}
		var extra []byte
		if len(c.Extra) > 0 {
			var err error
			extra, err = json.Marshal(c.Extra)
			if err != nil {
				return fmt.Errorf("failed to marshal candidate extra: %w", err)
			}
		}
		_, err := s.pool.Exec(ctx,
			`INSERT INTO candidates (run_id, source, title, url, score, extra)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			runID, c.Source, c.Title, c.URL, c.Score, extra,
		)
		if err != nil {
			return fmt.Errorf("failed to save candidate: %w", err)
		}
	}
	return nil
}

// List retrieves recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]types.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, started_at, finished_at, topic, status, error
		 FROM runs ORDER BY id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		var run types.Run
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Topic, &run.Status, &run.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
