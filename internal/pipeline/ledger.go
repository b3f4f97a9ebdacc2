package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/jonathan/trendforge/internal/ledger"
	"github.com/jonathan/trendforge/internal/types"
)

// Ledger is the subset of run bookkeeping the orchestrator needs. The
// PostgreSQL store satisfies it; NopLedger stands in when no database is
// configured.
type Ledger interface {
	Start(ctx context.Context, topic string) (int64, error)
	Finish(ctx context.Context, runID int64, status, errMsg string) error
	SaveCandidates(ctx context.Context, runID int64, candidates []types.Candidate) error
	Close()
}

// NopLedger discards all run bookkeeping.
type NopLedger struct{}

// Start implements Ledger.
func (NopLedger) Start(context.Context, string) (int64, error) { return 0, nil }

// Finish implements Ledger.
func (NopLedger) Finish(context.Context, int64, string, string) error { return nil }

// SaveCandidates implements Ledger.
func (NopLedger) SaveCandidates(context.Context, int64, []types.Candidate) error { return nil }

// Close implements Ledger.
func (NopLedger) Close() {}

// OpenLedger connects to the run ledger when a database URL is configured.
// A missing URL or a failed connection degrades to a warning and a no-op
// ledger; the pipeline never refuses to run because persistence is down.
func OpenLedger(ctx context.Context, databaseURL string, out io.Writer) Ledger {
	if databaseURL == "" {
		fmt.Fprintf(out, "Warning: DATABASE_URL not set, run history will not be recorded\n")
		return NopLedger{}
	}

	store, err := ledger.Connect(ctx, databaseURL)
	if err != nil {
		fmt.Fprintf(out, "Warning: failed to connect to run ledger: %v\n", err)
		fmt.Fprintf(out, "Continuing without run history...\n")
		return NopLedger{}
	}
	return store
}
