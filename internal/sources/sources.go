// Package sources implements the discovery source adapters. Every adapter
// normalizes its results into types.Candidate records and degrades locally:
// a failed fetch yields a single error-marker candidate instead of an error,
// so discovery always completes even when every source is down.
package sources

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jonathan/trendforge/internal/types"
)

// Adapter is one external discovery source.
type Adapter interface {
	// Source returns the tag recorded on every candidate this adapter emits.
	Source() string
	// Fetch returns normalized candidates. It never fails: adapter errors
	// are returned as a single error-marker candidate.
	Fetch(ctx context.Context) []types.Candidate
}

// Tool adapts an Adapter to the agent tool contract, marshaling candidates
// to JSON for the prompt and recording the last fetch so the orchestrator
// can feed the candidates analytics sink without fetching twice.
type Tool struct {
	name    string
	adapter Adapter

	mu   sync.Mutex
	last []types.Candidate
}

// AsTool wraps an adapter for use by the agent executor.
func AsTool(name string, a Adapter) *Tool {
	return &Tool{name: name, adapter: a}
}

// Name implements the agent tool contract.
func (t *Tool) Name() string { return t.name }

// Gather implements the agent tool contract.
func (t *Tool) Gather(ctx context.Context) (string, error) {
	candidates := t.adapter.Fetch(ctx)

	t.mu.Lock()
	t.last = candidates
	t.mu.Unlock()

	payload, err := json.Marshal(candidates)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// Candidates returns the results of the most recent Gather call.
func (t *Tool) Candidates() []types.Candidate {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Gather runs a set of adapters sequentially and concatenates their
// candidate lists.
func Gather(ctx context.Context, adapters []Adapter) []types.Candidate {
	var all []types.Candidate
	for _, a := range adapters {
		all = append(all, a.Fetch(ctx)...)
	}
	return all
}
