// Package types provides type definitions for structured data used throughout the trendforge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Candidate represents one discovered trend item from a source adapter.
// Adapters that fail populate Err instead of the content fields so the
// discovery stage can report partial results without aborting.
type Candidate struct {
	Source string         `json:"source"`
	Title  string         `json:"title,omitempty"`
	URL    string         `json:"url,omitempty"`
	Score  int            `json:"score,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
	Err    string         `json:"error,omitempty"`
}

// ErrorCandidate builds the single-element error marker an adapter returns
// in place of real results when its fetch fails.
func ErrorCandidate(source, message string) Candidate {
	return Candidate{Source: source, Err: message}
}

// IsError reports whether the candidate is an adapter error marker.
func (c Candidate) IsError() bool {
	return c.Err != ""
}
