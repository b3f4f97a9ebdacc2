// Package types provides type definitions for structured data used throughout the trendforge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// RankedIdeas represents the evaluation stage's ordered shortlist of product ideas.
type RankedIdeas struct {
	Ideas []RankedIdea `json:"ideas"`
}

// RankedIdea represents a single scored product idea.
type RankedIdea struct {
	Rank        int     `json:"rank" validate:"required,min=1"`
	Title       string  `json:"title" validate:"required"`
	Pitch       string  `json:"pitch"`
	Feasibility float64 `json:"feasibility"`
	TargetUser  string  `json:"target_user"`
}

// Validate checks that ranks are exactly the integers 1..N with no gaps or
// duplicates.
func (r *RankedIdeas) Validate() error {
	if len(r.Ideas) == 0 {
		return fmt.Errorf("ranked idea list is empty")
	}
	seen := make(map[int]bool, len(r.Ideas))
	for _, idea := range r.Ideas {
		if idea.Rank < 1 || idea.Rank > len(r.Ideas) {
			return fmt.Errorf("rank %d out of range 1..%d", idea.Rank, len(r.Ideas))
		}
		if seen[idea.Rank] {
			return fmt.Errorf("duplicate rank %d", idea.Rank)
		}
		seen[idea.Rank] = true
	}
	return nil
}

// ByRank returns the unique idea holding the given rank.
func (r *RankedIdeas) ByRank(rank int) (*RankedIdea, error) {
	for i := range r.Ideas {
		if r.Ideas[i].Rank == rank {
			return &r.Ideas[i], nil
		}
	}
	return nil, fmt.Errorf("no idea with rank %d", rank)
}
