// Package types provides type definitions for structured data used throughout the trendforge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Run status values recorded in the run ledger.
const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusError   = "error"
)

// Run represents one pipeline invocation in the run ledger.
type Run struct {
	ID         int64      `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Topic      *string    `json:"topic,omitempty"`
	Status     string     `json:"status"`
	Error      *string    `json:"error,omitempty"`
}
