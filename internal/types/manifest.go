// Package types provides type definitions for structured data used throughout the trendforge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
)

// ProjectFile is one file the construction stage wants materialized on disk.
type ProjectFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// BuildManifest enumerates the files of a scaffolded project, plus the
// directory name the builder chose for it.
type BuildManifest struct {
	ProjectSlug string        `json:"project_slug,omitempty"`
	Files       []ProjectFile `json:"files"`
}

// ParseBuildManifest decodes a manifest from an extracted JSON value.
// Builders emit either a bare array of file entries or an object wrapping
// the array with a project slug; both shapes are accepted.
func ParseBuildManifest(raw json.RawMessage) (*BuildManifest, error) {
	var files []ProjectFile
	if err := json.Unmarshal(raw, &files); err == nil {
		return &BuildManifest{Files: files}, nil
	}

	var manifest BuildManifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("manifest is neither a file array nor a manifest object: %w", err)
	}
	return &manifest, nil
}
