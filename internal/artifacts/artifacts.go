// Package artifacts persists stage output to fixed, well-known slots under
// a single storage root. Slots are overwritten on every run; the run ledger
// holds the only historical record.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultRoot is the storage directory used when none is configured.
const DefaultRoot = "storage"

// Artifact slot names, one per pipeline stage output.
const (
	SlotTrendList   = "trend_list.json"
	SlotRankedIdeas = "ranked_ideas.json"
	SlotWinningIdea = "winning_idea.json"
	SlotDesignDoc   = "design_doc.md"
	SlotBuildOutput = "build_output.txt"
)

// Store reads and writes artifact slots under a storage root.
type Store struct {
	root string
}

// NewStore creates a store rooted at the given directory.
func NewStore(root string) *Store {
	if root == "" {
		root = DefaultRoot
	}
	return &Store{root: root}
}

// Path returns the on-disk location of a slot.
func (s *Store) Path(slot string) string {
	return filepath.Join(s.root, slot)
}

// Save writes text to a slot, creating the storage root if needed.
func (s *Store) Save(slot, text string) error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("failed to create storage root %s: %w", s.root, err)
	}
	path := s.Path(slot)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return nil
}

// Load reads a slot's content.
func (s *Store) Load(slot string) (string, error) {
	data, err := os.ReadFile(s.Path(slot))
	if err != nil {
		return "", fmt.Errorf("failed to read artifact %s: %w", s.Path(slot), err)
	}
	return string(data), nil
}

// Exists reports whether a slot has been written.
func (s *Store) Exists(slot string) bool {
	_, err := os.Stat(s.Path(slot))
	return err == nil
}
