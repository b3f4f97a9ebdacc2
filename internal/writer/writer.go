// Package writer materializes a build manifest as files on disk and
// finalizes the scaffolded project.
package writer

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jonathan/trendforge/internal/types"
)

// DefaultOutputRoot is the directory scaffolded projects land in.
const DefaultOutputRoot = "output"

// Error represents a failure writing one project file.
type Error struct {
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("writer error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("writer error for %s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Materialize writes every manifest file under outputRoot/slug, creating
// parent directories idempotently. It returns the number of files written.
// Entries with empty or escaping paths are rejected.
func Materialize(outputRoot, slug string, files []types.ProjectFile) (int, error) {
	if slug == "" {
		slug = "generated-project"
	}
	projectDir := filepath.Join(outputRoot, slug)

	written := 0
	for _, file := range files {
		cleaned, err := safeRelPath(file.Path)
		if err != nil {
			return written, &Error{Path: file.Path, Message: "unsafe path", Cause: err}
		}

		target := filepath.Join(projectDir, cleaned)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return written, &Error{Path: file.Path, Message: "failed to create parent directory", Cause: err}
		}
		if err := os.WriteFile(target, []byte(file.Content), 0644); err != nil {
			return written, &Error{Path: file.Path, Message: "failed to write file", Cause: err}
		}
		log.Printf("wrote %s (%d chars)", target, len(file.Content))
		written++
	}
	return written, nil
}

// safeRelPath validates that a manifest path stays inside the project
// directory.
func safeRelPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("absolute path not allowed")
	}
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes project directory")
	}
	return cleaned, nil
}

// InitRepo initializes a git repository in the scaffolded project and makes
// an initial commit. Failures are reported to the caller as a non-fatal
// error; a missing git binary should never fail the run.
func InitRepo(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("project directory missing: %w", err)
	}

	steps := [][]string{
		{"git", "init"},
		{"git", "add", "-A"},
		{"git", "commit", "-m", "Initial scaffold"},
	}
	for _, step := range steps {
		cmd := exec.Command(step[0], step[1:]...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%s failed: %v: %s", strings.Join(step, " "), err, strings.TrimSpace(string(out)))
		}
	}
	return nil
}
