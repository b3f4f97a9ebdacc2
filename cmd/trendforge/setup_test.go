package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/trendforge/internal/config"
)

func TestDiscoveryTools_AllSourcesPresent(t *testing.T) {
	tools := discoveryTools(&config.Config{}, "")
	require.Len(t, tools, 5)

	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name())
	}
	assert.Equal(t, []string{"hackernews", "github_trending", "reddit", "producthunt", "social"}, names)
}

func TestDiscoveryTools_BuildsWithoutCredentials(t *testing.T) {
	// Credential-less adapters must still be constructed; they degrade to
	// error markers at fetch time, not at wiring time.
	assert.NotPanics(t, func() {
		discoveryTools(&config.Config{}, "databases")
	})
}
