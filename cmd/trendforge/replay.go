package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/trendforge/internal/artifacts"
	"github.com/jonathan/trendforge/internal/pipeline"
	"github.com/jonathan/trendforge/internal/writer"
)

var replayCommand = &cobra.Command{
	Use:   "replay",
	Short: "Re-materialize the project from the saved construction output",
	Long: `Re-extracts the build manifest from the saved construction artifact and
drives the project writer again. No model is invoked; use this when a run
produced good construction output but file materialization failed.`,
	RunE: replayCmd,
}

func init() {
	rootCmd.AddCommand(replayCommand)
}

func replayCmd(_ *cobra.Command, _ []string) error {
	// Replay needs no model credential; read the environment directly so a
	// missing GEMINI_API_KEY does not block recovery.
	storageRoot := os.Getenv("TRENDFORGE_STORAGE")
	outputRoot := os.Getenv("TRENDFORGE_OUTPUT")
	if outputRoot == "" {
		outputRoot = writer.DefaultOutputRoot
	}

	runner := pipeline.NewRunner(pipeline.Runner{
		Artifacts:  artifacts.NewStore(storageRoot),
		Out:        os.Stdout,
		OutputRoot: outputRoot,
	})
	return runner.Replay(context.Background())
}
