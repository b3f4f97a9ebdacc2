package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/trendforge/internal/config"
	"github.com/jonathan/trendforge/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full interactive pipeline end-to-end",
	Long: `Drives all four stages: discovery -> evaluation -> design -> construction.
You pick one of three ranked ideas after evaluation and approve or reject the
design before anything is scaffolded. The outcome is recorded in the run
ledger when DATABASE_URL is set.`,
	RunE: runPipelineCmd,
}

var runTopic string

func init() {
	runCommand.Flags().StringVarP(&runTopic, "topic", "t", "", "Focus discovery on a topic (optional)")
	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	led := pipeline.OpenLedger(ctx, cfg.DatabaseURL, os.Stdout)
	defer led.Close()

	runner, client, err := newRunner(ctx, cfg, led, runTopic)
	if err != nil {
		return err
	}
	defer client.Close()

	return runner.Run(ctx, runTopic)
}
