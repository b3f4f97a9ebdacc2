package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/trendforge/internal/config"
	"github.com/jonathan/trendforge/internal/pipeline"
)

var scoutCommand = &cobra.Command{
	Use:   "scout",
	Short: "Run discovery alone and print the trend list",
	Long:  "Runs the discovery stage only, prints the trend report, and exits. Nothing is recorded in the run ledger.",
	RunE:  scoutCmd,
}

var scoutTopic string

func init() {
	scoutCommand.Flags().StringVarP(&scoutTopic, "topic", "t", "", "Focus discovery on a topic (optional)")
	rootCmd.AddCommand(scoutCommand)
}

func scoutCmd(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	runner, client, err := newRunner(ctx, cfg, pipeline.NopLedger{}, scoutTopic)
	if err != nil {
		return err
	}
	defer client.Close()

	return runner.Preview(ctx, scoutTopic)
}
