package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/trendforge/internal/ledger"
	"github.com/jonathan/trendforge/internal/observability"
)

var runsCommand = &cobra.Command{
	Use:   "runs",
	Short: "List recent runs from the run ledger",
	RunE:  runsCmd,
}

var runsLimit int

func init() {
	runsCommand.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")
	rootCmd.AddCommand(runsCommand)
}

func runsCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set; the run ledger is unavailable")
	}

	store, err := ledger.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(ctx, runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	observability.NewPrinter(os.Stdout).PrintRuns(runs)
	return nil
}
