// Package main provides the trendforge CLI: a four-stage trend-to-product
// pipeline with human gates at idea selection and design approval.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/trendforge/internal/pipeline"
)

var rootCmd = &cobra.Command{
	Use:          "trendforge",
	Short:        "Turn community trends into a scaffolded product",
	Long:         "trendforge scans developer and startup communities for trends, ranks product ideas, and scaffolds the one you pick. Human gates sit before design and before construction.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, pipeline.ErrInterrupted) {
			fmt.Fprintf(os.Stderr, "Interrupted, sorry. Artifacts written so far are kept; `trendforge replay` can retry materialization.\n")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
