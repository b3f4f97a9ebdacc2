// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/trendforge/internal/types"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 60

// Printer handles formatted output for interactive and verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRankedIdeas outputs the evaluation shortlist ahead of the selection
// gate.
func (p *Printer) PrintRankedIdeas(ideas *types.RankedIdeas) {
	if ideas == nil {
		return
	}

	var sb strings.Builder
	for _, idea := range ideas.Ideas {
		sb.WriteString(fmt.Sprintf("%d. %s\n", idea.Rank, idea.Title))
		if idea.Pitch != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", idea.Pitch))
		}
		sb.WriteString(fmt.Sprintf("   feasibility %.1f/10", idea.Feasibility))
		if idea.TargetUser != "" {
			sb.WriteString(fmt.Sprintf(" (for %s)", idea.TargetUser))
		}
		sb.WriteString("\n")
	}
	p.printBox("RANKED IDEAS", strings.TrimRight(sb.String(), "\n"))
}

// PrintTrendList outputs discovery results in preview mode.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintTrendList(trends []TrendSummary) {
	fmt.Fprintf(p.out, "\n=== TREND LIST ===\n")
	for i, t := range trends {
		fmt.Fprintf(p.out, "%d. %s", i+1, t.Title)
		if t.WhyTrending != "" {
			fmt.Fprintf(p.out, ": %s", t.WhyTrending)
		}
		fmt.Fprintf(p.out, "\n")
	}
}

// TrendSummary is the display shape of one discovered trend.
type TrendSummary struct {
	Title       string `json:"title"`
	WhyTrending string `json:"why_trending"`
}

// PrintRuns outputs a table of ledger entries.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRuns(runs []types.Run) {
	fmt.Fprintf(p.out, "%-6s %-20s %-10s %-20s %s\n", "ID", "STARTED", "STATUS", "TOPIC", "ERROR")
	for _, run := range runs {
		topic := ""
		if run.Topic != nil {
			topic = *run.Topic
		}
		errMsg := ""
		if run.Error != nil {
			errMsg = *run.Error
		}
		fmt.Fprintf(p.out, "%-6d %-20s %-10s %-20s %s\n",
			run.ID, run.StartedAt.Format("2006-01-02 15:04:05"), run.Status, topic, errMsg)
	}
}
