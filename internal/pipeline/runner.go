// Package pipeline orchestrates the four-stage trend-to-product flow:
// discovery, evaluation, design, and construction, with human gates between
// evaluation/design and design/construction. Stages run strictly one at a
// time; each makes one blocking call to the agent executor and persists its
// raw output to a fixed artifact slot.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jonathan/trendforge/internal/agent"
	"github.com/jonathan/trendforge/internal/artifacts"
	"github.com/jonathan/trendforge/internal/extract"
	"github.com/jonathan/trendforge/internal/llm"
	"github.com/jonathan/trendforge/internal/observability"
	"github.com/jonathan/trendforge/internal/prompts"
	"github.com/jonathan/trendforge/internal/schemas"
	"github.com/jonathan/trendforge/internal/types"
	"github.com/jonathan/trendforge/internal/writer"
)

// approvalPreviewLimit is how much of the design document the approval gate
// shows before truncating.
const approvalPreviewLimit = 2500

// agentTiers maps each pipeline agent to its model tier. Design and
// construction produce the largest, most structured output and get the
// stronger model.
var agentTiers = map[string]llm.ModelTier{
	"scout":     llm.TierStandard,
	"critic":    llm.TierStandard,
	"architect": llm.TierAdvanced,
	"builder":   llm.TierAdvanced,
}

// Runner drives the pipeline. Construct it with NewRunner so the writer
// hooks get their defaults.
type Runner struct {
	Executor   agent.Executor
	Tools      []agent.Tool
	Artifacts  *artifacts.Store
	Ledger     Ledger
	Prompter   Prompter
	Printer    *observability.Printer
	Out        io.Writer
	OutputRoot string
	Verbose    bool

	materialize func(outputRoot, slug string, files []types.ProjectFile) (int, error)
	initRepo    func(dir string) error
}

// NewRunner fills in the writer hooks and returns a ready runner.
func NewRunner(r Runner) *Runner {
	if r.Ledger == nil {
		r.Ledger = NopLedger{}
	}
	if r.Printer == nil {
		r.Printer = observability.NewPrinter(r.Out)
	}
	if r.OutputRoot == "" {
		r.OutputRoot = writer.DefaultOutputRoot
	}
	r.materialize = writer.Materialize
	r.initRepo = writer.InitRepo
	return &r
}

// Run executes the full interactive pipeline and records the outcome in the
// run ledger. The ledger row is written once at start and mutated exactly
// once here, whatever the termination path.
func (r *Runner) Run(ctx context.Context, topic string) error {
	led := r.Ledger
	runID, err := led.Start(ctx, topic)
	if err != nil {
		fmt.Fprintf(r.Out, "Warning: failed to record run start: %v\n", err)
		led = NopLedger{}
	}

	runErr := r.runStages(ctx, led, runID, topic)

	// The run context may already be canceled on interruption; the final
	// ledger mutation must still go through.
	finishCtx := context.WithoutCancel(ctx)
	switch {
	case runErr == nil:
		if err := led.Finish(finishCtx, runID, types.RunStatusSuccess, ""); err != nil {
			fmt.Fprintf(r.Out, "Warning: failed to record run outcome: %v\n", err)
		}
	case errors.Is(runErr, ErrRejected):
		if err := led.Finish(finishCtx, runID, types.RunStatusError, ErrRejected.Error()); err != nil {
			fmt.Fprintf(r.Out, "Warning: failed to record run outcome: %v\n", err)
		}
	case errors.Is(runErr, ErrInterrupted):
		if err := led.Finish(finishCtx, runID, types.RunStatusError, ErrInterrupted.Error()); err != nil {
			fmt.Fprintf(r.Out, "Warning: failed to record run outcome: %v\n", err)
		}
	default:
		if err := led.Finish(finishCtx, runID, types.RunStatusError, runErr.Error()); err != nil {
			fmt.Fprintf(r.Out, "Warning: failed to record run outcome: %v\n", err)
		}
	}
	return runErr
}

// runStages is the stage sequence proper; Run wraps it with ledger
// bookkeeping.
func (r *Runner) runStages(ctx context.Context, led Ledger, runID int64, topic string) error {
	fmt.Fprintf(r.Out, "Stage 1/4: Discovery: scanning sources for trends...\n")
	trendReport, err := r.runStage(ctx, "scout", "scout_task",
		map[string]string{"TopicHint": topicHint(topic)},
		r.Tools, artifacts.SlotTrendList)
	if err != nil {
		return err
	}
	r.saveCandidates(ctx, led, runID)

	fmt.Fprintf(r.Out, "Stage 2/4: Evaluation: ranking product ideas...\n")
	criticOutput, err := r.runStage(ctx, "critic", "critic_task",
		map[string]string{"TrendReport": trendReport},
		nil, artifacts.SlotRankedIdeas)
	if err != nil {
		return err
	}

	ideas, err := parseRankedIdeas(criticOutput)
	if err != nil {
		return err
	}

	chosen, err := r.selectionGate(ctx, ideas)
	if err != nil {
		return err
	}

	chosenJSON, err := json.MarshalIndent(chosen, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode chosen idea: %w", err)
	}
	if err := r.Artifacts.Save(artifacts.SlotWinningIdea, string(chosenJSON)); err != nil {
		return err
	}

	fmt.Fprintf(r.Out, "Stage 3/4: Design: drafting the design document for %q...\n", chosen.Title)
	design, err := r.runStage(ctx, "architect", "architect_task",
		map[string]string{"WinningIdea": string(chosenJSON)},
		nil, artifacts.SlotDesignDoc)
	if err != nil {
		return err
	}

	if err := r.approvalGate(ctx, design); err != nil {
		return err
	}

	fmt.Fprintf(r.Out, "Stage 4/4: Construction: scaffolding the project...\n")
	buildOutput, err := r.runStage(ctx, "builder", "builder_task",
		map[string]string{"DesignDoc": design},
		nil, artifacts.SlotBuildOutput)
	if err != nil {
		return err
	}

	r.materializeProject(buildOutput)

	fmt.Fprintf(r.Out, "Done. Artifacts saved under %s\n", r.Artifacts.Path(""))
	return nil
}

// Preview runs discovery alone, prints the trend list, and exits without
// touching the run ledger.
func (r *Runner) Preview(ctx context.Context, topic string) error {
	fmt.Fprintf(r.Out, "Scouting sources for trends (preview, nothing recorded)...\n")
	output, err := r.runStage(ctx, "scout", "scout_task",
		map[string]string{"TopicHint": topicHint(topic)},
		r.Tools, artifacts.SlotTrendList)
	if err != nil {
		return err
	}

	raw, err := extract.Array(output)
	if err != nil {
		// The report is still useful even when the model skipped the
		// structured shape.
		fmt.Fprintf(r.Out, "\n%s\n", output)
		return nil
	}
	var trends []observability.TrendSummary
	if err := json.Unmarshal(raw, &trends); err != nil {
		fmt.Fprintf(r.Out, "\n%s\n", output)
		return nil
	}
	r.Printer.PrintTrendList(trends)
	return nil
}

// Replay re-extracts the build manifest from the saved construction artifact
// and re-drives the project writer. No agent is invoked; replay exists so a
// failed materialization does not cost another full run.
func (r *Runner) Replay(ctx context.Context) error {
	if !r.Artifacts.Exists(artifacts.SlotBuildOutput) {
		return fmt.Errorf("no construction artifact at %s; run the full pipeline first",
			r.Artifacts.Path(artifacts.SlotBuildOutput))
	}
	buildOutput, err := r.Artifacts.Load(artifacts.SlotBuildOutput)
	if err != nil {
		return err
	}

	manifest, err := extractManifest(buildOutput)
	if err != nil {
		return err
	}

	written, err := r.materialize(r.OutputRoot, manifest.ProjectSlug, manifest.Files)
	if err != nil {
		return fmt.Errorf("replay failed after writing %d files: %w", written, err)
	}
	if written == 0 {
		return fmt.Errorf("construction artifact contains no files to materialize")
	}
	fmt.Fprintf(r.Out, "Replayed manifest: %d files written under %s\n", written, r.OutputRoot)
	return nil
}

// runStage builds the task for one agent, executes it, and persists the raw
// output to the stage's artifact slot.
func (r *Runner) runStage(ctx context.Context, agentName, taskName string, data map[string]string, tools []agent.Tool, slot string) (string, error) {
	spec, err := prompts.Agent(agentName)
	if err != nil {
		return "", err
	}
	taskSpec, err := prompts.Task(taskName)
	if err != nil {
		return "", err
	}

	def := agent.Definition{
		Name:      agentName,
		Role:      spec.Role,
		Goal:      spec.Goal,
		Backstory: spec.Backstory,
		Tier:      agentTiers[agentName],
	}

	output, err := r.Executor.Execute(ctx, def, taskSpec.Render(data), tools)
	if err != nil {
		return "", err
	}

	if err := r.Artifacts.Save(slot, output); err != nil {
		return "", err
	}
	if r.Verbose {
		fmt.Fprintf(r.Out, "[VERBOSE] %s wrote %d chars to %s\n", agentName, len(output), slot)
	}
	return output, nil
}

// saveCandidates feeds the analytics sink with whatever the discovery tools
// fetched. Best effort: a ledger failure here never fails the run.
func (r *Runner) saveCandidates(ctx context.Context, led Ledger, runID int64) {
	var all []types.Candidate
	for _, tool := range r.Tools {
		if rec, ok := tool.(interface{ Candidates() []types.Candidate }); ok {
			all = append(all, rec.Candidates()...)
		}
	}
	if len(all) == 0 {
		return
	}
	if err := led.SaveCandidates(ctx, runID, all); err != nil {
		fmt.Fprintf(r.Out, "Warning: failed to save discovered candidates: %v\n", err)
	}
}

// selectionGate shows the ranked shortlist and blocks until the operator
// picks 1, 2, or 3.
func (r *Runner) selectionGate(ctx context.Context, ideas *types.RankedIdeas) (*types.RankedIdea, error) {
	r.Printer.PrintRankedIdeas(ideas)

	for {
		answer, err := r.Prompter.Ask(ctx, "Select an idea to build [1-3]: ")
		if err != nil {
			return nil, err
		}
		switch answer {
		case "1", "2", "3":
			rank := int(answer[0] - '0')
			return ideas.ByRank(rank)
		}
		fmt.Fprintf(r.Out, "Please answer 1, 2, or 3.\n")
	}
}

// approvalGate shows a bounded preview of the design document and blocks on
// a yes/no answer. A negative answer aborts the run before construction.
func (r *Runner) approvalGate(ctx context.Context, design string) error {
	preview := design
	if len(design) > approvalPreviewLimit {
		preview = design[:approvalPreviewLimit]
		fmt.Fprintf(r.Out, "\n%s\n... (%d more characters in %s)\n", preview,
			len(design)-approvalPreviewLimit, r.Artifacts.Path(artifacts.SlotDesignDoc))
	} else {
		fmt.Fprintf(r.Out, "\n%s\n", preview)
	}

	for {
		answer, err := r.Prompter.Ask(ctx, "Approve this design and build it? [yes/no]: ")
		if err != nil {
			return err
		}
		switch strings.ToLower(answer) {
		case "yes", "y":
			return nil
		case "no", "n":
			return ErrRejected
		}
		fmt.Fprintf(r.Out, "Please answer yes or no.\n")
	}
}

// materializeProject writes the scaffolded files and initializes a git repo
// in the project directory. Every failure here is a warning: the
// construction stage itself completed, and replay can redo the writing.
func (r *Runner) materializeProject(buildOutput string) {
	manifest, err := extractManifest(buildOutput)
	if err != nil {
		fmt.Fprintf(r.Out, "Warning: %v\n", err)
		fmt.Fprintf(r.Out, "The raw output is saved; fix it and run `trendforge replay` to retry materialization.\n")
		return
	}

	if raw, err := json.Marshal(manifest); err == nil {
		if err := schemas.Validate(schemas.BuildManifest, raw); err != nil {
			fmt.Fprintf(r.Out, "Warning: manifest shape is irregular: %v\n", err)
		}
	}

	written, err := r.materialize(r.OutputRoot, manifest.ProjectSlug, manifest.Files)
	if err != nil {
		fmt.Fprintf(r.Out, "Warning: project materialization failed after %d files: %v\n", written, err)
		return
	}
	if written == 0 {
		fmt.Fprintf(r.Out, "Warning: builder emitted no files; nothing materialized\n")
		return
	}

	slug := manifest.ProjectSlug
	if slug == "" {
		slug = "generated-project"
	}
	projectDir := filepath.Join(r.OutputRoot, slug)
	fmt.Fprintf(r.Out, "Materialized %d files under %s\n", written, projectDir)

	if err := r.initRepo(projectDir); err != nil {
		fmt.Fprintf(r.Out, "Warning: git init failed: %v\n", err)
	}
}

// parseRankedIdeas extracts and validates the evaluation stage's shortlist.
// Failure here is fatal for the run.
func parseRankedIdeas(output string) (*types.RankedIdeas, error) {
	if strings.TrimSpace(output) == "" {
		return nil, &ExtractionError{Stage: "evaluation", Empty: true}
	}

	raw, err := extract.Value(output)
	if err != nil {
		return nil, &ExtractionError{Stage: "evaluation", Cause: err}
	}
	if err := schemas.Validate(schemas.RankedIdeas, raw); err != nil {
		return nil, &ExtractionError{Stage: "evaluation", Cause: err}
	}

	var ideas types.RankedIdeas
	if err := json.Unmarshal(raw, &ideas); err != nil {
		return nil, &ExtractionError{Stage: "evaluation", Cause: err}
	}
	if err := ideas.Validate(); err != nil {
		return nil, &ExtractionError{Stage: "evaluation", Cause: err}
	}
	return &ideas, nil
}

// extractManifest pulls the build manifest out of raw construction output.
func extractManifest(buildOutput string) (*types.BuildManifest, error) {
	if strings.TrimSpace(buildOutput) == "" {
		return nil, &ExtractionError{Stage: "construction", Empty: true}
	}
	raw, err := extract.Value(buildOutput)
	if err != nil {
		return nil, &ExtractionError{Stage: "construction", Cause: err}
	}
	manifest, err := types.ParseBuildManifest(raw)
	if err != nil {
		return nil, &ExtractionError{Stage: "construction", Cause: err}
	}
	return manifest, nil
}

func topicHint(topic string) string {
	if topic == "" {
		return ""
	}
	return fmt.Sprintf("Focus on trends related to %q. ", topic)
}
