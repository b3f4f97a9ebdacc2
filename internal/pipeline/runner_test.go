package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/trendforge/internal/agent"
	"github.com/jonathan/trendforge/internal/artifacts"
	"github.com/jonathan/trendforge/internal/types"
)

const rankedIdeasJSON = `{
  "ideas": [
    {"rank": 1, "title": "Alpha", "pitch": "first", "feasibility": 8, "target_user": "devs"},
    {"rank": 2, "title": "Beta", "pitch": "second", "feasibility": 7, "target_user": "ops"},
    {"rank": 3, "title": "Gamma", "pitch": "third", "feasibility": 6, "target_user": "founders"}
  ]
}`

const buildOutputJSON = "Here is the project:\n```json\n" +
	`{"project_slug": "beta-app", "files": [
  {"path": "README.md", "content": "# Beta\n"},
  {"path": "cmd/main.go", "content": "package main\n"}
]}` + "\n```\nGood luck!"

// fakeExecutor returns canned output per agent and records invocations.
type fakeExecutor struct {
	outputs map[string]string
	calls   []string
}

func (f *fakeExecutor) Execute(_ context.Context, def agent.Definition, _ string, _ []agent.Tool) (string, error) {
	f.calls = append(f.calls, def.Name)
	out, ok := f.outputs[def.Name]
	if !ok {
		return "", fmt.Errorf("no canned output for agent %s", def.Name)
	}
	return out, nil
}

// fakePrompter replays a fixed sequence of operator answers.
type fakePrompter struct {
	answers []string
	asked   int
}

func (f *fakePrompter) Ask(_ context.Context, _ string) (string, error) {
	if f.asked >= len(f.answers) {
		return "", errors.New("prompter exhausted")
	}
	answer := f.answers[f.asked]
	f.asked++
	return answer, nil
}

// memLedger records ledger calls in memory.
type memLedger struct {
	started    int
	topic      string
	status     string
	errMsg     string
	candidates []types.Candidate
}

func (m *memLedger) Start(_ context.Context, topic string) (int64, error) {
	m.started++
	m.topic = topic
	return 42, nil
}

func (m *memLedger) Finish(_ context.Context, _ int64, status, errMsg string) error {
	m.status = status
	m.errMsg = errMsg
	return nil
}

func (m *memLedger) SaveCandidates(_ context.Context, _ int64, candidates []types.Candidate) error {
	m.candidates = append(m.candidates, candidates...)
	return nil
}

func (m *memLedger) Close() {}

// recordingTool implements agent.Tool and the candidate recorder the runner
// feeds the analytics sink from.
type recordingTool struct {
	name       string
	candidates []types.Candidate
}

func (r *recordingTool) Name() string { return r.name }

func (r *recordingTool) Gather(context.Context) (string, error) {
	payload, _ := json.Marshal(r.candidates)
	return string(payload), nil
}

func (r *recordingTool) Candidates() []types.Candidate { return r.candidates }

func newTestRunner(t *testing.T, exec *fakeExecutor, prompter Prompter, led Ledger) (*Runner, string) {
	t.Helper()
	storageDir := t.TempDir()
	outputDir := t.TempDir()

	runner := NewRunner(Runner{
		Executor:   exec,
		Artifacts:  artifacts.NewStore(storageDir),
		Ledger:     led,
		Prompter:   prompter,
		Out:        &bytes.Buffer{},
		OutputRoot: outputDir,
	})
	runner.initRepo = func(string) error { return nil }
	return runner, outputDir
}

func fullRunExecutor() *fakeExecutor {
	return &fakeExecutor{outputs: map[string]string{
		"scout":     `[{"title": "Local-first sync", "why_trending": "HN buzz", "sources": ["hackernews"]}]`,
		"critic":    "The shortlist:\n" + rankedIdeasJSON,
		"architect": "# Beta Design\n\nA small tool for ops teams.",
		"builder":   buildOutputJSON,
	}}
}

func TestRun_FullSuccess(t *testing.T) {
	exec := fullRunExecutor()
	led := &memLedger{}
	prompter := &fakePrompter{answers: []string{"2", "yes"}}
	runner, outputDir := newTestRunner(t, exec, prompter, led)

	err := runner.Run(context.Background(), "ai tools")
	require.NoError(t, err)

	assert.Equal(t, []string{"scout", "critic", "architect", "builder"}, exec.calls)
	assert.Equal(t, 1, led.started)
	assert.Equal(t, "ai tools", led.topic)
	assert.Equal(t, types.RunStatusSuccess, led.status)
	assert.Empty(t, led.errMsg)

	// The chosen idea artifact holds the operator's pick, verbatim.
	chosenText, err := runner.Artifacts.Load(artifacts.SlotWinningIdea)
	require.NoError(t, err)
	var chosen types.RankedIdea
	require.NoError(t, json.Unmarshal([]byte(chosenText), &chosen))
	assert.Equal(t, 2, chosen.Rank)
	assert.Equal(t, "Beta", chosen.Title)

	// Project files landed under the builder's slug.
	data, err := os.ReadFile(filepath.Join(outputDir, "beta-app", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Beta\n", string(data))
	assert.FileExists(t, filepath.Join(outputDir, "beta-app", "cmd", "main.go"))
}

func TestRun_SelectionGateRepromptsOnInvalidInput(t *testing.T) {
	exec := fullRunExecutor()
	prompter := &fakePrompter{answers: []string{"4", "first", "2", "y"}}
	runner, _ := newTestRunner(t, exec, prompter, &memLedger{})

	err := runner.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 4, prompter.asked)

	chosenText, err := runner.Artifacts.Load(artifacts.SlotWinningIdea)
	require.NoError(t, err)
	assert.Contains(t, chosenText, "Beta")
}

func TestRun_RejectionSkipsConstruction(t *testing.T) {
	exec := fullRunExecutor()
	led := &memLedger{}
	prompter := &fakePrompter{answers: []string{"1", "maybe", "no"}}
	runner, outputDir := newTestRunner(t, exec, prompter, led)

	err := runner.Run(context.Background(), "")
	require.ErrorIs(t, err, ErrRejected)

	assert.NotContains(t, exec.calls, "builder")
	assert.Equal(t, types.RunStatusError, led.status)
	assert.Equal(t, "aborted by user", led.errMsg)

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_UnparseableEvaluationIsFatal(t *testing.T) {
	exec := fullRunExecutor()
	exec.outputs["critic"] = "I could not decide on any ideas, sorry."
	led := &memLedger{}
	runner, _ := newTestRunner(t, exec, &fakePrompter{}, led)

	err := runner.Run(context.Background(), "")
	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "evaluation", extractionErr.Stage)
	assert.False(t, extractionErr.Empty)
	assert.Equal(t, types.RunStatusError, led.status)
}

func TestRun_EmptyEvaluationOutputIsDistinctDiagnostic(t *testing.T) {
	exec := fullRunExecutor()
	exec.outputs["critic"] = "   \n"
	runner, _ := newTestRunner(t, exec, &fakePrompter{}, &memLedger{})

	err := runner.Run(context.Background(), "")
	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.True(t, extractionErr.Empty)
	assert.Contains(t, err.Error(), "produced no output")
}

func TestRun_UnparseableManifestIsWarningNotFailure(t *testing.T) {
	exec := fullRunExecutor()
	exec.outputs["builder"] = "I wrote the code but forgot to include it."
	led := &memLedger{}
	prompter := &fakePrompter{answers: []string{"1", "yes"}}
	runner, outputDir := newTestRunner(t, exec, prompter, led)

	err := runner.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, types.RunStatusSuccess, led.status)

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_SavesDiscoveredCandidates(t *testing.T) {
	exec := fullRunExecutor()
	led := &memLedger{}
	prompter := &fakePrompter{answers: []string{"1", "yes"}}
	runner, _ := newTestRunner(t, exec, prompter, led)
	runner.Tools = []agent.Tool{&recordingTool{
		name: "hackernews",
		candidates: []types.Candidate{
			{Source: "hackernews", Title: "Show HN: thing", Score: 150},
		},
	}}

	err := runner.Run(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, led.candidates, 1)
	assert.Equal(t, "Show HN: thing", led.candidates[0].Title)
}

func TestPreview_NeverTouchesLedger(t *testing.T) {
	exec := fullRunExecutor()
	led := &memLedger{}
	runner, _ := newTestRunner(t, exec, &fakePrompter{}, led)

	err := runner.Preview(context.Background(), "databases")
	require.NoError(t, err)

	assert.Equal(t, []string{"scout"}, exec.calls)
	assert.Equal(t, 0, led.started)
	assert.Empty(t, led.status)
	assert.True(t, runner.Artifacts.Exists(artifacts.SlotTrendList))
}

func TestReplay_MaterializesFromSavedArtifact(t *testing.T) {
	runner, outputDir := newTestRunner(t, &fakeExecutor{}, &fakePrompter{}, &memLedger{})
	require.NoError(t, runner.Artifacts.Save(artifacts.SlotBuildOutput, buildOutputJSON))

	require.NoError(t, runner.Replay(context.Background()))
	assert.FileExists(t, filepath.Join(outputDir, "beta-app", "README.md"))

	// Replay is idempotent.
	require.NoError(t, runner.Replay(context.Background()))
	assert.FileExists(t, filepath.Join(outputDir, "beta-app", "cmd", "main.go"))
}

func TestReplay_MissingArtifactFails(t *testing.T) {
	runner, _ := newTestRunner(t, &fakeExecutor{}, &fakePrompter{}, &memLedger{})

	err := runner.Replay(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no construction artifact")
}

func TestReplay_UnparseableArtifactFails(t *testing.T) {
	runner, _ := newTestRunner(t, &fakeExecutor{}, &fakePrompter{}, &memLedger{})
	require.NoError(t, runner.Artifacts.Save(artifacts.SlotBuildOutput, "nothing structured here"))

	err := runner.Replay(context.Background())
	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "construction", extractionErr.Stage)
}

func TestRun_InterruptedPromptMarksLedger(t *testing.T) {
	exec := fullRunExecutor()
	led := &memLedger{}
	ctx, cancel := context.WithCancel(context.Background())
	runner, _ := newTestRunner(t, exec, NewStdinPrompter(blockingReader{ctx}, &bytes.Buffer{}), led)

	cancel()
	err := runner.Run(ctx, "")
	require.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, types.RunStatusError, led.status)
	assert.Equal(t, "interrupted", led.errMsg)
}

// blockingReader never yields data until its context is done.
type blockingReader struct {
	ctx context.Context
}

func (b blockingReader) Read([]byte) (int, error) {
	<-b.ctx.Done()
	return 0, b.ctx.Err()
}
