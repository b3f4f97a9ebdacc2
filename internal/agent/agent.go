// Package agent provides the executor that turns an agent definition and a
// task description into one LLM call. Tool output is gathered up front and
// embedded in the prompt, so the orchestrator can treat Execute as an atomic
// black box.
package agent

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/trendforge/internal/llm"
)

// Definition describes one agent: who it is, what it is for, and which model
// tier backs it.
type Definition struct {
	Name      string
	Role      string
	Goal      string
	Backstory string
	Tier      llm.ModelTier
}

// Tool is a capability an agent may draw on before its LLM call. Gather
// returns a textual payload (usually JSON) to embed in the prompt. Tools are
// expected to degrade internally and return marker payloads instead of
// errors; a returned error is embedded as text rather than aborting the run.
type Tool interface {
	Name() string
	Gather(ctx context.Context) (string, error)
}

// Executor produces free-text output for a task given an agent definition.
type Executor interface {
	Execute(ctx context.Context, def Definition, task string, tools []Tool) (string, error)
}

// LLMExecutor implements Executor on top of an llm.Client.
type LLMExecutor struct {
	client llm.Client
}

// NewLLMExecutor creates an executor backed by the given client.
func NewLLMExecutor(client llm.Client) *LLMExecutor {
	return &LLMExecutor{client: client}
}

// Execute gathers tool output, builds the prompt, and makes one generation
// call on the definition's model tier.
func (e *LLMExecutor) Execute(ctx context.Context, def Definition, task string, tools []Tool) (string, error) {
	toolOutputs, err := gatherTools(ctx, tools)
	if err != nil {
		return "", err
	}

	prompt := BuildPrompt(def, task, toolOutputs)

	output, err := e.client.GenerateContent(ctx, prompt, def.Tier)
	if err != nil {
		return "", fmt.Errorf("agent %s failed: %w", def.Name, err)
	}
	return output, nil
}

// ToolOutput pairs a tool name with its gathered payload.
type ToolOutput struct {
	Name    string
	Payload string
}

// gatherTools runs every tool concurrently and collects outputs in tool
// order. Tool errors are converted into textual payloads; only context
// cancellation aborts the gather.
func gatherTools(ctx context.Context, tools []Tool) ([]ToolOutput, error) {
	if len(tools) == 0 {
		return nil, nil
	}

	outputs := make([]ToolOutput, len(tools))
	g, gCtx := errgroup.WithContext(ctx)

	for i, tool := range tools {
		g.Go(func() error {
			payload, err := tool.Gather(gCtx)
			if err != nil {
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				payload = fmt.Sprintf("ERROR: %v", err)
			}
			outputs[i] = ToolOutput{Name: tool.Name(), Payload: payload}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// BuildPrompt assembles the single-turn prompt for an agent invocation.
func BuildPrompt(def Definition, task string, toolOutputs []ToolOutput) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are %s.\n", def.Role))
	sb.WriteString(fmt.Sprintf("Your goal: %s\n", def.Goal))
	if def.Backstory != "" {
		sb.WriteString(fmt.Sprintf("Background: %s\n", def.Backstory))
	}

	if len(toolOutputs) > 0 {
		sb.WriteString("\nData gathered from your research tools:\n")
		for _, out := range toolOutputs {
			sb.WriteString(fmt.Sprintf("\n### %s\n%s\n", out.Name, out.Payload))
		}
	}

	sb.WriteString("\nYour task:\n")
	sb.WriteString(task)
	sb.WriteString("\n")

	return sb.String()
}
