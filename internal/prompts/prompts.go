// Package prompts provides the externalized agent and task prompt templates.
// Templates are stored as JSON files and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed agents.json tasks.json
var promptFiles embed.FS

// AgentSpec holds the persona definition for one pipeline agent.
type AgentSpec struct {
	Role      string `json:"role"`
	Goal      string `json:"goal"`
	Backstory string `json:"backstory"`
}

// TaskSpec holds the task template for one pipeline stage.
type TaskSpec struct {
	Description    string `json:"description"`
	ExpectedOutput string `json:"expected_output"`
}

var (
	loadOnce sync.Once
	agents   map[string]AgentSpec
	tasks    map[string]TaskSpec
	loadErr  error
)

func load() {
	loadOnce.Do(func() {
		agentData, err := promptFiles.ReadFile("agents.json")
		if err != nil {
			loadErr = fmt.Errorf("failed to read agents.json: %w", err)
			return
		}
		if err := json.Unmarshal(agentData, &agents); err != nil {
			loadErr = fmt.Errorf("failed to parse agents.json: %w", err)
			return
		}

		taskData, err := promptFiles.ReadFile("tasks.json")
		if err != nil {
			loadErr = fmt.Errorf("failed to read tasks.json: %w", err)
			return
		}
		if err := json.Unmarshal(taskData, &tasks); err != nil {
			loadErr = fmt.Errorf("failed to parse tasks.json: %w", err)
		}
	})
}

// Agent retrieves an agent persona by name.
func Agent(name string) (AgentSpec, error) {
	load()
	if loadErr != nil {
		return AgentSpec{}, loadErr
	}
	spec, ok := agents[name]
	if !ok {
		return AgentSpec{}, fmt.Errorf("agent %q not found in agents.json", name)
	}
	return spec, nil
}

// Task retrieves a task template by name.
func Task(name string) (TaskSpec, error) {
	load()
	if loadErr != nil {
		return TaskSpec{}, loadErr
	}
	spec, ok := tasks[name]
	if !ok {
		return TaskSpec{}, fmt.Errorf("task %q not found in tasks.json", name)
	}
	return spec, nil
}

// Format replaces template placeholders in the form {{.Key}} with values
// from data.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		placeholder := fmt.Sprintf("{{.%s}}", key)
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

// Render builds the full task description for a stage: the formatted
// description plus the expected-output contract.
func (t TaskSpec) Render(data map[string]string) string {
	desc := Format(t.Description, data)
	if t.ExpectedOutput == "" {
		return desc
	}
	return desc + "\n\nExpected output:\n" + t.ExpectedOutput
}
