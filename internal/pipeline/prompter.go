package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Prompter blocks on one line of operator input. Gate prompts have no
// timeout; the pipeline waits indefinitely unless the context is canceled.
type Prompter interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// StdinPrompter reads operator answers from a single input stream.
type StdinPrompter struct {
	out    io.Writer
	reader *bufio.Reader
}

// NewStdinPrompter creates a prompter reading from in and echoing prompts
// to out.
func NewStdinPrompter(in io.Reader, out io.Writer) *StdinPrompter {
	return &StdinPrompter{out: out, reader: bufio.NewReader(in)}
}

type readResult struct {
	line string
	err  error
}

// Ask prints the prompt and blocks until a line arrives or the context is
// canceled. Cancellation and a closed input stream both surface as
// ErrInterrupted so the top level can print a clean message instead of a
// stack trace.
func (p *StdinPrompter) Ask(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	ch := make(chan readResult, 1)
	go func() {
		line, err := p.reader.ReadString('\n')
		ch <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInterrupted
	case res := <-ch:
		line := strings.TrimSpace(res.line)
		if res.err != nil && line == "" {
			return "", fmt.Errorf("input stream closed: %w", ErrInterrupted)
		}
		return line, nil
	}
}
