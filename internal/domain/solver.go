package domain

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mouse-blink/optilabel/internal/adapter"
	m "github.com/mouse-blink/optilabel/internal/model"
)

var pythonBlockRe = regexp.MustCompile("(?s)```python\n(.*?)\n```")

// ExtractPythonCode returns the body of the first ```python fenced block, or
// an empty string when there is none.
func ExtractPythonCode(text string) string {
	match := pythonBlockRe.FindStringSubmatch(text)
	if match == nil {
		return ""
	}

	return match[1]
}

// Solver turns a problem description into solver code and runs it.
type Solver interface {
	Solve(ctx context.Context, problem string, opts ...SolveOption) (m.SolveResult, error)
}

// SolveOption configures a single Solve call.
type SolveOption func(*solveConfig)

type solveConfig struct {
	execute bool
	stream  adapter.StreamFunc
}

// WithoutExecution skips running the extracted code.
func WithoutExecution() SolveOption {
	return func(c *solveConfig) {
		c.execute = false
	}
}

// WithStream forwards partial model output to fn when the backend streams.
func WithStream(fn adapter.StreamFunc) SolveOption {
	return func(c *solveConfig) {
		c.stream = fn
	}
}

type solver struct {
	llm      adapter.LLM
	executor adapter.CodeExecutor
}

// NewSolver constructs a Solver.
func NewSolver(llm adapter.LLM, executor adapter.CodeExecutor) Solver {
	return &solver{llm: llm, executor: executor}
}

func (s *solver) Solve(ctx context.Context, problem string, opts ...SolveOption) (m.SolveResult, error) {
	if strings.TrimSpace(problem) == "" {
		return m.SolveResult{}, ErrEmptyInput
	}

	cfg := solveConfig{execute: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	output, streamed, err := s.generate(ctx, BuildSolvingPrompt(problem), cfg.stream)
	if err != nil {
		return m.SolveResult{}, fmt.Errorf("solving request failed: %w", err)
	}

	result := m.SolveResult{
		Prompt:   problem,
		Output:   output,
		Code:     ExtractPythonCode(output),
		Streamed: streamed,
	}

	if result.Code == "" || !cfg.execute || s.executor == nil {
		return result, nil
	}

	result.CodeOutput = s.execute(ctx, result.Code)
	result.Executed = true

	return result, nil
}

// generate reports whether the answer went through the stream sink.
func (s *solver) generate(ctx context.Context, prompt string, stream adapter.StreamFunc) (string, bool, error) {
	if streaming, ok := s.llm.(adapter.StreamingLLM); ok && stream != nil {
		output, err := streaming.GenerateStream(ctx, prompt, stream)
		return output, true, err
	}

	output, err := s.llm.Generate(ctx, prompt)

	return output, false, err
}

// execute never fails: errors become an "Error: ..." line after whatever the
// code printed before failing.
func (s *solver) execute(ctx context.Context, code string) string {
	output, err := s.executor.Execute(ctx, code)
	if err == nil {
		return output
	}

	message := err.Error()

	var execErr *adapter.ExecutionError
	if errors.As(err, &execErr) {
		message = execErr.Message
	}

	return output + "Error: " + message + "\n"
}

// AssistantReply formats a solve result the way the chat transcript shows it.
func AssistantReply(result m.SolveResult) string {
	if !result.Executed {
		return result.Output
	}

	return fmt.Sprintf("%s\n\n**Code Output:**\n%s", result.Output, result.CodeOutput)
}
