package domain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/optilabel/internal/adapter"
	adaptermocks "github.com/mouse-blink/optilabel/internal/adapter/mocks"
)

const answerWithCode = "We maximize profit.\n```python\nimport pulp\nprint('x = 4')\n```\nDone."

func TestExtractPythonCode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "single block", text: answerWithCode, want: "import pulp\nprint('x = 4')"},
		{name: "first of two blocks", text: "```python\na = 1\n```\n```python\nb = 2\n```", want: "a = 1"},
		{name: "no block", text: "no code here", want: ""},
		{name: "other language", text: "```go\nfmt.Println()\n```", want: ""},
		{name: "unterminated block", text: "```python\nprint(1)", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPythonCode(tt.text))
		})
	}
}

func TestSolver_ExecutesExtractedCode(t *testing.T) {
	llm := adaptermocks.NewMockLLM(t)
	llm.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.HasPrefix(prompt, "Task: ") && strings.Contains(prompt, "make chairs")
	})).Return(answerWithCode, nil)

	executor := adaptermocks.NewMockCodeExecutor(t)
	executor.On("Execute", mock.Anything, "import pulp\nprint('x = 4')").Return("x = 4\n", nil)

	result, err := NewSolver(llm, executor).Solve(context.Background(), "make chairs")

	require.NoError(t, err)
	assert.Equal(t, "make chairs", result.Prompt)
	assert.Equal(t, answerWithCode, result.Output)
	assert.True(t, result.Executed)
	assert.Equal(t, "x = 4\n", result.CodeOutput)
	assert.Equal(t, answerWithCode+"\n\n**Code Output:**\nx = 4\n", AssistantReply(result))
}

func TestSolver_ExecutionErrorBecomesText(t *testing.T) {
	llm := adaptermocks.NewMockLLM(t)
	llm.On("Generate", mock.Anything, mock.Anything).Return(answerWithCode, nil)

	executor := adaptermocks.NewMockCodeExecutor(t)
	executor.On("Execute", mock.Anything, mock.Anything).
		Return("partial\n", &adapter.ExecutionError{Message: "ModuleNotFoundError: No module named 'pulp'"})

	result, err := NewSolver(llm, executor).Solve(context.Background(), "make chairs")

	require.NoError(t, err)
	assert.True(t, result.Executed)
	assert.Equal(t, "partial\nError: ModuleNotFoundError: No module named 'pulp'\n", result.CodeOutput)
}

func TestSolver_PlainErrorFromExecutor(t *testing.T) {
	llm := adaptermocks.NewMockLLM(t)
	llm.On("Generate", mock.Anything, mock.Anything).Return(answerWithCode, nil)

	executor := adaptermocks.NewMockCodeExecutor(t)
	executor.On("Execute", mock.Anything, mock.Anything).Return("", errors.New("boom"))

	result, err := NewSolver(llm, executor).Solve(context.Background(), "make chairs")

	require.NoError(t, err)
	assert.Equal(t, "Error: boom\n", result.CodeOutput)
}

func TestSolver_NoCodeBlock(t *testing.T) {
	llm := adaptermocks.NewMockLLM(t)
	llm.On("Generate", mock.Anything, mock.Anything).Return("I need more details.", nil)

	executor := adaptermocks.NewMockCodeExecutor(t)

	result, err := NewSolver(llm, executor).Solve(context.Background(), "make chairs")

	require.NoError(t, err)
	assert.False(t, result.Executed)
	assert.Empty(t, result.Code)
	assert.Equal(t, "I need more details.", AssistantReply(result))
}

func TestSolver_WithoutExecution(t *testing.T) {
	llm := adaptermocks.NewMockLLM(t)
	llm.On("Generate", mock.Anything, mock.Anything).Return(answerWithCode, nil)

	executor := adaptermocks.NewMockCodeExecutor(t)

	result, err := NewSolver(llm, executor).Solve(context.Background(), "make chairs", WithoutExecution())

	require.NoError(t, err)
	assert.False(t, result.Executed)
	assert.NotEmpty(t, result.Code)
}

func TestSolver_ModelErrorPropagates(t *testing.T) {
	llm := adaptermocks.NewMockLLM(t)
	llm.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	_, err := NewSolver(llm, nil).Solve(context.Background(), "make chairs")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "solving request failed")
}

func TestSolver_EmptyProblem(t *testing.T) {
	_, err := NewSolver(adaptermocks.NewMockLLM(t), nil).Solve(context.Background(), "  ")

	assert.ErrorIs(t, err, ErrEmptyInput)
}

type streamingLLM struct {
	chunks []string
}

func (s *streamingLLM) Generate(context.Context, string) (string, error) {
	return strings.Join(s.chunks, ""), nil
}

func (s *streamingLLM) GenerateStream(_ context.Context, _ string, fn adapter.StreamFunc) (string, error) {
	for _, chunk := range s.chunks {
		if err := fn(chunk); err != nil {
			return "", err
		}
	}

	return strings.Join(s.chunks, ""), nil
}

func (s *streamingLLM) Provider() string { return "ollama" }

func (s *streamingLLM) Model() string { return "qwen3:8b" }

func TestSolver_StreamsChunks(t *testing.T) {
	llm := &streamingLLM{chunks: []string{"no ", "code ", "today"}}

	var got []string

	result, err := NewSolver(llm, nil).Solve(context.Background(), "make chairs", WithStream(func(chunk string) error {
		got = append(got, chunk)
		return nil
	}))

	require.NoError(t, err)
	assert.Equal(t, []string{"no ", "code ", "today"}, got)
	assert.Equal(t, "no code today", result.Output)
	assert.True(t, result.Streamed)
}

func TestSolver_StreamingLLMWithoutSinkIsNotStreamed(t *testing.T) {
	llm := &streamingLLM{chunks: []string{"plain"}}

	result, err := NewSolver(llm, nil).Solve(context.Background(), "make chairs")

	require.NoError(t, err)
	assert.Equal(t, "plain", result.Output)
	assert.False(t, result.Streamed)
}
