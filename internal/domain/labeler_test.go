package domain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adaptermocks "github.com/mouse-blink/optilabel/internal/adapter/mocks"
	m "github.com/mouse-blink/optilabel/internal/model"
)

const testReference = "A\t_\t_\tO\nfactory\t_\t_\tB-VAR\nmakes\t_\t_\tO\nchairs\t_\t_\tB-VAR"

var fixedTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestLLM(t *testing.T) *adaptermocks.MockLLM {
	llm := adaptermocks.NewMockLLM(t)
	llm.On("Provider").Return("googleai").Maybe()
	llm.On("Model").Return("gemini-1.5-flash").Maybe()

	return llm
}

func TestLabeler_WithReference(t *testing.T) {
	llm := newTestLLM(t)
	llm.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "A\nfactory\nmakes\nchairs") &&
			strings.Contains(prompt, testReference) &&
			strings.Contains(prompt, "Each\ntable\ncosts\n$\n5\n.")
	})).Return("\nEach _ _ O\ntable _ _ B-VAR\ncosts _ _ O\n$ _ _ O\n5 _ _ B-PARAM\n. _ _ O\n", nil)

	labeler := NewLabeler(llm, "  "+testReference+"\n", WithClock(func() time.Time { return fixedTime }))
	result, err := labeler.Label(context.Background(), "Each table costs $5.", m.ModeAuto)

	require.NoError(t, err)
	assert.True(t, result.HasReference)
	assert.Equal(t, "Each _ _ O\ntable _ _ B-VAR\ncosts _ _ O\n$ _ _ O\n5 _ _ B-PARAM\n. _ _ O", result.LabeledText)
	assert.Equal(t, "Each\ntable\ncosts\n$\n5\n.", result.TokenizedInput)
	assert.Equal(t, "Each table costs $5.", result.InputText)
	assert.InDelta(t, 100*2.0/3.0, result.Accuracy.MatchPercentage, 1e-9)
	assert.Equal(t, []string{"B-VAR", "O"}, result.Accuracy.CommonWords)
	assert.Equal(t, []string{"B-PARAM"}, result.Accuracy.MissingInText1)
	assert.Empty(t, result.Accuracy.MissingInText2)
	assert.Nil(t, result.Positional)
	assert.Equal(t, "googleai", result.Provider)
	assert.Equal(t, fixedTime, result.CreatedAt)
}

func TestLabeler_WithoutReferenceUsesDummyLabels(t *testing.T) {
	llm := newTestLLM(t)
	llm.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "x\t_\t_\tO\ny\t_\t_\tO")
	})).Return("x _ _ B-VAR\ny _ _ B-VAR", nil)

	labeler := NewLabeler(llm, "")
	result, err := labeler.Label(context.Background(), "x y", m.ModeRaw)

	require.NoError(t, err)
	assert.False(t, result.HasReference)
	assert.Equal(t, "x _ _ B-VAR\ny _ _ B-VAR", result.LabeledText)
	assert.Zero(t, result.Accuracy.MatchPercentage)
	assert.Empty(t, result.Accuracy.CommonWords)
	assert.NotNil(t, result.Accuracy.CommonWords)
	assert.Empty(t, result.Accuracy.MissingInText1)
	assert.Empty(t, result.Accuracy.MissingInText2)
}

func TestLabeler_TaggedInputLeavesRowScoringToCaller(t *testing.T) {
	llm := newTestLLM(t)
	llm.On("Generate", mock.Anything, mock.Anything).
		Return("A _ _ O\nfactory _ _ B-VAR\nmakes _ _ B-VAR\nchairs _ _ B-VAR", nil)

	result, err := NewLabeler(llm, testReference).Label(context.Background(), testReference, m.ModeAuto)

	require.NoError(t, err)
	assert.Nil(t, result.Positional)
	assert.Equal(t, "A\nfactory\nmakes\nchairs", result.TokenizedInput)
}

func TestLabeler_FlagsUnknownLabels(t *testing.T) {
	llm := newTestLLM(t)
	llm.On("Generate", mock.Anything, mock.Anything).
		Return("A _ _ O\nfactory _ _ B-VARIABLE\nmakes _ _ I-OBJ_DIR\nchairs _ _ B-VARIABLE", nil)

	result, err := NewLabeler(llm, testReference).Label(context.Background(), testReference, m.ModeAuto)

	require.NoError(t, err)
	assert.Equal(t, []string{"B-VARIABLE", "I-OBJ_DIR"}, result.UnknownLabels)
}

func TestUnknownLabels(t *testing.T) {
	tests := []struct {
		name    string
		labeled string
		want    []string
	}{
		{name: "all known", labeled: "a _ _ O\nb _ _ B-VAR\nc _ _ I-LIMIT\nd _ _ B-OBJ_DIR", want: nil},
		{name: "unknown prefix", labeled: "a _ _ X-VAR", want: []string{"X-VAR"}},
		{name: "duplicates collapse", labeled: "a _ _ FOO\nb _ _ FOO\nc _ _ BAR", want: []string{"BAR", "FOO"}},
		{name: "empty", labeled: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnknownLabels(tt.labeled))
		})
	}
}

func TestLabeler_PropagatesModelErrors(t *testing.T) {
	llm := adaptermocks.NewMockLLM(t)
	llm.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

	_, err := NewLabeler(llm, testReference).Label(context.Background(), "maximize profit", m.ModeAuto)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "labeling request failed")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestLabeler_EmptyInput(t *testing.T) {
	llm := adaptermocks.NewMockLLM(t)

	_, err := NewLabeler(llm, "").Label(context.Background(), " \n\t ", m.ModeAuto)

	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestTokenizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		mode  m.InputMode
		want  string
	}{
		{name: "auto without tab tokenizes", input: "max x, y", mode: m.ModeAuto, want: "max\nx\n,\ny"},
		{name: "auto with tab takes first column", input: "max\tO\nx\tB-VAR", mode: m.ModeAuto, want: "max\nx"},
		{name: "empty mode behaves like auto", input: "a\tO", mode: "", want: "a"},
		{name: "raw ignores tabs", input: "a\tO", mode: m.ModeRaw, want: "a\nO"},
		{name: "tokenized without tabs", input: "a _ _ O\nb _ _ O", mode: m.ModeTokenized, want: "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenizeInput(tt.input, tt.mode))
		})
	}
}

func TestDummyLabels(t *testing.T) {
	assert.Equal(t, "x\t_\t_\tO\ny\t_\t_\tO", DummyLabels("x\ny"))
}
