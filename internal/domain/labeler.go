package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mouse-blink/optilabel/internal/adapter"
	m "github.com/mouse-blink/optilabel/internal/model"
)

// ErrEmptyInput reports a labeling request with nothing to label.
var ErrEmptyInput = errors.New("empty input")

// Labeler asks a model to tag every word of a problem description and scores
// the answer against the reference labels.
type Labeler interface {
	Label(ctx context.Context, input string, mode m.InputMode) (m.LabelingResult, error)
	// Reference returns the reference labels loaded at construction.
	Reference() string
}

// LabelerOption configures a Labeler.
type LabelerOption func(*labeler)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) LabelerOption {
	return func(l *labeler) {
		l.now = now
	}
}

type labeler struct {
	llm       adapter.LLM
	reference string
	now       func() time.Time
}

// NewLabeler constructs a Labeler. An empty reference switches to dummy
// example labels and zeroed accuracy.
func NewLabeler(llm adapter.LLM, reference string, opts ...LabelerOption) Labeler {
	l := &labeler{
		llm:       llm,
		reference: strings.TrimSpace(reference),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *labeler) Reference() string {
	return l.reference
}

func (l *labeler) Label(ctx context.Context, input string, mode m.InputMode) (m.LabelingResult, error) {
	tokenized := TokenizeInput(input, mode)
	if strings.TrimSpace(tokenized) == "" {
		return m.LabelingResult{}, ErrEmptyInput
	}

	example, reply := l.exampleAndReply(tokenized)

	prompt, err := BuildClassificationPrompt(example, reply, tokenized)
	if err != nil {
		return m.LabelingResult{}, err
	}

	generated, err := l.llm.Generate(ctx, prompt)
	if err != nil {
		return m.LabelingResult{}, fmt.Errorf("labeling request failed: %w", err)
	}

	result := m.LabelingResult{
		LabeledText:    strings.TrimSpace(generated),
		Accuracy:       emptySetComparison(),
		InputText:      input,
		TokenizedInput: tokenized,
		HasReference:   l.reference != "",
		Provider:       l.llm.Provider(),
		Model:          l.llm.Model(),
		CreatedAt:      l.now(),
	}

	result.UnknownLabels = UnknownLabels(result.LabeledText)
	if len(result.UnknownLabels) > 0 {
		slog.Warn("model returned tags outside the label set", "labels", result.UnknownLabels)
	}

	if !result.HasReference {
		return result, nil
	}

	result.Accuracy, err = CompareIgnorePosition(l.reference, result.LabeledText)
	if err != nil {
		return m.LabelingResult{}, fmt.Errorf("failed to score labels: %w", err)
	}

	return result, nil
}

func (l *labeler) exampleAndReply(tokenized string) (string, string) {
	if l.reference != "" {
		return ExtractFirstColumn(l.reference), l.reference
	}

	return tokenized, DummyLabels(tokenized)
}

// TokenizeInput turns input into one token per line. ModeAuto treats input
// containing a tab as an already tagged text and keeps its first column.
func TokenizeInput(input string, mode m.InputMode) string {
	if mode == m.ModeAuto || mode == "" {
		mode = m.ModeRaw
		if strings.Contains(input, "\t") {
			mode = m.ModeTokenized
		}
	}

	if mode == m.ModeTokenized {
		return ExtractFirstColumn(input)
	}

	return Tokenize(input)
}

// UnknownLabels returns the sorted distinct last-column tags of labeled that
// belong to no label family.
func UnknownLabels(labeled string) []string {
	tags, err := ExtractLastWords(ExtractRows(labeled))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	for _, tag := range tags {
		if _, ok := m.Family(tag); !ok {
			seen[tag] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil
	}

	unknown := make([]string, 0, len(seen))
	for tag := range seen {
		unknown = append(unknown, tag)
	}

	sort.Strings(unknown)

	return unknown
}

// DummyLabels pairs every token line with placeholder columns and label O.
func DummyLabels(tokenized string) string {
	lines := strings.Split(strings.TrimSpace(tokenized), "\n")
	for i, line := range lines {
		lines[i] = line + "\t_\t_\t" + string(m.LabelOutside)
	}

	return strings.Join(lines, "\n")
}

func emptySetComparison() m.SetComparison {
	return m.SetComparison{
		CommonWords:    []string{},
		MissingInText1: []string{},
		MissingInText2: []string{},
	}
}
