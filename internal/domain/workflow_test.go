package domain_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/optilabel/internal/adapter"
	adaptermocks "github.com/mouse-blink/optilabel/internal/adapter/mocks"
	"github.com/mouse-blink/optilabel/internal/controller"
	controllermocks "github.com/mouse-blink/optilabel/internal/controller/mocks"
	"github.com/mouse-blink/optilabel/internal/domain"
	domainmocks "github.com/mouse-blink/optilabel/internal/domain/mocks"
	m "github.com/mouse-blink/optilabel/internal/model"
)

type workflowFixture struct {
	labeler *domainmocks.MockLabeler
	solver  *domainmocks.MockSolver
	ui      *controllermocks.MockUI
	counter *adaptermocks.MockCounterStore
	history *adaptermocks.MockHistoryStore
	reports *adaptermocks.MockReportStore
}

func newFixture(t *testing.T) *workflowFixture {
	return &workflowFixture{
		labeler: domainmocks.NewMockLabeler(t),
		solver:  domainmocks.NewMockSolver(t),
		ui:      controllermocks.NewMockUI(t),
		counter: adaptermocks.NewMockCounterStore(t),
		history: adaptermocks.NewMockHistoryStore(t),
		reports: adaptermocks.NewMockReportStore(t),
	}
}

func (f *workflowFixture) workflow() domain.Workflow {
	return domain.NewWorkflow(adapter.NewLocalTextFSAdapter(), f.labeler, f.solver, f.ui,
		domain.WithCounter(f.counter),
		domain.WithHistory(f.history),
		domain.WithReportStore(f.reports),
	)
}

func labeled(input string) m.LabelingResult {
	return m.LabelingResult{InputText: input, LabeledText: input + " _ _ O", HasReference: true}
}

func TestWorkflow_LabelDisplaysInInputOrder(t *testing.T) {
	f := newFixture(t)

	dir := t.TempDir()
	file := filepath.Join(dir, "problem.txt")
	require.NoError(t, os.WriteFile(file, []byte("third"), 0o600))

	for _, input := range []string{"first", "second", "third"} {
		f.labeler.On("Label", mock.Anything, input, m.ModeRaw).Return(labeled(input), nil).Once()
		f.history.On("SaveRun", mock.Anything, "", labeled(input)).Return(nil).Once()
	}

	var order []string

	f.ui.On("DisplayLabeling", mock.Anything).Run(func(args mock.Arguments) {
		order = append(order, args.Get(0).(m.LabelingResult).InputText)
	}).Return(nil).Times(3)

	err := f.workflow().Label(context.Background(), domain.LabelArgs{
		Texts:    []string{"first", "second"},
		Files:    []m.Path{m.Path(file)},
		Mode:     m.ModeRaw,
		Parallel: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestWorkflow_LabelWithoutInputLabelsReference(t *testing.T) {
	f := newFixture(t)

	f.labeler.On("Reference").Return("a\t_\t_\tO")
	f.labeler.On("Label", mock.Anything, "a\t_\t_\tO", m.ModeAuto).Return(labeled("a"), nil)
	f.history.On("SaveRun", mock.Anything, "", mock.Anything).Return(nil)
	f.ui.On("DisplayLabeling", labeled("a")).Return(nil)

	err := f.workflow().Label(context.Background(), domain.LabelArgs{Mode: m.ModeAuto})

	require.NoError(t, err)
}

func TestWorkflow_LabelWithoutInputOrReference(t *testing.T) {
	f := newFixture(t)
	f.labeler.On("Reference").Return("")

	err := f.workflow().Label(context.Background(), domain.LabelArgs{})

	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestWorkflow_LabelPositionalAndSave(t *testing.T) {
	f := newFixture(t)

	reference := "a _ _ O\nb _ _ B-VAR"
	result := m.LabelingResult{InputText: "a b", LabeledText: "a _ _ O\nb _ _ O", HasReference: true}

	f.labeler.On("Reference").Return(reference)
	f.labeler.On("Label", mock.Anything, "a b", m.ModeAuto).Return(result, nil)
	f.history.On("SaveRun", mock.Anything, "", mock.Anything).Return(nil)
	f.ui.On("DisplayLabeling", mock.MatchedBy(func(r m.LabelingResult) bool {
		return r.Positional != nil && r.Positional.MatchPercentage == 50 && len(r.Positional.NonMatchingRows) == 1
	})).Return(nil)
	f.reports.On("SaveReport", m.Path("reports"), mock.Anything).Return(m.Path("reports/abc.yaml"), nil)
	f.ui.On("DisplaySaved", m.Path("reports/abc.yaml")).Return()
	f.reports.On("RegenerateIndex", m.Path("reports")).Return(nil)

	err := f.workflow().Label(context.Background(), domain.LabelArgs{
		Texts:      []string{"a b"},
		Positional: true,
		Save:       true,
		Reports:    "reports",
	})

	require.NoError(t, err)
}

func TestWorkflow_LabelStopsOnModelError(t *testing.T) {
	f := newFixture(t)
	f.labeler.On("Label", mock.Anything, "x", m.ModeAuto).Return(m.LabelingResult{}, errors.New("rate limited"))

	err := f.workflow().Label(context.Background(), domain.LabelArgs{Texts: []string{"x"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "input 1")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestWorkflow_LabelMissingFile(t *testing.T) {
	f := newFixture(t)

	err := f.workflow().Label(context.Background(), domain.LabelArgs{
		Files: []m.Path{m.Path(filepath.Join(t.TempDir(), "missing.txt"))},
	})

	var loadErr *adapter.FileLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWorkflow_SolveIncrementsCounterAndLabels(t *testing.T) {
	f := newFixture(t)

	solved := m.SolveResult{Prompt: "make chairs", Output: "done"}
	labeling := labeled("make chairs")

	f.solver.On("Solve", mock.Anything, "make chairs", 0).Return(solved, nil)
	f.ui.On("DisplaySolution", solved).Return(nil)
	f.counter.On("Get", mock.Anything).Return(4, nil)
	f.counter.On("Set", mock.Anything, 5).Return(nil)
	f.labeler.On("Label", mock.Anything, "make chairs", m.ModeAuto).Return(labeling, nil)
	f.history.On("SaveRun", mock.Anything, "", labeling).Return(nil)
	f.ui.On("DisplayLabeling", labeling).Return(nil)

	err := f.workflow().Solve(context.Background(), domain.SolveArgs{Prompt: "make chairs"})

	require.NoError(t, err)
}

func TestWorkflow_SolveOptions(t *testing.T) {
	f := newFixture(t)

	solved := m.SolveResult{Prompt: "p"}

	f.solver.On("Solve", mock.Anything, "p", 2).Return(solved, nil)
	f.ui.On("DisplaySolution", solved).Return(nil)
	f.counter.On("Get", mock.Anything).Return(0, nil)
	f.counter.On("Set", mock.Anything, 1).Return(nil)

	err := f.workflow().Solve(context.Background(), domain.SolveArgs{Prompt: "p", NoExec: true, Stream: true, NoLabel: true})

	require.NoError(t, err)
}

func TestWorkflow_SolveError(t *testing.T) {
	f := newFixture(t)
	f.solver.On("Solve", mock.Anything, "p", 0).Return(m.SolveResult{}, errors.New("ollama down"))

	err := f.workflow().Solve(context.Background(), domain.SolveArgs{Prompt: "p"})

	assert.EqualError(t, err, "ollama down")
}

func TestWorkflow_Compare(t *testing.T) {
	dir := t.TempDir()
	reference := filepath.Join(dir, "reference.txt")
	generated := filepath.Join(dir, "generated.txt")
	require.NoError(t, os.WriteFile(reference, []byte("a _ _ O\nb _ _ B-VAR\n"), 0o600))
	require.NoError(t, os.WriteFile(generated, []byte("b _ _ B-VAR\na _ _ O\nc _ _ B-LIMIT\n"), 0o600))

	t.Run("set comparison", func(t *testing.T) {
		f := newFixture(t)
		f.ui.On("DisplaySetComparison", mock.MatchedBy(func(cmp m.SetComparison) bool {
			return len(cmp.CommonWords) == 2 && len(cmp.MissingInText1) == 1 && cmp.MissingInText1[0] == "B-LIMIT"
		})).Return(nil)

		err := f.workflow().Compare(context.Background(), domain.CompareArgs{
			Reference: m.Path(reference),
			Generated: m.Path(generated),
		})
		require.NoError(t, err)
	})

	t.Run("positional comparison", func(t *testing.T) {
		f := newFixture(t)
		f.ui.On("DisplayPositionalComparison", mock.MatchedBy(func(cmp m.PositionalComparison) bool {
			return cmp.MatchPercentage == 0 && len(cmp.NonMatchingRows) == 2 &&
				len(cmp.MissingInText1) == 1 && cmp.MissingInText1[0] == "c _ _ B-LIMIT"
		})).Return(nil)

		err := f.workflow().Compare(context.Background(), domain.CompareArgs{
			Reference:  m.Path(reference),
			Generated:  m.Path(generated),
			Positional: true,
		})
		require.NoError(t, err)
	})
}

func TestWorkflow_CountAndReset(t *testing.T) {
	f := newFixture(t)
	f.counter.On("Get", mock.Anything).Return(7, nil)
	f.ui.On("DisplayCount", 7).Return(nil)
	f.counter.On("Set", mock.Anything, 0).Return(nil)
	f.ui.On("DisplayCount", 0).Return(nil)

	wf := f.workflow()

	require.NoError(t, wf.Count(context.Background()))
	require.NoError(t, wf.ResetCount(context.Background()))
}

func TestWorkflow_History(t *testing.T) {
	messages := []m.ChatMessage{{Role: m.RoleUser, Content: "hi"}}
	runs := []m.LabelingRun{{ID: 1, Provider: "googleai"}}

	tests := []struct {
		name  string
		args  domain.HistoryArgs
		setup func(f *workflowFixture)
	}{
		{
			name: "sessions",
			setup: func(f *workflowFixture) {
				f.history.On("Sessions", mock.Anything).Return([]string{"s1"}, nil)
				f.ui.On("DisplaySessions", []string{"s1"}).Return(nil)
			},
		},
		{
			name: "transcript",
			args: domain.HistoryArgs{SessionID: "s1"},
			setup: func(f *workflowFixture) {
				f.history.On("Messages", mock.Anything, "s1").Return(messages, nil)
				f.ui.On("DisplayTranscript", "s1", messages).Return(nil)
			},
		},
		{
			name: "runs",
			args: domain.HistoryArgs{Runs: true, Limit: 5},
			setup: func(f *workflowFixture) {
				f.history.On("Runs", mock.Anything, 5).Return(runs, nil)
				f.ui.On("DisplayRuns", runs).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			require.NoError(t, f.workflow().History(context.Background(), tt.args))
		})
	}
}

func TestWorkflow_Tokenize(t *testing.T) {
	f := newFixture(t)
	f.ui.On("DisplayTokens", []string{"max", "x", ",", "min", "y"}).Return(nil)

	err := f.workflow().Tokenize(context.Background(), domain.TokenizeArgs{Texts: []string{"max x,", "min y"}})

	require.NoError(t, err)
}

func TestWorkflow_ChatTurn(t *testing.T) {
	f := newFixture(t)

	solved := m.SolveResult{Prompt: "p", Output: "answer"}
	labeling := labeled("p")

	var assistant controller.Assistant

	f.ui.On("StartChat", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		assistant = args.Get(1).(controller.Assistant)
	}).Return(nil)

	require.NoError(t, f.workflow().Chat(context.Background(), domain.ChatArgs{}))
	require.NotNil(t, assistant)

	f.history.On("SaveMessage", mock.Anything, mock.Anything, m.ChatMessage{Role: m.RoleUser, Content: "p"}).Return(nil)
	f.history.On("SaveMessage", mock.Anything, mock.Anything, m.ChatMessage{Role: m.RoleAssistant, Content: "answer"}).Return(nil)
	f.solver.On("Solve", mock.Anything, "p", 0).Return(solved, nil)
	f.counter.On("Get", mock.Anything).Return(0, nil)
	f.counter.On("Set", mock.Anything, 1).Return(nil)
	f.labeler.On("Label", mock.Anything, "p", m.ModeAuto).Return(labeling, nil)
	f.history.On("SaveRun", mock.Anything, mock.Anything, labeling).Return(nil)

	turn, err := assistant.Turn(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, "answer", turn.Reply)
	require.NotNil(t, turn.Labeling)
	assert.Equal(t, labeling, *turn.Labeling)
}

func TestWorkflow_ChatTurnSurvivesLabelingFailure(t *testing.T) {
	f := newFixture(t)

	var assistant controller.Assistant

	f.ui.On("StartChat", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		assistant = args.Get(1).(controller.Assistant)
	}).Return(nil)
	f.history.On("Messages", mock.Anything, "known").Return([]m.ChatMessage{}, nil)

	require.NoError(t, f.workflow().Chat(context.Background(), domain.ChatArgs{SessionID: "known"}))

	f.history.On("SaveMessage", mock.Anything, "known", mock.Anything).Return(nil)
	f.solver.On("Solve", mock.Anything, "p", 0).Return(m.SolveResult{Output: "answer"}, nil)
	f.counter.On("Get", mock.Anything).Return(0, errors.New("disk full"))
	f.labeler.On("Label", mock.Anything, "p", m.ModeAuto).Return(m.LabelingResult{}, errors.New("quota"))

	turn, err := assistant.Turn(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, "answer", turn.Reply)
	assert.Nil(t, turn.Labeling)
}

func TestWorkflow_ChatRefreshLabelsReference(t *testing.T) {
	f := newFixture(t)

	var assistant controller.Assistant

	f.ui.On("StartChat", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		assistant = args.Get(1).(controller.Assistant)
	}).Return(nil)

	require.NoError(t, f.workflow().Chat(context.Background(), domain.ChatArgs{}))

	f.labeler.On("Reference").Return("ref\tO")
	f.labeler.On("Label", mock.Anything, "ref\tO", m.ModeAuto).Return(labeled("ref"), nil)
	f.history.On("SaveRun", mock.Anything, mock.Anything, labeled("ref")).Return(nil)

	result, err := assistant.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ref", result.InputText)
}

func TestWorkflow_ChatCallsCarryRequestTimeout(t *testing.T) {
	f := newFixture(t)

	var assistant controller.Assistant

	f.ui.On("StartChat", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		assistant = args.Get(1).(controller.Assistant)
	}).Return(nil)

	w := domain.NewWorkflow(adapter.NewLocalTextFSAdapter(), f.labeler, f.solver, f.ui,
		domain.WithRequestTimeout(time.Minute),
	)
	require.NoError(t, w.Chat(context.Background(), domain.ChatArgs{}))

	withDeadline := mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= time.Minute
	})

	f.solver.On("Solve", withDeadline, "p", 0).Return(m.SolveResult{Output: "answer"}, nil)
	f.labeler.On("Label", withDeadline, "p", m.ModeAuto).Return(labeled("p"), nil)
	f.labeler.On("Label", withDeadline, "text", m.ModeAuto).Return(labeled("text"), nil)

	_, err := assistant.Turn(context.Background(), "p")
	require.NoError(t, err)

	_, err = assistant.Label(context.Background(), "text")
	require.NoError(t, err)
}
