package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/optilabel/internal/adapter"
	"github.com/mouse-blink/optilabel/internal/controller"
	m "github.com/mouse-blink/optilabel/internal/model"
)

// LabelArgs holds the inputs of a labeling run. With no texts and no files
// the reference labels themselves are labeled.
type LabelArgs struct {
	Texts      []string
	Files      []m.Path
	Mode       m.InputMode
	Positional bool
	Save       bool
	Reports    m.Path
	Parallel   int
}

// SolveArgs holds the inputs of a solve run.
type SolveArgs struct {
	Prompt  string
	NoExec  bool
	NoLabel bool
	Stream  bool
}

// CompareArgs names two tagged files to score against each other.
type CompareArgs struct {
	Reference  m.Path
	Generated  m.Path
	Positional bool
}

// ChatArgs configures an interactive session. An empty SessionID starts a
// new session.
type ChatArgs struct {
	SessionID string
}

// HistoryArgs selects what History shows.
type HistoryArgs struct {
	SessionID string
	Runs      bool
	Limit     int
}

// TokenizeArgs holds texts and files to tokenize.
type TokenizeArgs struct {
	Texts []string
	Files []m.Path
}

// Workflow defines the use cases behind the CLI.
type Workflow interface {
	Label(ctx context.Context, args LabelArgs) error
	Solve(ctx context.Context, args SolveArgs) error
	Compare(ctx context.Context, args CompareArgs) error
	Chat(ctx context.Context, args ChatArgs) error
	Count(ctx context.Context) error
	ResetCount(ctx context.Context) error
	History(ctx context.Context, args HistoryArgs) error
	Tokenize(ctx context.Context, args TokenizeArgs) error
}

// WorkflowOption configures optional collaborators of a Workflow.
type WorkflowOption func(*workflow)

// WithCounter persists the number of solved prompts.
func WithCounter(store adapter.CounterStore) WorkflowOption {
	return func(w *workflow) {
		w.counter = store
	}
}

// WithHistory records chat transcripts and labeling runs.
func WithHistory(store adapter.HistoryStore) WorkflowOption {
	return func(w *workflow) {
		w.history = store
	}
}

// WithReportStore enables saving labeling reports.
func WithReportStore(store adapter.ReportStore) WorkflowOption {
	return func(w *workflow) {
		w.reports = store
	}
}

// WithRequestTimeout bounds every model call of an interactive session.
func WithRequestTimeout(timeout time.Duration) WorkflowOption {
	return func(w *workflow) {
		w.requestTimeout = timeout
	}
}

type workflow struct {
	fs             adapter.TextFSAdapter
	labeler        Labeler
	solver         Solver
	ui             controller.UI
	counter        adapter.CounterStore
	history        adapter.HistoryStore
	reports        adapter.ReportStore
	requestTimeout time.Duration
}

// NewWorkflow creates a new Workflow instance with the provided collaborators.
func NewWorkflow(
	fs adapter.TextFSAdapter,
	labeler Labeler,
	solver Solver,
	ui controller.UI,
	opts ...WorkflowOption,
) Workflow {
	w := &workflow{
		fs:      fs,
		labeler: labeler,
		solver:  solver,
		ui:      ui,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Label labels every input with at most args.Parallel requests in flight and
// displays the results in input order.
func (w *workflow) Label(ctx context.Context, args LabelArgs) error {
	inputs, err := w.collectInputs(args.Texts, args.Files)
	if err != nil {
		return err
	}

	if len(inputs) == 0 {
		if w.labeler.Reference() == "" {
			return fmt.Errorf("nothing to label: %w", ErrEmptyInput)
		}

		inputs = []string{w.labeler.Reference()}
	}

	mode := args.Mode
	if mode == "" {
		mode = m.ModeAuto
	}

	results := make([]m.LabelingResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(args.Parallel, 1))

	for i, input := range inputs {
		g.Go(func() error {
			result, err := w.labelOne(gctx, input, mode, args.Positional)
			if err != nil {
				return fmt.Errorf("input %d: %w", i+1, err)
			}

			results[i] = result

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, result := range results {
		if err := w.ui.DisplayLabeling(result); err != nil {
			return err
		}

		w.recordRun(ctx, "", result)

		if args.Save {
			if err := w.saveReport(args.Reports, result); err != nil {
				return err
			}
		}
	}

	if args.Save && w.reports != nil {
		if err := w.reports.RegenerateIndex(args.Reports); err != nil {
			return fmt.Errorf("failed to regenerate report index: %w", err)
		}
	}

	return nil
}

// Solve asks the solver model for code, runs it and, unless disabled, labels
// the same prompt.
func (w *workflow) Solve(ctx context.Context, args SolveArgs) error {
	var opts []SolveOption
	if args.NoExec {
		opts = append(opts, WithoutExecution())
	}

	if args.Stream {
		opts = append(opts, WithStream(w.ui.StreamChunk))
	}

	result, err := w.solver.Solve(ctx, args.Prompt, opts...)
	if err != nil {
		return err
	}

	if err := w.ui.DisplaySolution(result); err != nil {
		return err
	}

	if err := w.incrementCounter(ctx); err != nil {
		return err
	}

	if args.NoLabel {
		return nil
	}

	labeling, err := w.labeler.Label(ctx, args.Prompt, m.ModeAuto)
	if err != nil {
		return err
	}

	w.recordRun(ctx, "", labeling)

	return w.ui.DisplayLabeling(labeling)
}

// Compare scores a generated tagged file against a reference one.
func (w *workflow) Compare(_ context.Context, args CompareArgs) error {
	reference, err := w.readText(args.Reference)
	if err != nil {
		return err
	}

	generated, err := w.readText(args.Generated)
	if err != nil {
		return err
	}

	if args.Positional {
		cmp, err := CompareWithMissingRows(reference, generated)
		if err != nil {
			return err
		}

		return w.ui.DisplayPositionalComparison(cmp)
	}

	cmp, err := CompareIgnorePosition(reference, generated)
	if err != nil {
		return err
	}

	return w.ui.DisplaySetComparison(cmp)
}

// Chat starts an interactive session, resuming its transcript when the
// session id is known.
func (w *workflow) Chat(ctx context.Context, args ChatArgs) error {
	sessionID := args.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	options := []controller.ChatOption{controller.WithSessionID(sessionID)}

	if args.SessionID != "" && w.history != nil {
		messages, err := w.history.Messages(ctx, sessionID)
		if err != nil {
			return err
		}

		options = append(options, controller.WithHistory(messages))
	}

	slog.Debug("starting chat session", "session", sessionID)

	return w.ui.StartChat(ctx, &chatSession{workflow: w, sessionID: sessionID}, options...)
}

// Count displays the number of solved prompts.
func (w *workflow) Count(ctx context.Context) error {
	if w.counter == nil {
		return w.ui.DisplayCount(0)
	}

	count, err := w.counter.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read counter: %w", err)
	}

	return w.ui.DisplayCount(count)
}

// ResetCount sets the counter back to zero.
func (w *workflow) ResetCount(ctx context.Context) error {
	if w.counter == nil {
		return w.ui.DisplayCount(0)
	}

	if err := w.counter.Set(ctx, 0); err != nil {
		return fmt.Errorf("failed to reset counter: %w", err)
	}

	return w.ui.DisplayCount(0)
}

// History shows a session transcript, the stored labeling runs, or the list
// of sessions.
func (w *workflow) History(ctx context.Context, args HistoryArgs) error {
	if w.history == nil {
		return errors.New("history store is not configured")
	}

	switch {
	case args.SessionID != "":
		messages, err := w.history.Messages(ctx, args.SessionID)
		if err != nil {
			return err
		}

		return w.ui.DisplayTranscript(args.SessionID, messages)

	case args.Runs:
		runs, err := w.history.Runs(ctx, args.Limit)
		if err != nil {
			return err
		}

		return w.ui.DisplayRuns(runs)

	default:
		sessions, err := w.history.Sessions(ctx)
		if err != nil {
			return err
		}

		return w.ui.DisplaySessions(sessions)
	}
}

// Tokenize displays the tokens of every input.
func (w *workflow) Tokenize(_ context.Context, args TokenizeArgs) error {
	inputs, err := w.collectInputs(args.Texts, args.Files)
	if err != nil {
		return err
	}

	var tokens []string
	for _, input := range inputs {
		tokens = append(tokens, Tokens(input)...)
	}

	return w.ui.DisplayTokens(tokens)
}

func (w *workflow) labelOne(ctx context.Context, input string, mode m.InputMode, positional bool) (m.LabelingResult, error) {
	result, err := w.labeler.Label(ctx, input, mode)
	if err != nil {
		return m.LabelingResult{}, err
	}

	if positional && result.HasReference {
		rows, err := CompareWithMissingRows(w.labeler.Reference(), result.LabeledText)
		if err != nil {
			return m.LabelingResult{}, fmt.Errorf("failed to score rows: %w", err)
		}

		result.Positional = &rows
	}

	return result, nil
}

func (w *workflow) collectInputs(texts []string, files []m.Path) ([]string, error) {
	inputs := make([]string, 0, len(texts)+len(files))
	inputs = append(inputs, texts...)

	for _, file := range files {
		text, err := w.readText(file)
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, text)
	}

	return inputs, nil
}

func (w *workflow) readText(path m.Path) (string, error) {
	data, err := w.fs.ReadFile(path)
	if err != nil {
		return "", &adapter.FileLoadError{Path: path, Err: err}
	}

	return string(data), nil
}

func (w *workflow) saveReport(dir m.Path, result m.LabelingResult) error {
	if w.reports == nil {
		return nil
	}

	path, err := w.reports.SaveReport(dir, result)
	if err != nil {
		return err
	}

	w.ui.DisplaySaved(path)

	return nil
}

func (w *workflow) incrementCounter(ctx context.Context) error {
	if w.counter == nil {
		return nil
	}

	count, err := w.counter.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read counter: %w", err)
	}

	if err := w.counter.Set(ctx, count+1); err != nil {
		return fmt.Errorf("failed to update counter: %w", err)
	}

	return nil
}

// recordRun logs history failures instead of returning them.
func (w *workflow) recordRun(ctx context.Context, sessionID string, result m.LabelingResult) {
	if w.history == nil {
		return
	}

	if err := w.history.SaveRun(ctx, sessionID, result); err != nil {
		slog.Warn("failed to record labeling run", "error", err)
	}
}

func (w *workflow) recordMessage(ctx context.Context, sessionID string, role m.Role, content string) {
	if w.history == nil {
		return
	}

	if err := w.history.SaveMessage(ctx, sessionID, m.ChatMessage{Role: role, Content: content}); err != nil {
		slog.Warn("failed to record chat message", "session", sessionID, "error", err)
	}
}

// chatSession adapts the workflow to controller.Assistant for one session.
type chatSession struct {
	workflow  *workflow
	sessionID string
}

// Turn solves prompt, then labels it. A labeling failure is logged and the
// turn is returned without labels.
func (s *chatSession) Turn(ctx context.Context, prompt string) (m.ChatTurn, error) {
	w := s.workflow

	ctx, cancel := s.requestContext(ctx)
	defer cancel()

	w.recordMessage(ctx, s.sessionID, m.RoleUser, prompt)

	solved, err := w.solver.Solve(ctx, prompt)
	if err != nil {
		return m.ChatTurn{}, err
	}

	if err := w.incrementCounter(ctx); err != nil {
		slog.Warn("failed to update counter", "error", err)
	}

	turn := m.ChatTurn{
		Prompt: prompt,
		Reply:  AssistantReply(solved),
		Solve:  solved,
	}

	w.recordMessage(ctx, s.sessionID, m.RoleAssistant, turn.Reply)

	labeling, err := w.labeler.Label(ctx, prompt, m.ModeAuto)
	if err != nil {
		slog.Warn("failed to label chat prompt", "session", s.sessionID, "error", err)
		return turn, nil
	}

	w.recordRun(ctx, s.sessionID, labeling)
	turn.Labeling = &labeling

	return turn, nil
}

func (s *chatSession) Label(ctx context.Context, text string) (m.LabelingResult, error) {
	ctx, cancel := s.requestContext(ctx)
	defer cancel()

	result, err := s.workflow.labeler.Label(ctx, text, m.ModeAuto)
	if err != nil {
		return m.LabelingResult{}, err
	}

	s.workflow.recordRun(ctx, s.sessionID, result)

	return result, nil
}

func (s *chatSession) Refresh(ctx context.Context) (m.LabelingResult, error) {
	return s.Label(ctx, s.workflow.labeler.Reference())
}

// requestContext gives each call of the session its own deadline.
func (s *chatSession) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.workflow.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.workflow.requestTimeout)
}
