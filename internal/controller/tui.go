package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/mouse-blink/optilabel/internal/model"
)

var (
	accentColor = lipgloss.Color("6") // Cyan

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	accentStyle = lipgloss.NewStyle().Foreground(accentColor)

	faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// TUI implements UI with styled output and a Bubble Tea chat.
type TUI struct {
	input  io.Reader
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(input io.Reader, output io.Writer) *TUI {
	return &TUI{input: input, output: output}
}

// DisplayLabeling prints the labeling report with a highlighted score.
func (t *TUI) DisplayLabeling(result m.LabelingResult) error {
	t.println(headingStyle.Render("Labeling Results"))

	if result.HasReference {
		t.println("Match: " + accentStyle.Render(fmt.Sprintf("%.2f%%", result.Accuracy.MatchPercentage)))
	} else {
		t.println(faintStyle.Render("no reference labels loaded, accuracy not scored"))
	}

	t.println(FormatLabeling(result))

	if result.Positional != nil && len(result.Positional.NonMatchingRows) > 0 {
		t.println("")
		t.println(renderRowTable(*result.Positional))
	}

	return nil
}

// DisplaySetComparison prints a label-set comparison.
func (t *TUI) DisplaySetComparison(cmp m.SetComparison) error {
	t.println(headingStyle.Render("Label Set Comparison"))
	t.println(renderSetTable(cmp))

	return nil
}

// DisplayPositionalComparison prints a row-by-row comparison.
func (t *TUI) DisplayPositionalComparison(cmp m.PositionalComparison) error {
	t.println(headingStyle.Render("Row Comparison"))
	t.println(renderRowTable(cmp))

	for _, row := range cmp.MissingInText1 {
		t.println(faintStyle.Render("only in generated: ") + row)
	}

	for _, row := range cmp.MissingInText2 {
		t.println(faintStyle.Render("only in reference: ") + row)
	}

	return nil
}

// DisplaySolution prints the model answer, unless it was streamed, and the
// code output.
func (t *TUI) DisplaySolution(result m.SolveResult) error {
	if result.Streamed {
		t.println("")
	} else {
		t.println(headingStyle.Render("Problem Analysis"))
		t.println(strings.TrimSpace(result.Output))
	}

	if !result.Executed {
		return nil
	}

	t.println("")
	t.println(headingStyle.Render("Code Execution"))

	output := strings.TrimRight(result.CodeOutput, "\n")
	if strings.Contains(output, "Error: ") {
		output = errorStyle.Render(output)
	}

	t.println(output)

	return nil
}

// DisplayTokens prints one token per line.
func (t *TUI) DisplayTokens(tokens []string) error {
	for _, token := range tokens {
		t.println(token)
	}

	return nil
}

// DisplayCount prints the counter value.
func (t *TUI) DisplayCount(count int) error {
	t.println("Prompts processed: " + accentStyle.Render(fmt.Sprintf("%d", count)))

	return nil
}

// DisplayTranscript prints a stored chat session.
func (t *TUI) DisplayTranscript(sessionID string, messages []m.ChatMessage) error {
	t.println(headingStyle.Render("Session " + sessionID))

	if len(messages) == 0 {
		t.println(faintStyle.Render("no messages"))
		return nil
	}

	for _, msg := range messages {
		t.println(roleStyle(msg.Role).Render(string(msg.Role)))
		t.println(msg.Content)
		t.println("")
	}

	return nil
}

// DisplaySessions prints the known session ids.
func (t *TUI) DisplaySessions(sessions []string) error {
	if len(sessions) == 0 {
		t.println(faintStyle.Render("No chat sessions found"))
		return nil
	}

	for _, id := range sessions {
		t.println(accentStyle.Render(id))
	}

	return nil
}

// DisplayRuns prints stored labeling runs.
func (t *TUI) DisplayRuns(runs []m.LabelingRun) error {
	if len(runs) == 0 {
		t.println(faintStyle.Render("No labeling runs found"))
		return nil
	}

	t.println(renderRunsTable(runs))

	return nil
}

// DisplaySaved reports where a report was written.
func (t *TUI) DisplaySaved(path m.Path) {
	t.println(faintStyle.Render("report saved to ") + string(path))
}

// StreamChunk writes partial output without a newline.
func (t *TUI) StreamChunk(chunk string) error {
	_, err := fmt.Fprint(t.output, chunk)

	return err
}

// StartChat runs the interactive chat until the user quits.
func (t *TUI) StartChat(ctx context.Context, assistant Assistant, options ...ChatOption) error {
	model := newChatModel(ctx, assistant, newChatConfig(options...))

	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(t.input),
		tea.WithOutput(t.output),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

func (t *TUI) println(s string) {
	_, _ = fmt.Fprintln(t.output, s)
}

func roleStyle(role m.Role) lipgloss.Style {
	if role == m.RoleUser {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	}

	return lipgloss.NewStyle().Foreground(accentColor).Bold(true)
}
