package controller

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/optilabel/internal/model"
)

// SimpleUI implements UI using cobra Command's output streams.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayLabeling prints the labeling report and, when present, the
// row-by-row mismatches.
func (s *SimpleUI) DisplayLabeling(result m.LabelingResult) error {
	s.printf("%s\n", FormatLabeling(result))

	if result.Positional != nil && len(result.Positional.NonMatchingRows) > 0 {
		s.printf("\n%s", renderRowTable(*result.Positional))
	}

	return nil
}

// DisplaySetComparison prints a label-set comparison as a table.
func (s *SimpleUI) DisplaySetComparison(cmp m.SetComparison) error {
	s.printf("\n%s", renderSetTable(cmp))

	return nil
}

// DisplayPositionalComparison prints a row-by-row comparison.
func (s *SimpleUI) DisplayPositionalComparison(cmp m.PositionalComparison) error {
	s.printf("\n%s", renderRowTable(cmp))

	for _, row := range cmp.MissingInText1 {
		s.printf("only in generated: %s\n", row)
	}

	for _, row := range cmp.MissingInText2 {
		s.printf("only in reference: %s\n", row)
	}

	return nil
}

// DisplaySolution prints the model answer, unless it was streamed, and the
// code output.
func (s *SimpleUI) DisplaySolution(result m.SolveResult) error {
	if result.Streamed {
		s.printf("\n")
	} else {
		s.printf("=========== Problem Analysis ===========\n%s\n", strings.TrimSpace(result.Output))
	}

	switch {
	case result.Executed:
		s.printf("\n=========== Code Execution ===========\n%s\n", strings.TrimRight(result.CodeOutput, "\n"))
	case result.Code != "":
		s.printf("\n(code block found, execution skipped)\n")
	default:
		s.printf("\n(no python code block found)\n")
	}

	return nil
}

// DisplayTokens prints one token per line.
func (s *SimpleUI) DisplayTokens(tokens []string) error {
	for _, token := range tokens {
		s.printf("%s\n", token)
	}

	return nil
}

// DisplayCount prints the counter value.
func (s *SimpleUI) DisplayCount(count int) error {
	s.printf("%d\n", count)

	return nil
}

// DisplayTranscript prints a stored chat session.
func (s *SimpleUI) DisplayTranscript(sessionID string, messages []m.ChatMessage) error {
	if len(messages) == 0 {
		s.printf("No messages in session %s\n", sessionID)
		return nil
	}

	s.printf("Session %s\n", sessionID)

	for _, msg := range messages {
		s.printf("\n[%s]\n%s\n", msg.Role, msg.Content)
	}

	return nil
}

// DisplaySessions prints the known session ids.
func (s *SimpleUI) DisplaySessions(sessions []string) error {
	if len(sessions) == 0 {
		s.printf("No chat sessions found\n")
		return nil
	}

	for _, id := range sessions {
		s.printf("%s\n", id)
	}

	return nil
}

// DisplayRuns prints stored labeling runs as a table.
func (s *SimpleUI) DisplayRuns(runs []m.LabelingRun) error {
	if len(runs) == 0 {
		s.printf("No labeling runs found\n")
		return nil
	}

	s.printf("\n%s", renderRunsTable(runs))

	return nil
}

// DisplaySaved reports where a report was written.
func (s *SimpleUI) DisplaySaved(path m.Path) {
	s.printf("report saved to %s\n", path)
}

// StreamChunk writes partial output without a newline.
func (s *SimpleUI) StreamChunk(chunk string) error {
	_, err := fmt.Fprint(s.cmd.OutOrStdout(), chunk)

	return err
}

// StartChat runs a line-oriented session on the command's input. Lines
// starting with /label label the rest of the line, /refresh labels the
// reference and /quit ends the session.
func (s *SimpleUI) StartChat(ctx context.Context, assistant Assistant, options ...ChatOption) error {
	cfg := newChatConfig(options...)
	if cfg.sessionID != "" {
		s.printf("session %s\n", cfg.sessionID)
	}

	for _, msg := range cfg.history {
		s.printf("[%s] %s\n", msg.Role, msg.Content)
	}

	scanner := bufio.NewScanner(s.cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		s.printf("> ")

		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/refresh":
			s.showLabeling(assistant.Refresh(ctx))
		case strings.HasPrefix(line, "/label "):
			s.showLabeling(assistant.Label(ctx, strings.TrimPrefix(line, "/label ")))
		default:
			turn, err := assistant.Turn(ctx, line)
			if err != nil {
				s.printf("error: %v\n", err)
				continue
			}

			s.printf("%s\n\n", turn.Reply)

			if turn.Labeling != nil {
				_ = s.DisplayLabeling(*turn.Labeling)
			}
		}
	}
}

func (s *SimpleUI) showLabeling(result m.LabelingResult, err error) {
	if err != nil {
		s.printf("error: %v\n", err)
		return
	}

	_ = s.DisplayLabeling(result)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func renderSetTable(cmp m.SetComparison) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Label", "Family", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, label := range cmp.CommonWords {
		table.Append([]string{label, labelFamily(label), "common"})
	}

	for _, label := range cmp.MissingInText2 {
		table.Append([]string{label, labelFamily(label), "missing in generated"})
	}

	for _, label := range cmp.MissingInText1 {
		table.Append([]string{label, labelFamily(label), "missing in reference"})
	}

	table.SetFooter([]string{"Match", "", fmt.Sprintf("%.2f%%", cmp.MatchPercentage)})
	table.Render()

	return tableBuffer.String()
}

func labelFamily(tag string) string {
	family, ok := m.Family(tag)
	if !ok {
		return "unknown"
	}

	return string(family)
}

func renderRowTable(cmp m.PositionalComparison) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Reference", "Generated"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, pair := range cmp.NonMatchingRows {
		table.Append([]string{pair.Reference, pair.Generated})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Mismatched %d", len(cmp.NonMatchingRows)),
		fmt.Sprintf("%.2f%%", cmp.MatchPercentage),
	})
	table.Render()

	return tableBuffer.String()
}

func renderRunsTable(runs []m.LabelingRun) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"ID", "When", "Model", "Match", "Input"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})

	for _, run := range runs {
		match := "n/a"
		if run.HasReference {
			match = fmt.Sprintf("%.2f%%", run.MatchPercentage)
		}

		table.Append([]string{
			fmt.Sprintf("%d", run.ID),
			run.CreatedAt.Format("2006-01-02 15:04"),
			run.Provider + "/" + run.Model,
			match,
			oneLine(preview(run.InputText), 40),
		})
	}

	table.Render()

	return tableBuffer.String()
}

func oneLine(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) <= width {
		return s
	}

	return string(runes[:width-1]) + "…"
}
