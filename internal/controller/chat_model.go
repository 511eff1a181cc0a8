package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/mouse-blink/optilabel/internal/model"
)

const (
	inputHeight    = 3
	chromeHeight   = 4
	minPaneWidth   = 20
	minPaneHeight  = 5
	defaultColumns = 100
	defaultRows    = 30
)

var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	chatTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Padding(0, 1)
)

// chatModel is the Bubble Tea model behind the interactive chat.
type chatModel struct {
	ctx       context.Context
	assistant Assistant
	sessionID string

	input      textarea.Model
	transcript viewport.Model
	labels     viewport.Model
	spinner    spinner.Model

	messages     []m.ChatMessage
	labelsOutput string
	status       string
	busy         bool
	width        int
	height       int
}

func newChatModel(ctx context.Context, assistant Assistant, cfg ChatConfig) chatModel {
	input := textarea.New()
	input.Placeholder = "Describe your optimization problem..."
	input.ShowLineNumbers = false
	input.SetHeight(inputHeight)
	input.KeyMap.InsertNewline.SetEnabled(false)
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	model := chatModel{
		ctx:          ctx,
		assistant:    assistant,
		sessionID:    cfg.sessionID,
		input:        input,
		transcript:   viewport.New(defaultColumns*2/3, defaultRows),
		labels:       viewport.New(defaultColumns/3, defaultRows),
		spinner:      sp,
		messages:     append([]m.ChatMessage(nil), cfg.history...),
		labelsOutput: "No labels yet. Press ctrl+r to label the reference text.",
		width:        defaultColumns,
		height:       defaultRows,
	}
	model.resize()

	return model
}

func (c chatModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, c.spinner.Tick)
}

func (c chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		c.resize()

		return c, nil

	case tea.KeyMsg:
		return c.handleKey(msg)

	case turnDoneMsg:
		c.busy = false
		if msg.err != nil {
			c.status = "request failed"
			c.appendMessage(m.RoleAssistant, "Error: "+msg.err.Error())

			return c, nil
		}

		c.appendMessage(m.RoleAssistant, msg.turn.Reply)

		if msg.turn.Labeling != nil {
			c.setLabels(*msg.turn.Labeling)
			c.status = "Labels updated!"
		} else {
			c.status = ""
		}

		return c, nil

	case labelDoneMsg:
		c.busy = false
		if msg.err != nil {
			c.status = "labeling failed: " + msg.err.Error()
			return c, nil
		}

		c.setLabels(msg.result)
		c.status = "Labels updated!"

		return c, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)

		return c, cmd
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)

	return c, cmd
}

func (c chatModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return c, tea.Quit
	case "pgup", "pgdown":
		var cmd tea.Cmd
		c.transcript, cmd = c.transcript.Update(msg)

		return c, cmd
	}

	if c.busy {
		return c, nil
	}

	switch msg.String() {
	case "enter":
		prompt := strings.TrimSpace(c.input.Value())
		if prompt == "" {
			return c, nil
		}

		c.input.Reset()
		c.appendMessage(m.RoleUser, prompt)
		c.busy = true
		c.status = "Analyzing problem..."

		return c, c.runTurn(prompt)

	case "ctrl+l":
		text := strings.TrimSpace(c.input.Value())
		if text == "" {
			c.status = "type the text to label first"
			return c, nil
		}

		c.input.Reset()
		c.busy = true
		c.status = "Labeling text..."

		return c, c.runLabel(text)

	case "ctrl+r":
		c.busy = true
		c.status = "Labeling reference..."

		return c, c.runRefresh()
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)

	return c, cmd
}

func (c chatModel) runTurn(prompt string) tea.Cmd {
	return func() tea.Msg {
		turn, err := c.assistant.Turn(c.ctx, prompt)
		return turnDoneMsg{turn: turn, err: err}
	}
}

func (c chatModel) runLabel(text string) tea.Cmd {
	return func() tea.Msg {
		result, err := c.assistant.Label(c.ctx, text)
		return labelDoneMsg{result: result, err: err}
	}
}

func (c chatModel) runRefresh() tea.Cmd {
	return func() tea.Msg {
		result, err := c.assistant.Refresh(c.ctx)
		return labelDoneMsg{result: result, err: err}
	}
}

func (c *chatModel) appendMessage(role m.Role, content string) {
	c.messages = append(c.messages, m.ChatMessage{Role: role, Content: content})
	c.renderTranscript()
}

func (c *chatModel) setLabels(result m.LabelingResult) {
	c.labelsOutput = FormatLabeling(result)
	c.labels.SetContent(wrap(c.labelsOutput, c.labels.Width))
	c.labels.GotoTop()
}

func (c *chatModel) renderTranscript() {
	var b strings.Builder

	for i, msg := range c.messages {
		if i > 0 {
			b.WriteString("\n\n")
		}

		b.WriteString(roleStyle(msg.Role).Render(string(msg.Role)))
		b.WriteString("\n")
		b.WriteString(wrap(msg.Content, c.transcript.Width))
	}

	c.transcript.SetContent(b.String())
	c.transcript.GotoBottom()
}

func (c *chatModel) resize() {
	// Borders and padding take two columns on each side of a pane.
	left := max(c.width*2/3-4, minPaneWidth)
	right := max(c.width-left-8, minPaneWidth)
	height := max(c.height-inputHeight-chromeHeight-2, minPaneHeight)

	c.transcript.Width = left
	c.transcript.Height = height
	c.labels.Width = right
	c.labels.Height = height
	c.input.SetWidth(max(c.width-2, minPaneWidth))

	c.renderTranscript()
	c.labels.SetContent(wrap(c.labelsOutput, right))
}

func (c chatModel) View() string {
	title := chatTitleStyle.Render("Optimization Assistant")
	if c.sessionID != "" {
		title += footerStyle.Render("session " + c.sessionID)
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(c.transcript.View()),
		paneStyle.Render(c.labels.View()),
	)

	status := c.status
	if c.busy {
		status = fmt.Sprintf("%s %s", c.spinner.View(), c.status)
	}

	help := footerStyle.Render("enter: send • ctrl+l: label input • ctrl+r: label reference • pgup/pgdown: scroll • esc: quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		panes,
		c.input.View(),
		status,
		help,
	)
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	return lipgloss.NewStyle().Width(width).Render(text)
}
