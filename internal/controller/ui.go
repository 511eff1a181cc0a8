// Package controller provides the user interfaces for labeling and solving:
// plain text output for pipes and a Bubble Tea chat for terminals.
package controller

import (
	"context"

	m "github.com/mouse-blink/optilabel/internal/model"
)

// Assistant is what the chat front end talks to.
type Assistant interface {
	// Turn solves prompt and labels it.
	Turn(ctx context.Context, prompt string) (m.ChatTurn, error)
	// Label labels free text without solving it.
	Label(ctx context.Context, text string) (m.LabelingResult, error)
	// Refresh labels the reference text itself.
	Refresh(ctx context.Context) (m.LabelingResult, error)
}

// ChatOption is a functional option for StartChat.
type ChatOption func(*ChatConfig)

// ChatConfig holds configuration for an interactive session.
type ChatConfig struct {
	sessionID string
	history   []m.ChatMessage
}

// WithSessionID labels the session in the header.
func WithSessionID(id string) ChatOption {
	return func(c *ChatConfig) {
		c.sessionID = id
	}
}

// WithHistory preloads the transcript of a resumed session.
func WithHistory(messages []m.ChatMessage) ChatOption {
	return func(c *ChatConfig) {
		c.history = append([]m.ChatMessage(nil), messages...)
	}
}

func newChatConfig(options ...ChatOption) ChatConfig {
	var cfg ChatConfig
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// UI defines how results reach the user.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplayLabeling(result m.LabelingResult) error
	DisplaySetComparison(cmp m.SetComparison) error
	DisplayPositionalComparison(cmp m.PositionalComparison) error
	DisplaySolution(result m.SolveResult) error
	DisplayTokens(tokens []string) error
	DisplayCount(count int) error
	DisplayTranscript(sessionID string, messages []m.ChatMessage) error
	DisplaySessions(sessions []string) error
	DisplayRuns(runs []m.LabelingRun) error
	DisplaySaved(path m.Path)
	// StreamChunk prints partial model output as it arrives.
	StreamChunk(chunk string) error
	StartChat(ctx context.Context, assistant Assistant, options ...ChatOption) error
}
