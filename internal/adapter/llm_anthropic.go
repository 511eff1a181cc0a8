package adapter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mouse-blink/optilabel/internal/config"
)

const defaultAnthropicMaxTokens = 4096

// AnthropicLLM wraps the Anthropic messages API.
type AnthropicLLM struct {
	client anthropic.Client
	cfg    config.LLMConfig
}

// NewAnthropicLLM creates a new wrapper.
func NewAnthropicLLM(cfg config.LLMConfig) *AnthropicLLM {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicLLM{client: anthropic.NewClient(opts...), cfg: cfg}
}

// Provider implements LLM.
func (a *AnthropicLLM) Provider() string { return config.ProviderAnthropic }

// Model implements LLM.
func (a *AnthropicLLM) Model() string { return a.cfg.Model }

// Generate sends a single user message and returns the first text block.
func (a *AnthropicLLM) Generate(ctx context.Context, prompt string) (string, error) {
	maxTokens := int64(defaultAnthropicMaxTokens)
	if a.cfg.MaxTokens > 0 {
		maxTokens = int64(a.cfg.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.cfg.Model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		// The messages API caps temperature at 1.
		Temperature: anthropic.Float(min(a.cfg.Temperature, 1)),
	}
	if a.cfg.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: a.cfg.SystemInstruction}}
	}

	message, err := a.client.Messages.New(ctx, params)
	if err != nil {
		slog.Error("llm anthropic error", "error", err)
		return "", fmt.Errorf("anthropic generation failed: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			slog.Debug("llm response", "provider", a.Provider(), "model", a.cfg.Model,
				"tokens_in", message.Usage.InputTokens, "tokens_out", message.Usage.OutputTokens)

			return block.Text, nil
		}
	}

	return "", fmt.Errorf("anthropic generation failed: no text content in response")
}
