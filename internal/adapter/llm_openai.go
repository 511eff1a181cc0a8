package adapter

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mouse-blink/optilabel/internal/config"
)

// OpenAILLM wraps the OpenAI chat completions API.
type OpenAILLM struct {
	client openai.Client
	cfg    config.LLMConfig
}

// NewOpenAILLM creates a new wrapper. An empty API key falls back to the
// client's own OPENAI_API_KEY lookup.
func NewOpenAILLM(cfg config.LLMConfig) *OpenAILLM {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAILLM{client: openai.NewClient(opts...), cfg: cfg}
}

// Provider implements LLM.
func (o *OpenAILLM) Provider() string { return config.ProviderOpenAI }

// Model implements LLM.
func (o *OpenAILLM) Model() string { return o.cfg.Model }

// Generate calls the chat completion endpoint.
func (o *OpenAILLM) Generate(ctx context.Context, prompt string) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if o.cfg.SystemInstruction != "" {
		messages = append(messages, openai.SystemMessage(o.cfg.SystemInstruction))
	}

	messages = append(messages, openai.UserMessage(prompt))

	req := openai.ChatCompletionNewParams{
		Model:       o.cfg.Model,
		Messages:    messages,
		Temperature: openai.Float(o.cfg.Temperature),
	}
	if o.cfg.TopP > 0 {
		req.TopP = openai.Float(o.cfg.TopP)
	}

	if o.cfg.MaxTokens > 0 {
		req.MaxCompletionTokens = openai.Int(int64(o.cfg.MaxTokens))
	}

	res, err := o.client.Chat.Completions.New(ctx, req)
	if err != nil {
		slog.Error("openai error: chat completions failed", "error", err)
		return "", fmt.Errorf("openai generation failed: %w", err)
	}

	if len(res.Choices) == 0 {
		return "", fmt.Errorf("openai generation failed: no choices in response")
	}

	slog.Debug("llm response", "provider", o.Provider(), "model", o.cfg.Model,
		"tokens_in", res.Usage.PromptTokens, "tokens_out", res.Usage.CompletionTokens)

	return res.Choices[0].Message.Content, nil
}
