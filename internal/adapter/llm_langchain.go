package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/mouse-blink/optilabel/internal/config"
)

// LangchainLLM adapts a langchaingo model (Gemini or Ollama) to LLM.
type LangchainLLM struct {
	model    llms.Model
	provider string
	name     string
	system   string
	options  []llms.CallOption
}

// NewGoogleAILLM connects to Gemini through langchaingo.
func NewGoogleAILLM(ctx context.Context, cfg config.LLMConfig) (*LangchainLLM, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("googleai: missing api key (set GOOGLE_API_KEY)")
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create googleai client: %w", err)
	}

	return newLangchainLLM(client, cfg), nil
}

// NewOllamaLLM connects to a local Ollama server through langchaingo.
func NewOllamaLLM(cfg config.LLMConfig) (*LangchainLLM, error) {
	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create ollama client: %w", err)
	}

	return newLangchainLLM(client, cfg), nil
}

func newLangchainLLM(model llms.Model, cfg config.LLMConfig) *LangchainLLM {
	return &LangchainLLM{
		model:    model,
		provider: cfg.Provider,
		name:     cfg.Model,
		system:   cfg.SystemInstruction,
		options:  callOptions(cfg),
	}
}

func callOptions(cfg config.LLMConfig) []llms.CallOption {
	opts := []llms.CallOption{llms.WithTemperature(cfg.Temperature)}

	if cfg.TopP > 0 {
		opts = append(opts, llms.WithTopP(cfg.TopP))
	}

	if cfg.TopK > 0 {
		opts = append(opts, llms.WithTopK(cfg.TopK))
	}

	if cfg.MaxTokens != 0 {
		opts = append(opts, llms.WithMaxTokens(cfg.MaxTokens))
	}

	if cfg.CandidateCount > 0 {
		opts = append(opts, llms.WithCandidateCount(cfg.CandidateCount))
	}

	if cfg.Seed != 0 {
		opts = append(opts, llms.WithSeed(cfg.Seed))
	}

	if len(cfg.Stop) > 0 {
		opts = append(opts, llms.WithStopWords(cfg.Stop))
	}

	return opts
}

// Provider implements LLM.
func (l *LangchainLLM) Provider() string { return l.provider }

// Model implements LLM.
func (l *LangchainLLM) Model() string { return l.name }

// Generate implements LLM.
func (l *LangchainLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return l.generate(ctx, prompt, l.options)
}

// GenerateStream implements StreamingLLM.
func (l *LangchainLLM) GenerateStream(ctx context.Context, prompt string, fn StreamFunc) (string, error) {
	opts := append([]llms.CallOption{}, l.options...)
	opts = append(opts, llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
		return fn(string(chunk))
	}))

	return l.generate(ctx, prompt, opts)
}

func (l *LangchainLLM) generate(ctx context.Context, prompt string, opts []llms.CallOption) (string, error) {
	slog.Debug("llm request", "provider", l.provider, "model", l.name, "prompt_chars", len(prompt))

	text, err := llms.GenerateFromSinglePrompt(ctx, l.model, l.withSystem(prompt), opts...)
	if err != nil {
		slog.Error("llm request failed", "provider", l.provider, "model", l.name, "error", err)
		return "", fmt.Errorf("%s generation failed: %w", l.provider, err)
	}

	slog.Debug("llm response", "provider", l.provider, "model", l.name, "response_chars", len(text))

	return text, nil
}

// withSystem sends the system instruction as a prompt prefix.
func (l *LangchainLLM) withSystem(prompt string) string {
	if strings.TrimSpace(l.system) == "" {
		return prompt
	}

	return l.system + "\n\n" + prompt
}
