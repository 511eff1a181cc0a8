package adapter

import (
	"context"
	"fmt"

	"github.com/mouse-blink/optilabel/internal/config"
)

// StreamFunc receives generated text as it arrives.
type StreamFunc func(chunk string) error

// LLM is a text-in, text-out model backend.
type LLM interface {
	// Generate sends prompt to the model and returns its full answer.
	Generate(ctx context.Context, prompt string) (string, error)
	// Provider names the backend (googleai, openai, anthropic, ollama).
	Provider() string
	// Model names the model the backend talks to.
	Model() string
}

// StreamingLLM is an LLM that can report partial output.
type StreamingLLM interface {
	LLM
	// GenerateStream behaves like Generate and calls fn for every chunk.
	GenerateStream(ctx context.Context, prompt string, fn StreamFunc) (string, error)
}

// NewLLM builds the backend selected by cfg.Provider.
func NewLLM(ctx context.Context, cfg config.LLMConfig) (LLM, error) {
	switch cfg.Provider {
	case config.ProviderGoogleAI:
		return NewGoogleAILLM(ctx, cfg)
	case config.ProviderOllama:
		return NewOllamaLLM(cfg)
	case config.ProviderOpenAI:
		return NewOpenAILLM(cfg), nil
	case config.ProviderAnthropic:
		return NewAnthropicLLM(cfg), nil
	default:
		return nil, fmt.Errorf("%w %q", config.ErrUnknownProvider, cfg.Provider)
	}
}
