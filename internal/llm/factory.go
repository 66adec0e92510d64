package llm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// NewProvider creates a provider based on configuration.
// An empty provider name returns nil, nil: generation is disabled.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "gemini", "google":
		return NewGeminiProvider(context.Background(), config)

	case "":
		return nil, nil

	default:
		return nil, eris.Errorf("llm: unknown provider %q (supported: openai, anthropic, ollama, gemini)", config.Provider)
	}
}
