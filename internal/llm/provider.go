package llm

import (
	"context"

	"github.com/ppiankov/contractlens/internal/model"
)

// Unavailable is the sentinel text a provider or wrapper may return instead of output
const Unavailable = "LLM not available"

// Provider defines the interface for text-generation providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate continues the prompt, producing at most req.MaxTokens tokens
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one generation call
type GenerateRequest struct {
	Prompt    string
	System    string // Optional system instruction
	Model     string // Overrides Config.Model when set
	MaxTokens int    // Length bound; 0 = provider default
}

// GenerateResponse contains the generated text
type GenerateResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "gemini", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, proxies)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens default for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 200,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(m model.LLMConfig) Config {
	return Config{
		Provider:   m.Provider,
		Model:      m.Model,
		APIKey:     m.APIKey,
		BaseURL:    m.BaseURL,
		Timeout:    m.Timeout,
		MaxTokens:  m.MaxTokens,
		HTTPProxy:  m.HTTPProxy,
		HTTPSProxy: m.HTTPSProxy,
	}
}

// systemPrompt frames every generation call
const systemPrompt = "You are a contract review assistant. Answer in plain language, in at most three sentences. Do not give definitive legal advice."

func maxTokensOr(req, cfg, fallback int) int {
	if req > 0 {
		return req
	}
	if cfg > 0 {
		return cfg
	}
	return fallback
}

func systemOr(s string) string {
	if s != "" {
		return s
	}
	return systemPrompt
}
