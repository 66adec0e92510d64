package llm

import (
	"context"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiProvider implements the Provider interface for Google Gemini models
type GeminiProvider struct {
	client *genai.Client
	config Config
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, eris.New("llm: Gemini API key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "llm: create gemini client")
	}

	return &GeminiProvider{client: client, config: config}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks if the provider is properly configured
func (p *GeminiProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx).Next()
	if err != nil && err != iterator.Done {
		zap.L().Warn("Gemini API check failed", zap.Error(err))
		return false
	}
	return true
}

// Generate produces a completion with GenerateContent
func (p *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	name := req.Model
	if name == "" {
		name = p.config.Model
	}
	if name == "" {
		name = defaultGeminiModel
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	m := p.client.GenerativeModel(name)
	m.SetMaxOutputTokens(int32(maxTokensOr(req.MaxTokens, p.config.MaxTokens, 200)))
	m.SetTemperature(0.3)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemOr(req.System))}}

	resp, err := m.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, eris.Wrap(err, "llm: gemini generate content")
	}

	var b strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				b.WriteString(string(txt))
			}
		}
	}
	if b.Len() == 0 {
		return nil, eris.New("llm: no response candidates from Gemini")
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return &GenerateResponse{Text: strings.TrimSpace(b.String()), Model: name, TokensUsed: tokens}, nil
}

// Close releases the underlying client
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}
