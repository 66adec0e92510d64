package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ppiankov/contractlens/internal/util"
)

// OpenAIProvider implements the Provider interface for OpenAI models
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, eris.New("llm: OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: &http.Transport{Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy)},
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	if _, err := p.client.ListModels(ctx); err != nil {
		zap.L().Warn("OpenAI API check failed", zap.Error(err))
		return false
	}
	return true
}

// Generate produces a completion using OpenAI's Chat Completions API
func (p *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemOr(req.System)},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   maxTokensOr(req.MaxTokens, p.config.MaxTokens, 200),
		Temperature: 0.3,
	})
	if err != nil {
		return nil, eris.Wrap(err, "llm: openai chat completion")
	}
	if len(resp.Choices) == 0 {
		return nil, eris.New("llm: no response from OpenAI")
	}

	return &GenerateResponse{
		Text:       strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
