package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/contractlens/internal/util"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// AnthropicProvider implements the Provider interface for Anthropic Claude models
type AnthropicProvider struct {
	client sdk.Client
	config Config
}

// NewAnthropicProvider creates a new Anthropic provider backed by the official SDK
func NewAnthropicProvider(config Config) (*AnthropicProvider, error) {
	if config.APIKey == "" {
		return nil, eris.New("llm: Anthropic API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0), // the caller falls back instead of retrying
		option.WithHTTPClient(&http.Client{
			Transport: &http.Transport{Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy)},
		}),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &AnthropicProvider{
		client: sdk.NewClient(opts...),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// IsAvailable checks if the provider is properly configured
func (p *AnthropicProvider) IsAvailable(ctx context.Context) bool {
	if _, err := p.client.Models.List(ctx, sdk.ModelListParams{}); err != nil {
		zap.L().Warn("Anthropic API check failed", zap.Error(err))
		return false
	}
	return true
}

// Generate produces a completion using the Messages API
func (p *AnthropicProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		model = defaultAnthropicModel
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := p.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(model),
		MaxTokens:   int64(maxTokensOr(req.MaxTokens, p.config.MaxTokens, 200)),
		System:      []sdk.TextBlockParam{{Text: systemOr(req.System)}},
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt))},
		Temperature: sdk.Float(0.3),
	})
	if err != nil {
		return nil, eris.Wrap(err, "llm: anthropic create message")
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return nil, eris.New("llm: no text content from Anthropic")
	}

	return &GenerateResponse{
		Text:       strings.TrimSpace(b.String()),
		Model:      string(msg.Model),
		TokensUsed: int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
	}, nil
}
