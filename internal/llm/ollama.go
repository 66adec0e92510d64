package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/contractlens/internal/util"
)

// OllamaProvider implements the Provider interface for Ollama local models
type OllamaProvider struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

// Ollama API structures
type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	System  string        `json:"system,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"` // Max tokens
}

type ollamaResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second // Ollama can be slower for local models
	}

	return &OllamaProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy),
			},
		},
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// IsAvailable checks if Ollama is running by listing local models
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		zap.L().Warn("Ollama availability check failed", zap.Error(err))
		return false
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		zap.L().Warn("Ollama availability check failed", zap.String("base_url", p.baseURL), zap.Error(err))
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		zap.L().Warn("Ollama availability check failed", zap.String("base_url", p.baseURL), zap.Int("status", resp.StatusCode))
		return false
	}

	return true
}

// Generate continues the prompt using Ollama's /api/generate endpoint
func (p *OllamaProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		return nil, eris.New("llm: ollama model must be specified (e.g., llama3.1:8b, mistral)")
	}

	apiReq := ollamaRequest{
		Model:  model,
		Prompt: req.Prompt,
		Stream: false,
		System: systemOr(req.System),
		Options: ollamaOptions{
			Temperature: 0.3,
			NumPredict:  maxTokensOr(req.MaxTokens, p.config.MaxTokens, 200),
		},
	}

	resp, err := p.makeRequest(ctx, apiReq)
	if err != nil {
		return nil, eris.Wrap(err, "llm: ollama generate")
	}

	text := strings.TrimSpace(resp.Response)
	tokensUsed := resp.PromptEvalCount + resp.EvalCount
	if tokensUsed == 0 {
		// Rough estimate: 1 token is about 4 characters
		tokensUsed = (len(req.Prompt) + len(text)) / 4
	}

	return &GenerateResponse{
		Text:       text,
		Model:      resp.Model,
		TokensUsed: tokensUsed,
	}, nil
}

// makeRequest makes an HTTP request to the Ollama API
func (p *OllamaProvider) makeRequest(ctx context.Context, apiReq ollamaRequest) (*ollamaResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, eris.Wrap(err, "marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "execute request")
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "read response")
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr ollamaError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, eris.Errorf("API error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return nil, eris.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, eris.Wrap(err, "unmarshal response")
	}

	return &resp, nil
}
