package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_Generate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.1:8b", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, 80, req.Options.NumPredict)

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:           "llama3.1:8b",
			Response:        "sets out fees and notice periods.",
			Done:            true,
			PromptEvalCount: 9,
			EvalCount:       7,
		})
	}))
	defer ts.Close()

	p, err := NewOllamaProvider(Config{BaseURL: ts.URL + "/", Model: "llama3.1:8b"})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), GenerateRequest{Prompt: "This service contract summary:", MaxTokens: 80})
	require.NoError(t, err)
	assert.Equal(t, "sets out fees and notice periods.", resp.Text)
	assert.Equal(t, 16, resp.TokensUsed)
}

func TestOllamaProvider_RequiresModel(t *testing.T) {
	p, err := NewOllamaProvider(Config{})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	assert.Error(t, err)
}

func TestOllamaProvider_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer ts.Close()

	p, err := NewOllamaProvider(Config{BaseURL: ts.URL, Model: "missing"})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models":[]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	p, err := NewOllamaProvider(Config{BaseURL: ts.URL})
	require.NoError(t, err)
	assert.True(t, p.IsAvailable(context.Background()))

	ts.Close()
	assert.False(t, p.IsAvailable(context.Background()))
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{})
	require.NoError(t, err)
	assert.Nil(t, p, "empty provider disables generation")

	p, err = NewProvider(Config{Provider: "Ollama", Model: "mistral"})
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())

	_, err = NewProvider(Config{Provider: "watson"})
	assert.Error(t, err)

	_, err = NewProvider(Config{Provider: "openai"})
	assert.Error(t, err, "hosted providers require a key")
}
