package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// HTTPRecognizer delegates recognition to an external NER service.
// The service receives {"text": ...} and answers either a bare
// [{"text", "label"}] array or the same array wrapped as {"entities": [...]}.
type HTTPRecognizer struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPRecognizer creates a recognizer backed by the given endpoint
func NewHTTPRecognizer(endpoint string, timeout time.Duration) *HTTPRecognizer {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPRecognizer{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type nerRequest struct {
	Text string `json:"text"`
}

type nerResponse struct {
	Entities []Entity `json:"entities"`
}

// Recognize posts text to the NER service
func (r *HTTPRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	body, err := json.Marshal(nerRequest{Text: text})
	if err != nil {
		return nil, eris.Wrap(err, "ner: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "ner: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "ner: execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, eris.Errorf("ner: HTTP %d: %s", resp.StatusCode, string(msg))
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, eris.Wrap(err, "ner: decode response")
	}
	return decodeEntities(raw)
}

// decodeEntities accepts a bare entity array or an {"entities": [...]} object
func decodeEntities(raw json.RawMessage) ([]Entity, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entities []Entity
		if err := json.Unmarshal(trimmed, &entities); err != nil {
			return nil, eris.Wrap(err, "ner: decode entity array")
		}
		return entities, nil
	}

	var out nerResponse
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, eris.Wrap(err, "ner: decode response")
	}
	return out.Entities, nil
}
