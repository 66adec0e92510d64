package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/contractlens/internal/catalog"
	"github.com/ppiankov/contractlens/internal/extract"
	"github.com/ppiankov/contractlens/internal/model"
	"github.com/ppiankov/contractlens/internal/pipeline"
	"github.com/ppiankov/contractlens/internal/store"
	"github.com/ppiankov/contractlens/internal/templates"
)

const contract = "This Service Agreement is between Acme Corp and Beta LLC. " +
	"Acme shall pay Beta $5,000 within 30 days. " +
	"Either party may terminate with 30 days notice."

func newTestServer(t *testing.T, withStore bool) *httptest.Server {
	t.Helper()
	cfg := model.DefaultConfig()

	a, err := pipeline.New(cfg, pipeline.Deps{
		Catalog:    catalog.Default(),
		Templates:  templates.Default(),
		Recognizer: extract.NewPatternRecognizer(),
	})
	require.NoError(t, err)

	var st store.Store
	if withStore {
		st, err = store.Open(context.Background(), model.StoreConfig{
			Enabled: true,
			Path:    filepath.Join(t.TempDir(), "history.db"),
		})
		require.NoError(t, err)
		t.Cleanup(func() { st.Close() }) //nolint:errcheck
	}

	ts := httptest.NewServer(New(cfg.Server, a, st).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, false)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestAnalyze_JSON(t *testing.T) {
	ts := newTestServer(t, true)

	payload, _ := json.Marshal(map[string]string{"text": contract, "source": "acme.txt"})
	resp, err := http.Post(ts.URL+"/api/v1/analyze", "application/json", strings.NewReader(string(payload)))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, "service", body["contract_type"])
	assert.Equal(t, "acme.txt", body["source"])
	assert.Equal(t, "Medium", body["composite_risk"])
	assert.NotEmpty(t, body["id"])

	// The analysis is now in history
	id := body["id"].(string)
	resp, err = http.Get(ts.URL + "/api/v1/history/" + id)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rec store.Record
	decode(t, resp, &rec)
	assert.Equal(t, "acme.txt", rec.Source)
	require.NotNil(t, rec.Result)
	assert.Equal(t, "service", rec.Result.ContractType)
}

func TestAnalyze_PlainTextMarkdown(t *testing.T) {
	ts := newTestServer(t, false)

	resp, err := http.Post(ts.URL+"/api/v1/analyze?format=markdown", "text/plain; charset=utf-8", strings.NewReader(contract))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/markdown")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Contract Analysis: api")
	assert.Contains(t, string(data), "### Payment")
}

func TestAnalyze_EmptyText(t *testing.T) {
	ts := newTestServer(t, false)

	resp, err := http.Post(ts.URL+"/api/v1/analyze", "application/json", strings.NewReader(`{"text":""}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, "general", body["contract_type"])
	assert.Equal(t, "Low", body["composite_risk"])
}

func TestAnalyze_BadRequests(t *testing.T) {
	ts := newTestServer(t, false)

	resp, err := http.Post(ts.URL+"/api/v1/analyze", "application/json", strings.NewReader(`{"text":`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/api/v1/analyze", "application/xml", strings.NewReader(`<text/>`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestTemplates(t *testing.T) {
	ts := newTestServer(t, false)

	resp, err := http.Get(ts.URL + "/api/v1/templates")
	require.NoError(t, err)
	var list []templateInfo
	decode(t, resp, &list)
	require.NotEmpty(t, list)

	var types []string
	for _, info := range list {
		types = append(types, info.Type)
	}
	assert.Contains(t, types, "service")

	resp, err = http.Get(ts.URL + "/api/v1/templates/service")
	require.NoError(t, err)
	var tmpl templates.Template
	decode(t, resp, &tmpl)
	assert.Equal(t, "service", tmpl.Type)
	assert.Contains(t, tmpl.Categories(), "payment")

	resp, err = http.Get(ts.URL + "/api/v1/templates/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRenderTemplate(t *testing.T) {
	ts := newTestServer(t, false)

	resp, err := http.Post(ts.URL+"/api/v1/templates/service/render", "application/json",
		strings.NewReader(`{"client_name":"Acme Corp","amount":"$5,000"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "between Acme Corp and [SERVICE_PROVIDER]")
	assert.Contains(t, string(data), "$5,000 due within")

	resp, err = http.Post(ts.URL+"/api/v1/templates/nope/render", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHistory(t *testing.T) {
	ts := newTestServer(t, true)

	for i := 0; i < 2; i++ {
		resp, err := http.Post(ts.URL+"/api/v1/analyze", "text/plain", strings.NewReader(contract))
		require.NoError(t, err)
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/api/v1/history?type=service&limit=10")
	require.NoError(t, err)
	var records []store.Record
	decode(t, resp, &records)
	require.Len(t, records, 2)

	resp, err = http.Get(ts.URL + "/api/v1/history?min_risk=bogus")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/history/"+records[0].ID, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/v1/history/" + records[0].ID)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHistory_Disabled(t *testing.T) {
	ts := newTestServer(t, false)

	resp, err := http.Get(ts.URL + "/api/v1/history")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, false)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/analyze", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestListenAndServe_Shutdown(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:0"
	a, err := pipeline.New(cfg, pipeline.Deps{Catalog: catalog.Default(), Templates: templates.Default()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(cfg.Server, a, nil).ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
