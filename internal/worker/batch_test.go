package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/contractlens/internal/model"
)

type mockAnalyzer struct {
	failOn string
}

func (m *mockAnalyzer) AnalyzeSource(ctx context.Context, source string) (*model.AnalysisResult, error) {
	time.Sleep(5 * time.Millisecond)
	if m.failOn != "" && strings.Contains(source, m.failOn) {
		return nil, errors.New("unreadable document")
	}
	return &model.AnalysisResult{ContractType: "service", CompositeRisk: model.RiskLow}, nil
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBatchProcessor_ProcessSources(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{failOn: "broken"}, 3)

	sources := []string{"a.txt", "broken.pdf", "c.docx", "https://example.com/d"}
	results := processor.ProcessSources(context.Background(), sources)

	require.Len(t, results, 4)
	for i, res := range results {
		assert.Equal(t, i, res.Index)
		assert.Equal(t, sources[i], res.Source, "results keep input order")
	}

	assert.Error(t, results[1].GetError())
	assert.Nil(t, results[1].Result)
	assert.NoError(t, results[0].GetError())
	assert.Equal(t, "service", results[0].Result.ContractType)
}

func TestBatchProcessor_ProcessSources_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2)
	assert.Empty(t, processor.ProcessSources(context.Background(), nil))
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeTemp(t, "a.txt\nb.txt\n# comment\n\nc.txt\n")

	results, err := NewBatchProcessor(&mockAnalyzer{}, 2).ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	_, err := NewBatchProcessor(&mockAnalyzer{}, 2).ProcessFile(context.Background(), "no_such_file.txt")
	assert.Error(t, err)
}

func TestReadSourcesFromFile(t *testing.T) {
	path := writeTemp(t, "lease.pdf\n# comment\nhttps://example.com/tos\n   \nlease.pdf\nnda.docx   ")

	sources, err := ReadSourcesFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"lease.pdf", "https://example.com/tos", "nda.docx"}, sources)
}

func TestBatchResult_GetError(t *testing.T) {
	assert.NoError(t, (&BatchResult{}).GetError())

	expected := errors.New("failed")
	assert.Equal(t, expected, (&BatchResult{Error: expected}).GetError())
}
