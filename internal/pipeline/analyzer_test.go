package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/contractlens/internal/catalog"
	"github.com/ppiankov/contractlens/internal/document"
	"github.com/ppiankov/contractlens/internal/extract"
	"github.com/ppiankov/contractlens/internal/llm"
	"github.com/ppiankov/contractlens/internal/model"
	"github.com/ppiankov/contractlens/internal/summary"
	"github.com/ppiankov/contractlens/internal/templates"
	"github.com/ppiankov/contractlens/internal/worker"
)

const serviceContract = "This Service Agreement is between Acme Corp and Beta LLC. " +
	"Acme shall pay Beta $5,000 within 30 days. " +
	"Either party may terminate with 30 days notice. " +
	"This liability is unlimited."

type failingProvider struct{}

func (failingProvider) Name() string                         { return "failing" }
func (failingProvider) IsAvailable(ctx context.Context) bool { return false }
func (failingProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	return nil, errors.New("backend down")
}

type echoProvider struct{}

func (echoProvider) Name() string                         { return "echo" }
func (echoProvider) IsAvailable(ctx context.Context) bool { return true }
func (echoProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	return &llm.GenerateResponse{Text: "sets out payment and termination terms."}, nil
}

func newAnalyzer(t *testing.T, cfg *model.Config, deps Deps) *Analyzer {
	t.Helper()
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}
	if deps.Templates == nil {
		deps.Templates = templates.Default()
	}
	a, err := New(cfg, deps)
	require.NoError(t, err)
	return a
}

func TestAnalyze_ServiceContract(t *testing.T) {
	a := newAnalyzer(t, nil, Deps{Recognizer: extract.NewPatternRecognizer()})

	res := a.Analyze(context.Background(), serviceContract)

	assert.Equal(t, "service", res.ContractType)
	assert.Equal(t, "english", res.Language)
	assert.Contains(t, res.Clauses, "payment")
	assert.Contains(t, res.Clauses, "termination")
	assert.NotContains(t, res.Clauses, "liability", "short sentences are not clauses")

	assert.Equal(t, model.RiskLow, res.ClauseRisks["payment"])
	assert.Equal(t, model.RiskMedium, res.ClauseRisks["termination"])
	assert.Equal(t, model.RiskMedium, res.CompositeRisk)
	assert.InDelta(t, 1.5, res.CompositeScore, 1e-9)

	assert.Equal(t, []string{"Acme Corp", "Beta LLC"}, res.Entities.Parties)
	assert.Equal(t, []string{"$5,000"}, res.Entities.Amounts)

	assert.True(t, strings.HasPrefix(res.Summary, "This service agreement is between Acme Corp and Beta LLC."))
	assert.Contains(t, res.Suggestions, summary.Disclaimer)
	assert.Equal(t, model.SourceRuleBased, res.SummarySource)
	assert.Equal(t, model.SourceRuleBased, res.SuggestionsSource)
	assert.Nil(t, res.Compliance)
}

func TestAnalyze_EmptyText(t *testing.T) {
	a := newAnalyzer(t, nil, Deps{Recognizer: extract.NewPatternRecognizer()})

	res := a.Analyze(context.Background(), "")

	assert.Equal(t, "general", res.ContractType)
	assert.Empty(t, res.Clauses)
	assert.Empty(t, res.Relations)
	assert.Empty(t, res.Risks)
	assert.Empty(t, res.Ambiguities)
	assert.Equal(t, model.RiskLow, res.CompositeRisk)
	assert.Zero(t, res.CompositeScore)
	assert.NotEmpty(t, res.Summary)
	assert.Contains(t, res.Suggestions, summary.Disclaimer)

	data, err := json.Marshal(res.Entities)
	require.NoError(t, err)
	assert.JSONEq(t, `{"parties":[],"dates":[],"amounts":[],"jurisdictions":[]}`, string(data))
}

func TestAnalyze_NoRecognizer(t *testing.T) {
	a := newAnalyzer(t, nil, Deps{})

	res := a.Analyze(context.Background(), serviceContract)

	data, err := json.Marshal(res.Entities)
	require.NoError(t, err)
	assert.JSONEq(t, `{"parties":[],"dates":[],"amounts":[],"jurisdictions":[]}`, string(data))
	assert.Equal(t, "service", res.ContractType)
}

func TestAnalyze_GenerationFailureFallsBack(t *testing.T) {
	gen := llm.NewGenerator(failingProvider{}, time.Second, worker.NewLimiter(0, 1))
	a := newAnalyzer(t, nil, Deps{Recognizer: extract.NewPatternRecognizer(), Generator: gen})

	res := a.Analyze(context.Background(), serviceContract)

	entities := res.Entities
	assert.Equal(t, summary.Summarize("service", serviceContract, entities), res.Summary)
	assert.Equal(t, summary.Suggest("service", nil), res.Suggestions)
	assert.Contains(t, res.Suggestions, summary.Disclaimer)
	assert.Equal(t, model.SourceRuleBased, res.SummarySource)
	assert.Equal(t, model.SourceRuleBased, res.SuggestionsSource)
}

func TestAnalyze_GeneratedText(t *testing.T) {
	gen := llm.NewGenerator(echoProvider{}, time.Second, nil)
	a := newAnalyzer(t, nil, Deps{Generator: gen})

	res := a.Analyze(context.Background(), serviceContract)

	assert.Equal(t, "This service contract sets out payment and termination terms.", res.Summary)
	assert.True(t, strings.HasSuffix(res.Suggestions, summary.Disclaimer+"."))
	assert.Equal(t, model.SourceGenerated, res.SummarySource)
	assert.Equal(t, model.SourceGenerated, res.SuggestionsSource)
}

func TestAnalyze_Idempotent(t *testing.T) {
	a := newAnalyzer(t, nil, Deps{Recognizer: extract.NewPatternRecognizer()})
	text := serviceContract + " The vendor shall indemnify the client and pay a penalty for late delivery."

	first, err := json.Marshal(a.Analyze(context.Background(), text))
	require.NoError(t, err)
	second, err := json.Marshal(a.Analyze(context.Background(), text))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestAnalyze_ConcurrentCallsDoNotInterfere(t *testing.T) {
	a := newAnalyzer(t, nil, Deps{Recognizer: extract.NewPatternRecognizer()})
	texts := []string{
		serviceContract,
		"This Non-Disclosure Agreement binds Globex Corporation. The recipient shall keep all confidential information secret for five years.",
		"The Landlord leases the premises to the Tenant. The tenant shall pay rent of $1,200 on the first day of each month.",
		"The Employee shall not compete with the Employer for two years after termination of employment.",
		"",
	}

	want := make([]string, len(texts))
	for i, text := range texts {
		data, err := json.Marshal(a.Analyze(context.Background(), text))
		require.NoError(t, err)
		want[i] = string(data)
	}

	const rounds = 8
	got := make([]string, len(texts)*rounds)
	var wg sync.WaitGroup
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, err := json.Marshal(a.Analyze(context.Background(), texts[i%len(texts)]))
			if err == nil {
				got[i] = string(data)
			}
		}(i)
	}
	wg.Wait()

	for i, g := range got {
		assert.Equal(t, want[i%len(texts)], g, "text %d", i%len(texts))
	}
}

func TestAnalyze_Caps(t *testing.T) {
	a := newAnalyzer(t, nil, Deps{})

	var b strings.Builder
	for i := 0; i < 4; i++ {
		b.WriteString("The client shall pay the invoice in a reasonable and appropriate manner. ")
	}
	res := a.Analyze(context.Background(), b.String())

	assert.Len(t, res.Clauses["payment"], 2)
	assert.Len(t, res.Ambiguities, 5)
}

func TestAnalyze_Compliance(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Compliance.Enabled = true
	a := newAnalyzer(t, cfg, Deps{})

	res := a.Analyze(context.Background(), serviceContract)

	require.NotNil(t, res.Compliance)
	assert.Equal(t, 5, res.Compliance.Total)
	assert.Equal(t, res.Compliance.Total-res.Compliance.Satisfied, len(res.Compliance.MissingItems))
}

func TestAnalyze_CompositeHighWithSpecificRisks(t *testing.T) {
	a := newAnalyzer(t, nil, Deps{})
	text := "The vendor shall indemnify and hold harmless the client against all claims. " +
		"Any dispute shall be referred to arbitration in the exclusive jurisdiction of London courts. " +
		"The client shall pay a penalty of 10% for every week of delay in delivery."

	res := a.Analyze(context.Background(), text)

	assert.NotEmpty(t, res.Risks)
	assert.GreaterOrEqual(t, int(res.CompositeRisk), int(model.RiskMedium))
}

func TestNew_FailsFast(t *testing.T) {
	cfg := model.DefaultConfig()

	_, err := New(cfg, Deps{Catalog: &catalog.Catalog{}, Templates: templates.Default()})
	assert.ErrorIs(t, err, catalog.ErrEmptyCatalog)

	_, err = New(cfg, Deps{Catalog: catalog.Default()})
	assert.ErrorIs(t, err, templates.ErrEmptyRegistry)

	cfg.Scoring.MediumThreshold = 3
	_, err = New(cfg, Deps{Catalog: catalog.Default(), Templates: templates.Default()})
	assert.Error(t, err)
}

func TestAnalyzeSource_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contract.txt")
	require.NoError(t, os.WriteFile(path, []byte(serviceContract), 0o644))

	docs := document.NewProvider(model.DefaultConfig().Document, nil, 0)
	a := newAnalyzer(t, nil, Deps{Documents: docs})

	res, err := a.AnalyzeSource(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "service", res.ContractType)
	assert.Equal(t, model.RiskMedium, res.CompositeRisk)
}

func TestAnalyzeSource_NoProvider(t *testing.T) {
	a := newAnalyzer(t, nil, Deps{})

	_, err := a.AnalyzeSource(context.Background(), "contract.txt")
	assert.Error(t, err)
}

func TestAnalyzer_Batch(t *testing.T) {
	dir := t.TempDir()
	var sources []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(serviceContract), 0o644))
		sources = append(sources, path)
	}
	sources = append(sources, filepath.Join(dir, "missing.txt"))

	docs := document.NewProvider(model.DefaultConfig().Document, nil, 0)
	a := newAnalyzer(t, nil, Deps{Documents: docs})

	results := worker.NewBatchProcessor(a, 2).ProcessSources(context.Background(), sources)
	require.Len(t, results, 4)
	for i, r := range results[:3] {
		assert.Equal(t, i, r.Index)
		require.NoError(t, r.Error)
		assert.Equal(t, "service", r.Result.ContractType)
	}
	assert.Error(t, results[3].Error)
}
