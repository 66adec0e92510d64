// Package pipeline wires the rule engine into one analysis pass. The
// sub-analyses run as a small dependency graph: classification first, then
// the independent extractors in parallel, then similarity and the summary.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/contractlens/internal/cache"
	"github.com/ppiankov/contractlens/internal/catalog"
	"github.com/ppiankov/contractlens/internal/classify"
	"github.com/ppiankov/contractlens/internal/compliance"
	"github.com/ppiankov/contractlens/internal/document"
	"github.com/ppiankov/contractlens/internal/extract"
	"github.com/ppiankov/contractlens/internal/lang"
	"github.com/ppiankov/contractlens/internal/llm"
	"github.com/ppiankov/contractlens/internal/model"
	"github.com/ppiankov/contractlens/internal/score"
	"github.com/ppiankov/contractlens/internal/summary"
	"github.com/ppiankov/contractlens/internal/templates"
	"github.com/ppiankov/contractlens/internal/worker"
)

// Deps are the collaborators of an Analyzer. Catalog and Templates are
// required; the rest may be nil.
type Deps struct {
	Catalog    *catalog.Catalog
	Templates  *templates.Registry
	Recognizer extract.Recognizer
	Generator  *llm.Generator
	Documents  *document.Provider
}

// Analyzer runs complete contract analyses. It holds only read-only state
// and is safe for concurrent use.
type Analyzer struct {
	catalog    *catalog.Catalog
	templates  *templates.Registry
	classifier *classify.Classifier
	entities   *extract.EntityExtractor
	clauses    *extract.ClauseSegmenter
	relations  *extract.RelationExtractor
	ambiguity  *extract.AmbiguityDetector
	assessor   *score.Assessor
	similarity *score.SimilarityScorer
	writer     *summary.Writer
	documents  *document.Provider
	compliance bool
}

// New creates an Analyzer. An empty catalog or template registry is a fatal
// configuration error.
func New(cfg *model.Config, deps Deps) (*Analyzer, error) {
	if deps.Catalog == nil || deps.Catalog.IsEmpty() {
		return nil, catalog.ErrEmptyCatalog
	}
	if deps.Templates == nil || len(deps.Templates.Types()) == 0 {
		return nil, templates.ErrEmptyRegistry
	}
	if err := cfg.Scoring.Validate(); err != nil {
		return nil, eris.Wrap(err, "pipeline: invalid scoring config")
	}

	assessor := score.NewAssessor(deps.Catalog, cfg.Scoring)

	return &Analyzer{
		catalog:    deps.Catalog,
		templates:  deps.Templates,
		classifier: classify.NewClassifier(deps.Catalog),
		entities:   extract.NewEntityExtractor(deps.Recognizer, cfg.Entities.Timeout),
		clauses:    extract.NewClauseSegmenter(deps.Catalog, assessor, cfg.Scoring),
		relations:  extract.NewRelationExtractor(deps.Catalog, cfg.Scoring),
		ambiguity:  extract.NewAmbiguityDetector(deps.Catalog, cfg.Scoring),
		assessor:   assessor,
		similarity: score.NewSimilarityScorer(deps.Templates),
		writer:     summary.NewWriter(deps.Generator),
		documents:  deps.Documents,
		compliance: cfg.Compliance.Enabled,
	}, nil
}

// Build loads catalogs and constructs every configured collaborator
func Build(ctx context.Context, cfg *model.Config) (*Analyzer, error) {
	cat, err := catalog.Load(cfg.Catalog.PatternsFile)
	if err != nil {
		return nil, err
	}
	reg, err := templates.Load(cfg.Catalog.TemplatesFile)
	if err != nil {
		return nil, err
	}

	recognizer, err := extract.NewRecognizer(cfg.Entities)
	if err != nil {
		return nil, err
	}

	var generator *llm.Generator
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		// Generation is optional: a misconfigured provider degrades to rule-based text
		zap.L().Warn("text generation disabled", zap.Error(err))
	} else if provider != nil {
		timeout := time.Duration(cfg.LLM.Timeout) * time.Second
		generator = llm.NewGenerator(provider, timeout, worker.NewLimiter(cfg.LLM.RequestsPerSecond, 1))
		zap.L().Info("text generation enabled", zap.String("provider", provider.Name()))
	}

	docs := document.NewProvider(cfg.Document, cache.New(cfg.Cache), cfg.Cache.TTL)

	return New(cfg, Deps{
		Catalog:    cat,
		Templates:  reg,
		Recognizer: recognizer,
		Generator:  generator,
		Documents:  docs,
	})
}

// Templates exposes the registry the analyzer compares against
func (a *Analyzer) Templates() *templates.Registry {
	return a.templates
}

// Analyze runs the full analysis over text. It never fails: empty text and
// collaborator failures degrade to fallback values.
func (a *Analyzer) Analyze(ctx context.Context, text string) *model.AnalysisResult {
	language, analysed := lang.Prepare(text)
	contractType := a.classifier.Classify(analysed)

	res := &model.AnalysisResult{
		ContractType: contractType,
		Language:     language,
	}

	// Independent extractors; none returns an error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.Entities = a.entities.Extract(gctx, analysed)
		return nil
	})
	g.Go(func() error {
		res.Clauses = a.clauses.Segment(analysed)
		return nil
	})
	g.Go(func() error {
		res.Relations = a.relations.Extract(analysed)
		return nil
	})
	g.Go(func() error {
		res.Risks = a.assessor.SpecificRisks(analysed)
		return nil
	})
	g.Go(func() error {
		res.Ambiguities = a.ambiguity.Detect(analysed)
		return nil
	})
	if a.compliance {
		g.Go(func() error {
			res.Compliance = compliance.Check(analysed)
			return nil
		})
	}
	_ = g.Wait()

	res.ClauseRisks = a.assessor.CategoryRisks(res.Clauses)
	composite := a.assessor.Composite(res.Risks, res.ClauseRisks)
	res.CompositeRisk = composite.Level
	res.CompositeScore = composite.Score

	// Similarity needs clause categories; the summary needs risks and entities
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		res.Similarity = a.similarity.Score(contractType, res.ClauseCategories())
		return nil
	})
	g.Go(func() error {
		out := a.writer.Write(gctx, summary.Input{
			ContractType: contractType,
			Text:         analysed,
			Entities:     res.Entities,
			RiskNames:    a.riskNames(res.Risks),
		})
		res.Summary = out.Summary
		res.Suggestions = out.Suggestions
		res.SummarySource = out.SummarySource
		res.SuggestionsSource = out.SuggestionsSource
		return nil
	})
	_ = g.Wait()

	return res
}

// riskNames lists detected specific risks in catalog order
func (a *Analyzer) riskNames(risks map[string]model.RiskFinding) []string {
	names := make([]string, 0, len(risks))
	for _, name := range a.catalog.SpecificRisks.Names() {
		if _, ok := risks[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// AnalyzeDocument extracts the text of src and analyzes it
func (a *Analyzer) AnalyzeDocument(ctx context.Context, src document.Source) (*model.AnalysisResult, error) {
	if a.documents == nil {
		return nil, eris.New("pipeline: no document provider configured")
	}

	start := time.Now()
	text, err := a.documents.Extract(ctx, src)
	if err != nil {
		return nil, err
	}

	res := a.Analyze(ctx, text.Content)
	zap.L().Info("analyzed contract",
		zap.String("source", text.Source),
		zap.String("mime", text.MIMEType),
		zap.Bool("cached_text", text.Cached),
		zap.String("type", res.ContractType),
		zap.Stringer("risk", res.CompositeRisk),
		zap.Duration("took", time.Since(start)))

	return res, nil
}

// AnalyzeSource analyzes a file path or URL. It satisfies worker.Analyzer.
func (a *Analyzer) AnalyzeSource(ctx context.Context, ref string) (*model.AnalysisResult, error) {
	return a.AnalyzeDocument(ctx, document.Open(ref))
}
