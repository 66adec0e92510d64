package worker

import (
	"bufio"
	"context"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/contractlens/internal/model"
)

// Analyzer analyzes one contract source (file path or URL)
type Analyzer interface {
	AnalyzeSource(ctx context.Context, source string) (*model.AnalysisResult, error)
}

// AnalyzeJob analyzes one source as a pool job
type AnalyzeJob struct {
	Index    int
	Source   string
	Analyzer Analyzer
}

// Execute executes the analysis job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	start := time.Now()
	result, err := j.Analyzer.AnalyzeSource(ctx, j.Source)
	if err != nil {
		zap.L().Warn("batch analysis failed", zap.String("source", j.Source), zap.Error(err))
	}
	return &BatchResult{
		Index:    j.Index,
		Source:   j.Source,
		Result:   result,
		Duration: time.Since(start),
		Error:    err,
	}
}

// BatchResult is the outcome of one batch entry
type BatchResult struct {
	Index    int
	Source   string
	Result   *model.AnalysisResult
	Duration time.Duration
	Error    error
}

// GetError returns the error from the analysis
func (r *BatchResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many sources concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessSources analyzes every source and returns results in input order
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*BatchResult {
	if len(sources) == 0 {
		return []*BatchResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	jobs := make([]Job, len(sources))
	for i, src := range sources {
		jobs[i] = &AnalyzeJob{Index: i, Source: src, Analyzer: b.analyzer}
	}

	results := pool.Collect(jobs)

	out := make([]*BatchResult, 0, len(results))
	for _, r := range results {
		out = append(out, r.(*BatchResult))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })

	return out
}

// ProcessFile reads sources from a file and analyzes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*BatchResult, error) {
	sources, err := ReadSourcesFromFile(filePath)
	if err != nil {
		return nil, eris.Wrap(err, "read sources")
	}

	return b.ProcessSources(ctx, sources), nil
}

// ReadSourcesFromFile reads file paths or URLs, one per line.
// Blank lines and # comments are skipped; duplicates keep their first position.
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, eris.Wrap(err, "open file")
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "scan file")
	}

	return sources, nil
}
