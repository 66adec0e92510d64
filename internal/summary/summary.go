// Package summary writes the plain-language summary and review suggestions
// of an analysis, asking the optional generator first and falling back to
// deterministic rule-based text.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/contractlens/internal/llm"
	"github.com/ppiankov/contractlens/internal/model"
)

// Disclaimer closes every suggestion text
const Disclaimer = "Always consult legal counsel for important contracts"

const (
	summaryMaxTokens    = 80
	suggestionMaxTokens = 100
)

// Input is everything the writer reads; it never sees the full analysis
type Input struct {
	ContractType string
	Text         string
	Entities     model.Entities
	RiskNames    []string // Specific risk categories in catalog order
}

// Output holds the two texts and where each came from
type Output struct {
	Summary           string
	Suggestions       string
	SummarySource     model.GenerationSource
	SuggestionsSource model.GenerationSource
}

// Writer produces summary and suggestions
type Writer struct {
	gen *llm.Generator
}

// NewWriter creates a writer. A nil or disabled generator means rule-based only.
func NewWriter(gen *llm.Generator) *Writer {
	return &Writer{gen: gen}
}

// Write never fails: each text falls back on its own when generation is
// unavailable or errors.
func (w *Writer) Write(ctx context.Context, in Input) Output {
	out := Output{
		SummarySource:     model.SourceRuleBased,
		SuggestionsSource: model.SourceRuleBased,
	}

	if gen := w.gen.Generate(ctx, SummaryPrompt(in.ContractType), summaryMaxTokens); gen.OK() {
		out.Summary = fmt.Sprintf("This %s contract %s", in.ContractType, gen.Text)
		out.SummarySource = model.SourceGenerated
	} else {
		out.Summary = Summarize(in.ContractType, in.Text, in.Entities)
	}

	if gen := w.gen.Generate(ctx, SuggestionPrompt(in.ContractType, in.RiskNames), suggestionMaxTokens); gen.OK() {
		out.Suggestions = strings.TrimRight(gen.Text, ". ") + ". " + Disclaimer + "."
		out.SuggestionsSource = model.SourceGenerated
	} else {
		out.Suggestions = Suggest(in.ContractType, in.RiskNames)
	}

	return out
}

// SummaryPrompt is the continuation prompt for the summary
func SummaryPrompt(contractType string) string {
	return fmt.Sprintf("This %s contract summary:", contractType)
}

// SuggestionPrompt is the continuation prompt for the suggestions
func SuggestionPrompt(contractType string, riskNames []string) string {
	riskText := "appears balanced"
	if len(riskNames) > 0 {
		riskText = "with " + strings.Join(riskNames, ", ")
	}
	return fmt.Sprintf("Legal advice for %s %s:", contractType, riskText)
}
