package score

import (
	"math"
	"sort"

	"github.com/ppiankov/contractlens/internal/model"
)

// TemplateSource yields the expected clause categories for a contract type.
// It returns nil when no template is registered.
type TemplateSource interface {
	Categories(contractType string) []string
}

// SimilarityScorer compares detected clause categories against reference templates
type SimilarityScorer struct {
	templates TemplateSource
}

// NewSimilarityScorer creates a similarity scorer
func NewSimilarityScorer(templates TemplateSource) *SimilarityScorer {
	return &SimilarityScorer{templates: templates}
}

// Score compares the contract's categories with the template for contractType.
// An unregistered type yields a zero score with empty sets.
func (s *SimilarityScorer) Score(contractType string, contractCategories []string) model.TemplateSimilarity {
	expected := s.templates.Categories(contractType)
	if expected == nil {
		return model.TemplateSimilarity{MissingClauses: []string{}, ExtraClauses: []string{}}
	}
	return Similarity(expected, contractCategories)
}

// Similarity returns the Jaccard overlap of the two category sets as a 0-100 score
// rounded to one decimal, with missing (template-only) and extra (contract-only)
// categories sorted
func Similarity(templateCategories, contractCategories []string) model.TemplateSimilarity {
	tmpl := toSet(templateCategories)
	contract := toSet(contractCategories)

	missing := []string{}
	common := 0
	for c := range tmpl {
		if contract[c] {
			common++
		} else {
			missing = append(missing, c)
		}
	}
	extra := []string{}
	for c := range contract {
		if !tmpl[c] {
			extra = append(extra, c)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)

	union := common + len(missing) + len(extra)
	score := 0.0
	if union > 0 {
		score = math.Round(float64(common)/float64(union)*1000) / 10
	}

	return model.TemplateSimilarity{
		Score:          score,
		MissingClauses: missing,
		ExtraClauses:   extra,
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, i := range items {
		set[i] = true
	}
	return set
}
