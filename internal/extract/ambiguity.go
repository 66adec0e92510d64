package extract

import (
	"fmt"
	"strings"

	"github.com/ppiankov/contractlens/internal/catalog"
	"github.com/ppiankov/contractlens/internal/model"
)

// AmbiguityDetector flags sentences that rely on subjective qualifiers
type AmbiguityDetector struct {
	terms     []string
	minLength int
	max       int
}

// NewAmbiguityDetector creates an ambiguity detector
func NewAmbiguityDetector(c *catalog.Catalog, cfg model.ScoringConfig) *AmbiguityDetector {
	return &AmbiguityDetector{
		terms:     c.AmbiguityTerms,
		minLength: cfg.MinAmbiguityLength,
		max:       cfg.MaxAmbiguities,
	}
}

// Detect returns one record per (sentence, term) match, capped across the document
func (d *AmbiguityDetector) Detect(text string) []model.Ambiguity {
	found := []model.Ambiguity{}

	for _, seg := range Segments(text) {
		if seg.Len() <= d.minLength {
			continue
		}
		for _, term := range d.terms {
			if !strings.Contains(seg.Lower, term) {
				continue
			}
			found = append(found, model.Ambiguity{
				Term:       term,
				Context:    seg.Text,
				Issue:      fmt.Sprintf("'%s' is subjective and may cause disputes", term),
				Suggestion: fmt.Sprintf("Define specific criteria for '%s'", term),
			})
			if len(found) >= d.max {
				return found
			}
		}
	}

	return found
}
