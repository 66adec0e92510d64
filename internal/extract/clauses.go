package extract

import (
	"github.com/ppiankov/contractlens/internal/catalog"
	"github.com/ppiankov/contractlens/internal/model"
)

// ClauseRater assigns an intrinsic risk level to a clause text
type ClauseRater interface {
	ClauseRisk(text string) model.RiskLevel
}

// ClauseSegmenter matches text segments to clause categories and annotates them
type ClauseSegmenter struct {
	catalog     *catalog.Catalog
	rater       ClauseRater
	minLength   int
	perCategory int
}

// NewClauseSegmenter creates a clause segmenter
func NewClauseSegmenter(c *catalog.Catalog, rater ClauseRater, cfg model.ScoringConfig) *ClauseSegmenter {
	return &ClauseSegmenter{
		catalog:     c,
		rater:       rater,
		minLength:   cfg.MinClauseLength,
		perCategory: cfg.ClausesPerCategory,
	}
}

// Segment returns category -> the first matching clauses in document order.
// A segment may land in several categories. Categories without matches are omitted.
func (s *ClauseSegmenter) Segment(text string) map[string][]model.Clause {
	clauses := make(map[string][]model.Clause)
	segments := Segments(text)

	for _, cat := range s.catalog.ClauseCategories {
		var matched []model.Clause
		for _, seg := range segments {
			if len(matched) >= s.perCategory {
				break
			}
			if seg.Len() <= s.minLength || !cat.Matches(seg.Lower) {
				continue
			}
			matched = append(matched, model.Clause{
				Category:    cat.Name,
				Text:        seg.Text,
				Subclauses:  splitSubclauses(seg.Text),
				Explanation: s.catalog.Explain(cat.Name),
				RiskLevel:   s.rater.ClauseRisk(seg.Text),
			})
		}
		if len(matched) > 0 {
			clauses[cat.Name] = matched
		}
	}

	return clauses
}
