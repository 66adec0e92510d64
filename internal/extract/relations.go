package extract

import (
	"github.com/ppiankov/contractlens/internal/catalog"
	"github.com/ppiankov/contractlens/internal/model"
)

// RelationExtractor tags sentences as obligations, rights or prohibitions
type RelationExtractor struct {
	catalog   *catalog.Catalog
	minLength int
	perKind   int
}

// NewRelationExtractor creates a relation extractor
func NewRelationExtractor(c *catalog.Catalog, cfg model.ScoringConfig) *RelationExtractor {
	return &RelationExtractor{
		catalog:   c,
		minLength: cfg.MinSentenceLength,
		perKind:   cfg.RelationsPerKind,
	}
}

// Extract classifies each sentence by the first relation kind whose marker it contains.
// Kinds are checked in catalog order and a sentence is never assigned twice.
func (e *RelationExtractor) Extract(text string) map[model.RelationKind][]string {
	out := make(map[model.RelationKind][]string)

	for _, seg := range Segments(text) {
		if seg.Len() < e.minLength {
			continue
		}
		for _, rel := range e.catalog.Relations {
			if !rel.Matches(seg.Lower) {
				continue
			}
			kind := model.RelationKind(rel.Name)
			if len(out[kind]) < e.perKind {
				out[kind] = append(out[kind], seg.Text)
			}
			break
		}
	}

	return out
}
