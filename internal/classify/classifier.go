package classify

import (
	"strings"

	"github.com/ppiankov/contractlens/internal/catalog"
)

// General is returned when no contract type matches
const General = "general"

// Classifier picks the contract type whose keyword set best matches the text
type Classifier struct {
	types catalog.PatternSet
}

// NewClassifier creates a classifier over the catalog's contract types
func NewClassifier(c *catalog.Catalog) *Classifier {
	return &Classifier{types: c.ContractTypes}
}

// Classify returns the type with the most distinct keyword hits.
// Ties go to the type listed first; no hits at all yields General.
func (c *Classifier) Classify(text string) string {
	lower := strings.ToLower(text)

	best, bestScore := General, 0
	for _, t := range c.types {
		if score := t.CountMatches(lower); score > bestScore {
			best, bestScore = t.Name, score
		}
	}
	return best
}

// Scores returns the raw match count per contract type, for diagnostics
func (c *Classifier) Scores(text string) map[string]int {
	lower := strings.ToLower(text)
	scores := make(map[string]int, len(c.types))
	for _, t := range c.types {
		scores[t.Name] = t.CountMatches(lower)
	}
	return scores
}
