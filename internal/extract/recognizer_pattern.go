package extract

import (
	"context"
	"regexp"
	"sort"
)

const monthNames = `(?:January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)`

type entityPattern struct {
	label string
	re    *regexp.Regexp
	group int // Submatch holding the surface text; 0 = whole match
}

// PatternRecognizer finds entities with regular expressions. It needs no external service.
type PatternRecognizer struct {
	patterns []entityPattern
}

// NewPatternRecognizer creates a regex-based recognizer
func NewPatternRecognizer() *PatternRecognizer {
	return &PatternRecognizer{
		patterns: []entityPattern{
			{label: LabelMoney, re: regexp.MustCompile(`(?:[$€£₹]\s?\d[\d,]*(?:\.\d+)?(?:\s?(?:million|billion|thousand|lakh|crore))?)|(?:\b(?:USD|INR|EUR|GBP|Rs\.?)\s?\d[\d,]*(?:\.\d+)?)|(?:\b\d[\d,]*(?:\.\d+)?\s?(?:dollars|rupees|euros|pounds)\b)`)},
			{label: LabelDate, re: regexp.MustCompile(`\b` + monthNames + `\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b|\b\d{1,2}(?:st|nd|rd|th)?\s+` + monthNames + `,?\s+\d{4}\b|\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b\d+\s+(?:business\s+|calendar\s+|working\s+)?(?:days|weeks|months|years)\b`)},
			{label: LabelOrg, re: regexp.MustCompile(`\b(?:[A-Z][\w&'-]*\s+){0,4}?[A-Z][\w&'-]*\s+(?:Corporation|Corp|Company|Co|Inc|LLC|LLP|Ltd|Limited|GmbH|Pvt)\b`)},
			{label: LabelPerson, re: regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr|Shri|Smt)\.?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?`)},
			{label: LabelGPE, re: regexp.MustCompile(`\b(?:laws of|courts? (?:of|in|at)|jurisdiction of|[Ss]tate of)\s+(?:the\s+)?(?:[Ss]tate of\s+)?([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+){0,2})`), group: 1},
		},
	}
}

type span struct {
	start, end int
	entity     Entity
}

// Recognize returns non-overlapping matches in source order
func (r *PatternRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var spans []span
	for _, p := range r.patterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[2*p.group], m[2*p.group+1]
			if start < 0 {
				continue
			}
			spans = append(spans, span{start: start, end: end, entity: Entity{Text: text[start:end], Label: p.label}})
		}
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	entities := make([]Entity, 0, len(spans))
	lastEnd := -1
	for _, s := range spans {
		if s.start < lastEnd {
			continue
		}
		entities = append(entities, s.entity)
		lastEnd = s.end
	}
	return entities, nil
}
