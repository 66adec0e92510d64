package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Segment is one period-delimited piece of contract text
type Segment struct {
	Text  string // Trimmed text
	Lower string // Lowercased Text, for keyword matching
	Index int    // Position among all pieces, including empty ones
}

// Len returns the trimmed length in characters
func (s Segment) Len() int {
	return utf8.RuneCountInString(s.Text)
}

// Segments splits text on periods and trims each piece, skipping empty pieces.
// The split is deliberately naive: decimals and abbreviations also split.
func Segments(text string) []Segment {
	parts := strings.Split(text, ".")
	out := make([]Segment, 0, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, Segment{Text: p, Lower: strings.ToLower(p), Index: i})
	}
	return out
}

var enumeratorPattern = regexp.MustCompile(`\(\s*(?:[a-z]|[ivx]+|\d+)\s*\)`)

// splitSubclauses breaks a clause into semicolon-separated or enumerated parts.
// Returns an empty slice when the clause has fewer than two parts.
func splitSubclauses(text string) []string {
	if parts := nonEmpty(strings.Split(text, ";")); len(parts) >= 2 {
		return parts
	}
	locs := enumeratorPattern.FindAllStringIndex(text, -1)
	if len(locs) >= 2 {
		var parts []string
		for i, loc := range locs {
			end := len(text)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			parts = append(parts, text[loc[1]:end])
		}
		if parts = nonEmpty(parts); len(parts) >= 2 {
			return parts
		}
	}
	return []string{}
}

func nonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.TrimSuffix(strings.TrimSuffix(p, " and"), " or")
		p = strings.TrimSpace(strings.Trim(strings.TrimSpace(p), ",;"))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
