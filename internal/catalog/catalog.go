package catalog

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ErrEmptyCatalog is returned when no pattern data is available at startup
var ErrEmptyCatalog = eris.New("catalog: no pattern data")

// Category is a named, ordered keyword set. Keywords are lowercase and matched as substrings.
type Category struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Matches reports whether any keyword occurs in lower
func (c Category) Matches(lower string) bool {
	for _, kw := range c.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// CountMatches returns how many distinct keywords occur in lower
func (c Category) CountMatches(lower string) int {
	n := 0
	for _, kw := range c.Keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

// MatchedKeywords returns the keywords occurring in lower, in catalog order
func (c Category) MatchedKeywords(lower string) []string {
	var found []string
	for _, kw := range c.Keywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	return found
}

// PatternSet is an ordered list of categories. Order is significant for tie-breaks.
type PatternSet []Category

// Names returns category names in order
func (p PatternSet) Names() []string {
	names := make([]string, len(p))
	for i, c := range p {
		names[i] = c.Name
	}
	return names
}

// Get returns the category with the given name
func (p PatternSet) Get(name string) (Category, bool) {
	for _, c := range p {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Catalog is the process-wide pattern data. It is built once and never mutated.
type Catalog struct {
	ContractTypes       PatternSet        `yaml:"contract_types" json:"contract_types"`
	ClauseCategories    PatternSet        `yaml:"clause_categories" json:"clause_categories"`
	Relations           PatternSet        `yaml:"relations" json:"relations"` // Precedence order
	SpecificRisks       PatternSet        `yaml:"specific_risks" json:"specific_risks"`
	AmbiguityTerms      []string          `yaml:"ambiguity_terms" json:"ambiguity_terms"`
	HighSeverityTerms   []string          `yaml:"high_severity_terms" json:"high_severity_terms"`
	MediumSeverityTerms []string          `yaml:"medium_severity_terms" json:"medium_severity_terms"`
	Explanations        map[string]string `yaml:"explanations" json:"explanations"`
	DefaultExplanation  string            `yaml:"default_explanation" json:"default_explanation"`
}

// Explain returns the plain-language explanation for a clause category
func (c *Catalog) Explain(category string) string {
	if e, ok := c.Explanations[category]; ok && e != "" {
		return e
	}
	return c.DefaultExplanation
}

// IsEmpty reports whether the catalog carries no pattern data at all
func (c *Catalog) IsEmpty() bool {
	return len(c.ContractTypes) == 0 && len(c.ClauseCategories) == 0 &&
		len(c.Relations) == 0 && len(c.SpecificRisks) == 0 && len(c.AmbiguityTerms) == 0
}

// Validate checks structural soundness of the catalog
func (c *Catalog) Validate() error {
	if c.IsEmpty() {
		return ErrEmptyCatalog
	}
	for _, set := range []struct {
		label string
		cats  PatternSet
	}{
		{"contract_types", c.ContractTypes},
		{"clause_categories", c.ClauseCategories},
		{"relations", c.Relations},
		{"specific_risks", c.SpecificRisks},
	} {
		seen := make(map[string]bool)
		for _, cat := range set.cats {
			if cat.Name == "" {
				return eris.Errorf("catalog: unnamed category in %s", set.label)
			}
			if seen[cat.Name] {
				return eris.Errorf("catalog: duplicate category %q in %s", cat.Name, set.label)
			}
			seen[cat.Name] = true
			if len(cat.Keywords) == 0 {
				return eris.Errorf("catalog: category %q in %s has no keywords", cat.Name, set.label)
			}
		}
	}
	for _, rel := range c.Relations {
		switch rel.Name {
		case "obligations", "rights", "prohibitions":
		default:
			return eris.Errorf("catalog: unknown relation kind %q", rel.Name)
		}
	}
	return nil
}

// Load returns the built-in catalog, or the one in path when path is non-empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a catalog from a YAML file
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}
	return Parse(data)
}

// Parse decodes, normalizes and validates catalog YAML
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrap(err, "catalog: parse yaml")
	}
	c.normalize()
	if c.DefaultExplanation == "" {
		c.DefaultExplanation = defaultExplanation
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// normalize lowercases and trims keywords, dropping blanks and duplicates
func (c *Catalog) normalize() {
	for _, set := range []PatternSet{c.ContractTypes, c.ClauseCategories, c.Relations, c.SpecificRisks} {
		for i := range set {
			set[i].Name = strings.TrimSpace(set[i].Name)
			set[i].Keywords = normalizeTerms(set[i].Keywords)
		}
	}
	c.AmbiguityTerms = normalizeTerms(c.AmbiguityTerms)
	c.HighSeverityTerms = normalizeTerms(c.HighSeverityTerms)
	c.MediumSeverityTerms = normalizeTerms(c.MediumSeverityTerms)
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
