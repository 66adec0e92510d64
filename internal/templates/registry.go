package templates

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyRegistry is returned when no templates are available at startup
	ErrEmptyRegistry = eris.New("templates: no templates registered")

	// ErrUnknownTemplate is returned when rendering a type with no template
	ErrUnknownTemplate = eris.New("templates: unknown contract type")
)

// Section is one titled block of template text. Text may carry [PLACEHOLDER] tokens.
type Section struct {
	Name string `yaml:"name" json:"name"`
	Text string `yaml:"text" json:"text"`
}

// Template is the reference clause set for one contract type.
// Only Sections take part in similarity scoring; Preamble is rendered but not compared.
type Template struct {
	Type           string    `yaml:"type" json:"type"`
	Title          string    `yaml:"title" json:"title"`
	Preamble       []Section `yaml:"preamble" json:"preamble,omitempty"`
	Sections       []Section `yaml:"sections" json:"sections"`
	RiskMitigation []string  `yaml:"risk_mitigation" json:"risk_mitigation"`
}

// Categories returns the clause categories the template expects, in section order
func (t Template) Categories() []string {
	out := make([]string, len(t.Sections))
	for i, s := range t.Sections {
		out[i] = s.Name
	}
	return out
}

// Registry maps contract types to reference templates. Read-only after construction.
type Registry struct {
	templates map[string]Template
}

// NewRegistry builds a registry, failing when no templates are given
func NewRegistry(list ...Template) (*Registry, error) {
	if len(list) == 0 {
		return nil, ErrEmptyRegistry
	}
	r := &Registry{templates: make(map[string]Template, len(list))}
	for _, t := range list {
		t.Type = strings.ToLower(strings.TrimSpace(t.Type))
		if t.Type == "" {
			return nil, eris.New("templates: template without type")
		}
		if _, dup := r.templates[t.Type]; dup {
			return nil, eris.Errorf("templates: duplicate template %q", t.Type)
		}
		if len(t.Sections) == 0 {
			return nil, eris.Errorf("templates: template %q has no sections", t.Type)
		}
		r.templates[t.Type] = t
	}
	return r, nil
}

// Load returns the built-in registry, or the one in path when path is non-empty
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "templates: read %s", path)
	}
	var doc struct {
		Templates []Template `yaml:"templates"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "templates: parse yaml")
	}
	return NewRegistry(doc.Templates...)
}

// Get returns the template for a contract type
func (r *Registry) Get(contractType string) (Template, bool) {
	t, ok := r.templates[strings.ToLower(contractType)]
	return t, ok
}

// Types returns registered contract types, sorted
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.templates))
	for k := range r.templates {
		types = append(types, k)
	}
	sort.Strings(types)
	return types
}

// Categories returns the expected clause categories for a type, or nil if unregistered
func (r *Registry) Categories(contractType string) []string {
	t, ok := r.Get(contractType)
	if !ok {
		return nil
	}
	return t.Categories()
}

// Render fills [KEY] placeholders from values and returns the template as Markdown.
// Keys are matched case-insensitively; unmatched placeholders are left in place.
func (r *Registry) Render(contractType string, values map[string]string) (string, error) {
	t, ok := r.Get(contractType)
	if !ok {
		return "", eris.Wrapf(ErrUnknownTemplate, "render %q", contractType)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fill := func(text string) string {
		for _, k := range keys {
			text = strings.ReplaceAll(text, "["+strings.ToUpper(k)+"]", values[k])
		}
		return text
	}

	title := cases.Title(language.English)
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Title)
	for _, sections := range [][]Section{t.Preamble, t.Sections} {
		for _, s := range sections {
			fmt.Fprintf(&b, "## %s\n", title.String(strings.ReplaceAll(s.Name, "_", " ")))
			fmt.Fprintf(&b, "%s\n\n", fill(s.Text))
		}
	}
	if len(t.RiskMitigation) > 0 {
		b.WriteString("## Risk Mitigation Features\n")
		for _, m := range t.RiskMitigation {
			fmt.Fprintf(&b, "- %s\n", m)
		}
	}
	return b.String(), nil
}
