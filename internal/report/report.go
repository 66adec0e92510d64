// Package report renders analyses as JSON files, Markdown documents and a
// short console summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ppiankov/contractlens/internal/model"
)

// Report wraps an analysis with where and when it was produced. The analysis
// fields are flattened into the JSON object.
type Report struct {
	ID         string    `json:"id,omitempty"`
	Source     string    `json:"source"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	*model.AnalysisResult
}

// New creates a report for res analyzed now
func New(source string, res *model.AnalysisResult) *Report {
	return &Report{Source: source, AnalyzedAt: time.Now().UTC(), AnalysisResult: res}
}

// Renderer writes reports
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer; the footer is the legal notice under Markdown output
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON to path
func (r *Renderer) RenderJSON(rep *Report, path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal report")
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the Markdown rendition of the report to path
func (r *Renderer) RenderMarkdown(rep *Report, path string) error {
	return writeFile(path, []byte(r.Markdown(rep)))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	return nil
}

// RenderSummary prints a few lines describing the report to w
func (r *Renderer) RenderSummary(w io.Writer, rep *Report) {
	res := rep.AnalysisResult
	fmt.Fprintf(w, "%s\n", rep.Source)
	fmt.Fprintf(w, "  Type:        %s (%s)\n", res.ContractType, res.Language)
	fmt.Fprintf(w, "  Risk:        %s (score %.2f)\n", res.CompositeRisk, res.CompositeScore)
	fmt.Fprintf(w, "  Clauses:     %d categories\n", len(res.Clauses))
	fmt.Fprintf(w, "  Risks:       %s\n", joinOrNone(sortedKeys(res.Risks)))
	fmt.Fprintf(w, "  Ambiguities: %d\n", len(res.Ambiguities))
	fmt.Fprintf(w, "  Template:    %.1f%% match\n", res.Similarity.Score)
	if res.Compliance != nil {
		fmt.Fprintf(w, "  Compliance:  %s\n", res.Compliance.Score)
	}
	if rep.ID != "" {
		fmt.Fprintf(w, "  History id:  %s\n", rep.ID)
	}
}

// Markdown renders the report as a Markdown document
func (r *Renderer) Markdown(rep *Report) string {
	res := rep.AnalysisResult
	var b strings.Builder

	fmt.Fprintf(&b, "# Contract Analysis: %s\n\n", rep.Source)
	fmt.Fprintf(&b, "- **Type:** %s\n", res.ContractType)
	fmt.Fprintf(&b, "- **Language:** %s\n", res.Language)
	fmt.Fprintf(&b, "- **Overall risk:** %s (score %.2f)\n", res.CompositeRisk, res.CompositeScore)
	fmt.Fprintf(&b, "- **Analyzed:** %s\n\n", rep.AnalyzedAt.Format(time.RFC3339))

	fmt.Fprintf(&b, "## Summary\n\n%s\n\n", res.Summary)
	if res.SummarySource == model.SourceGenerated {
		b.WriteString("_Summary generated by a language model._\n\n")
	}

	b.WriteString("## Parties and Key Terms\n\n")
	if res.Entities.IsEmpty() {
		b.WriteString("No entities recognized.\n\n")
	} else {
		writeList(&b, "Parties", res.Entities.Parties)
		writeList(&b, "Dates", res.Entities.Dates)
		writeList(&b, "Amounts", res.Entities.Amounts)
		writeList(&b, "Jurisdictions", res.Entities.Jurisdictions)
		b.WriteString("\n")
	}

	b.WriteString("## Clauses\n\n")
	if len(res.Clauses) == 0 {
		b.WriteString("No recognized clauses.\n\n")
	}
	for _, cat := range res.ClauseCategories() {
		fmt.Fprintf(&b, "### %s (%s risk)\n\n", title(cat), res.ClauseRisks[cat])
		clauses := res.Clauses[cat]
		if len(clauses) > 0 && clauses[0].Explanation != "" {
			fmt.Fprintf(&b, "%s\n\n", clauses[0].Explanation)
		}
		for _, c := range clauses {
			fmt.Fprintf(&b, "> %s\n\n", c.Text)
			for _, sub := range c.Subclauses {
				fmt.Fprintf(&b, "  - %s\n", sub)
			}
			if len(c.Subclauses) > 0 {
				b.WriteString("\n")
			}
		}
	}

	if len(res.Risks) > 0 {
		b.WriteString("## Risk Flags\n\n")
		for _, name := range sortedKeys(res.Risks) {
			f := res.Risks[name]
			fmt.Fprintf(&b, "### %s (%s)\n\n", title(name), f.Level)
			for _, inst := range f.Instances {
				fmt.Fprintf(&b, "- %s\n", inst)
			}
			b.WriteString("\n")
		}
	}

	if len(res.Relations) > 0 {
		b.WriteString("## Obligations, Rights and Prohibitions\n\n")
		for _, kind := range model.RelationKinds {
			sentences := res.Relations[kind]
			if len(sentences) == 0 {
				continue
			}
			fmt.Fprintf(&b, "**%s**\n\n", title(string(kind)))
			for _, s := range sentences {
				fmt.Fprintf(&b, "- %s\n", s)
			}
			b.WriteString("\n")
		}
	}

	if len(res.Ambiguities) > 0 {
		b.WriteString("## Ambiguous Language\n\n")
		b.WriteString("| Term | Issue | Suggestion |\n|---|---|---|\n")
		for _, a := range res.Ambiguities {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", a.Term, a.Issue, a.Suggestion)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Template Comparison\n\n")
	fmt.Fprintf(&b, "Similarity to the standard %s template: **%.1f%%**\n\n", res.ContractType, res.Similarity.Score)
	writeList(&b, "Missing clauses", res.Similarity.MissingClauses)
	writeList(&b, "Additional clauses", res.Similarity.ExtraClauses)
	b.WriteString("\n")

	if c := res.Compliance; c != nil {
		b.WriteString("## Compliance Checklist\n\n")
		fmt.Fprintf(&b, "Satisfied: **%s**\n\n", c.Score)
		writeList(&b, "Missing", c.MissingItems)
		writeList(&b, "High-risk terms", c.HighRiskFound)
		for _, rec := range c.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Suggestions\n\n%s\n", res.Suggestions)

	if r.includeFooter {
		b.WriteString("\n---\n\n_Generated by contractlens. This is an automated review, not legal advice._\n")
	}

	return b.String()
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "- **%s:** %s\n", label, strings.Join(items, ", "))
}

func sortedKeys(m map[string]model.RiskFinding) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// title turns a snake_case category into title-cased words. Casers keep
// state, so each call gets its own.
func title(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}
