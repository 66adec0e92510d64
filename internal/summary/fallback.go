package summary

import (
	"fmt"
	"strings"

	"github.com/ppiankov/contractlens/internal/model"
)

// theme is a presence check over the lowercased text
type theme struct {
	terms  []string
	phrase func(e model.Entities) string
}

var themes = []theme{
	{
		terms: []string{"payment", "salary", "fee", "amount", "compensation"},
		phrase: func(e model.Entities) string {
			if len(e.Amounts) > 0 {
				return "financial obligations totaling " + strings.Join(head(e.Amounts, 2), ", ")
			}
			return "payment and compensation terms"
		},
	},
	{terms: []string{"terminate", "end", "cancel", "expiry"}, phrase: fixed("contract termination procedures")},
	{terms: []string{"liable", "liability", "damages", "responsible"}, phrase: fixed("liability and responsibility clauses")},
	{terms: []string{"confidential", "non-disclosure", "proprietary"}, phrase: fixed("confidentiality and non-disclosure provisions")},
	{terms: []string{"copyright", "patent", "intellectual property", "trademark"}, phrase: fixed("intellectual property rights")},
	{terms: []string{"arbitration", "mediation", "court", "dispute"}, phrase: fixed("dispute resolution mechanisms")},
}

var (
	highRiskIndicators = []string{"unlimited liability", "sole discretion", "irrevocable", "automatic renewal"}
	protectiveClauses  = []string{"limited liability", "mutual termination", "reasonable notice", "force majeure"}
)

// suggestion rules are tested in order; the first matching rule wins per risk
var suggestionRules = []struct {
	contains string
	advice   string
}{
	{"penalty", "Review penalty clauses for fairness"},
	{"indemnity", "Consider limiting indemnity scope"},
	{"termination", "Ensure termination terms are mutual"},
	{"non_compete", "Verify non-compete duration is reasonable"},
}

// Summarize builds the rule-based summary from entities and theme presence
func Summarize(contractType, text string, e model.Entities) string {
	lower := strings.ToLower(text)
	var parts []string

	switch n := len(e.Parties); {
	case n == 2:
		parts = append(parts, fmt.Sprintf("This %s agreement is between %s and %s.", contractType, e.Parties[0], e.Parties[1]))
	case n > 0:
		parts = append(parts, fmt.Sprintf("This %s agreement involves %d parties including %s.", contractType, n, strings.Join(head(e.Parties, 2), ", ")))
	default:
		parts = append(parts, fmt.Sprintf("This is a %s contract between multiple parties.", contractType))
	}

	var terms []string
	for _, th := range themes {
		if containsAny(lower, th.terms) {
			terms = append(terms, th.phrase(e))
		}
	}
	switch len(terms) {
	case 0:
	case 1:
		parts = append(parts, fmt.Sprintf("The contract includes %s.", terms[0]))
	case 2:
		parts = append(parts, fmt.Sprintf("Key provisions cover %s and %s.", terms[0], terms[1]))
	default:
		last := len(terms) - 1
		parts = append(parts, fmt.Sprintf("Key provisions include %s, and %s.", strings.Join(terms[:last], ", "), terms[last]))
	}

	var specifics []string
	if len(e.Dates) > 0 {
		specifics = append(specifics, "important dates including "+strings.Join(head(e.Dates, 2), ", "))
	}
	if len(e.Jurisdictions) > 0 {
		specifics = append(specifics, "jurisdiction in "+strings.Join(head(e.Jurisdictions, 2), ", "))
	}
	if len(specifics) > 0 {
		parts = append(parts, fmt.Sprintf("The agreement specifies %s.", strings.Join(specifics, " and ")))
	}

	parts = append(parts, riskContext(lower))

	return strings.Join(parts, " ")
}

func riskContext(lower string) string {
	risky := containsAny(lower, highRiskIndicators)
	protected := containsAny(lower, protectiveClauses)

	switch {
	case risky && !protected:
		return "The contract contains some terms that may require careful review for potential risks."
	case protected && !risky:
		return "The agreement includes several protective clauses that help balance the interests of both parties."
	case risky && protected:
		return "The contract has a mix of standard protective clauses and some terms that warrant closer examination."
	default:
		return "The contract appears to follow standard commercial practices with typical terms and conditions."
	}
}

// Suggest maps detected risk categories onto review advice
func Suggest(contractType string, riskNames []string) string {
	var out []string
	for _, name := range riskNames {
		for _, rule := range suggestionRules {
			if strings.Contains(name, rule.contains) {
				out = append(out, rule.advice)
				break
			}
		}
	}

	if len(out) == 0 {
		out = append(out, fmt.Sprintf("This %s contract appears balanced", contractType))
	}
	out = append(out, Disclaimer)

	return strings.Join(out, ". ") + "."
}

func fixed(s string) func(model.Entities) string {
	return func(model.Entities) string { return s }
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
