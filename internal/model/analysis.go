package model

import "sort"

// Clause is a contract segment matched to a clause category
type Clause struct {
	Category    string    `json:"category"`
	Text        string    `json:"text"`        // Raw trimmed segment
	Subclauses  []string  `json:"subclauses"`  // Enumerated or semicolon-separated parts, may be empty
	Explanation string    `json:"explanation"` // Plain-language description of the category
	RiskLevel   RiskLevel `json:"risk_level"`
}

// Entities holds extracted mentions in order of first appearance.
// All four kinds are always present, possibly empty.
type Entities struct {
	Parties       []string `json:"parties"`
	Dates         []string `json:"dates"`
	Amounts       []string `json:"amounts"`
	Jurisdictions []string `json:"jurisdictions"`
}

// NewEntities returns Entities with every kind initialised to an empty slice
func NewEntities() Entities {
	return Entities{
		Parties:       []string{},
		Dates:         []string{},
		Amounts:       []string{},
		Jurisdictions: []string{},
	}
}

// IsEmpty reports whether no entity of any kind was extracted
func (e Entities) IsEmpty() bool {
	return len(e.Parties) == 0 && len(e.Dates) == 0 && len(e.Amounts) == 0 && len(e.Jurisdictions) == 0
}

// RelationKind classifies a sentence as a legal relation
type RelationKind string

const (
	RelationObligation  RelationKind = "obligations"
	RelationRight       RelationKind = "rights"
	RelationProhibition RelationKind = "prohibitions"
)

// RelationKinds lists the kinds in marker precedence order
var RelationKinds = []RelationKind{RelationObligation, RelationRight, RelationProhibition}

// RiskFinding records a specific high-risk clause signature found in the text
type RiskFinding struct {
	Category  string    `json:"category"`
	Level     RiskLevel `json:"level"`
	Instances []string  `json:"instances"` // First matching sentences, document order
}

// Ambiguity flags a sentence containing a subjective qualifier
type Ambiguity struct {
	Term       string `json:"term"`
	Context    string `json:"context"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
}

// TemplateSimilarity compares detected clause categories with a reference template
type TemplateSimilarity struct {
	Score          float64  `json:"similarity_score"` // 0-100, one decimal
	MissingClauses []string `json:"missing_clauses"`  // In template, absent in contract
	ExtraClauses   []string `json:"extra_clauses"`    // In contract, absent in template
}

// GenerationSource tells where summary and suggestions came from
type GenerationSource string

const (
	SourceGenerated GenerationSource = "generated"
	SourceRuleBased GenerationSource = "rule_based"
)

// ComplianceReport is the optional regulatory checklist outcome
type ComplianceReport struct {
	Score           string   `json:"score"` // "satisfied/total"
	Satisfied       int      `json:"satisfied"`
	Total           int      `json:"total"`
	MissingItems    []string `json:"missing_items"`
	HighRiskFound   []string `json:"high_risk_found"`
	Recommendations []string `json:"recommendations"`
}

// AnalysisResult is the aggregate outcome of one contract analysis
type AnalysisResult struct {
	ContractType      string                    `json:"contract_type"`
	Language          string                    `json:"language"`
	Entities          Entities                  `json:"entities"`
	Clauses           map[string][]Clause       `json:"clauses"`      // Category -> at most N clauses
	Relations         map[RelationKind][]string `json:"obligations"`  // Kind -> at most N sentences
	Risks             map[string]RiskFinding    `json:"risks"`        // Only categories with matches
	ClauseRisks       map[string]RiskLevel      `json:"clause_risks"` // Category -> aggregate clause level
	Ambiguities       []Ambiguity               `json:"ambiguities"`
	Similarity        TemplateSimilarity        `json:"template_similarity"`
	CompositeRisk     RiskLevel                 `json:"composite_risk"`
	CompositeScore    float64                   `json:"composite_score"` // Weighted mean behind CompositeRisk
	Summary           string                    `json:"summary"`
	Suggestions       string                    `json:"suggestions"`
	SummarySource     GenerationSource          `json:"summary_source"`
	SuggestionsSource GenerationSource          `json:"suggestions_source"`
	Compliance        *ComplianceReport         `json:"compliance,omitempty"`
}

// ClauseCategories returns the sorted categories that have at least one retained clause
func (r *AnalysisResult) ClauseCategories() []string {
	cats := make([]string, 0, len(r.Clauses))
	for cat, clauses := range r.Clauses {
		if len(clauses) > 0 {
			cats = append(cats, cat)
		}
	}
	sort.Strings(cats)
	return cats
}
