package score

import (
	"math"
	"strings"

	"github.com/ppiankov/contractlens/internal/catalog"
	"github.com/ppiankov/contractlens/internal/extract"
	"github.com/ppiankov/contractlens/internal/model"
)

// Assessor computes specific-risk findings, clause risk and the composite level
type Assessor struct {
	catalog *catalog.Catalog
	cfg     model.ScoringConfig
}

// NewAssessor creates a risk assessor
func NewAssessor(c *catalog.Catalog, cfg model.ScoringConfig) *Assessor {
	return &Assessor{catalog: c, cfg: cfg}
}

// ClauseRisk returns High if the text has a high-severity term, Medium for a
// medium-severity term, otherwise Low
func (a *Assessor) ClauseRisk(text string) model.RiskLevel {
	lower := strings.ToLower(text)
	for _, term := range a.catalog.HighSeverityTerms {
		if strings.Contains(lower, term) {
			return model.RiskHigh
		}
	}
	for _, term := range a.catalog.MediumSeverityTerms {
		if strings.Contains(lower, term) {
			return model.RiskMedium
		}
	}
	return model.RiskLow
}

// SpecificRisks scans for each risk category's signature phrases. For every phrase
// present, the first sentence containing it is an instance. More than one distinct
// sentence makes the finding High, exactly one makes it Medium. Categories without
// matches are omitted.
func (a *Assessor) SpecificRisks(text string) map[string]model.RiskFinding {
	findings := make(map[string]model.RiskFinding)
	segments := extract.Segments(text)

	for _, cat := range a.catalog.SpecificRisks {
		var sentences []string
		seen := make(map[int]bool)
		for _, phrase := range cat.Keywords {
			for _, seg := range segments {
				if !strings.Contains(seg.Lower, phrase) {
					continue
				}
				if !seen[seg.Index] {
					seen[seg.Index] = true
					sentences = append(sentences, seg.Text)
				}
				break
			}
		}
		if len(sentences) == 0 {
			continue
		}

		level := model.RiskMedium
		if len(sentences) > 1 {
			level = model.RiskHigh
		}
		instances := sentences
		if len(instances) > a.cfg.InstancesPerRisk {
			instances = instances[:a.cfg.InstancesPerRisk]
		}
		findings[cat.Name] = model.RiskFinding{
			Category:  cat.Name,
			Level:     level,
			Instances: instances,
		}
	}

	return findings
}

// CategoryRisks averages the clause levels of each category and maps the mean
// onto a level. Categories without clauses are omitted.
func (a *Assessor) CategoryRisks(clauses map[string][]model.Clause) map[string]model.RiskLevel {
	out := make(map[string]model.RiskLevel)
	for cat, list := range clauses {
		if len(list) == 0 {
			continue
		}
		sum := 0.0
		for _, c := range list {
			sum += c.RiskLevel.Weight()
		}
		out[cat] = model.LevelForMean(sum/float64(len(list)), a.cfg.HighThreshold, a.cfg.MediumThreshold)
	}
	return out
}

// Composite is the weighted rollup of specific findings and clause categories
type Composite struct {
	Level       model.RiskLevel `json:"level"`
	Score       float64         `json:"score"`        // Weighted mean, 0 when there are no inputs
	TotalWeight float64         `json:"total_weight"` // Sum of weights
	Findings    int             `json:"findings"`     // Specific-risk inputs
	Categories  int             `json:"categories"`   // Clause-category inputs
	Formula     string          `json:"formula"`
}

// Composite combines specific-risk findings (weighted SpecificRiskWeight) and clause
// category aggregates (weighted ClauseRiskWeight). No inputs at all yields Low.
func (a *Assessor) Composite(risks map[string]model.RiskFinding, categoryRisks map[string]model.RiskLevel) Composite {
	total, weight := 0.0, 0.0
	for _, f := range risks {
		total += f.Level.Weight() * a.cfg.SpecificRiskWeight
		weight += a.cfg.SpecificRiskWeight
	}
	for _, level := range categoryRisks {
		total += level.Weight() * a.cfg.ClauseRiskWeight
		weight += a.cfg.ClauseRiskWeight
	}

	c := Composite{
		Level:       model.RiskLow,
		TotalWeight: weight,
		Findings:    len(risks),
		Categories:  len(categoryRisks),
		Formula:     "sum(level*weight) / sum(weight); specific findings weigh more than clause categories",
	}
	if weight == 0 {
		return c
	}

	c.Score = math.Round(total/weight*100) / 100
	c.Level = model.LevelForMean(total/weight, a.cfg.HighThreshold, a.cfg.MediumThreshold)
	return c
}
