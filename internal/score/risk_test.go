package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/contractlens/internal/catalog"
	"github.com/ppiankov/contractlens/internal/model"
)

func newAssessor() *Assessor {
	return NewAssessor(catalog.Default(), model.DefaultScoring())
}

func TestClauseRisk(t *testing.T) {
	a := newAssessor()

	tests := []struct {
		text string
		want model.RiskLevel
	}{
		{"This liability is unlimited", model.RiskHigh},
		{"Licence granted is irrevocable and subject to penalty", model.RiskHigh},
		{"Either party may terminate with 30 days notice", model.RiskMedium},
		{"Any Breach must be cured", model.RiskMedium},
		{"Acme shall pay Beta $5,000 within 30 days", model.RiskLow},
		{"", model.RiskLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.ClauseRisk(tt.text), tt.text)
	}
}

func TestSpecificRisks_Levels(t *testing.T) {
	a := newAssessor()

	text := "The Vendor shall indemnify the Client against all claims. " +
		"The Vendor shall also hold harmless the Client's affiliates. " +
		"Disputes go to arbitration in Mumbai."

	risks := a.SpecificRisks(text)

	require.Contains(t, risks, "indemnity_clauses")
	assert.Equal(t, model.RiskHigh, risks["indemnity_clauses"].Level)
	assert.Equal(t, []string{
		"The Vendor shall indemnify the Client against all claims",
		"The Vendor shall also hold harmless the Client's affiliates",
	}, risks["indemnity_clauses"].Instances)

	require.Contains(t, risks, "arbitration_jurisdiction")
	assert.Equal(t, model.RiskMedium, risks["arbitration_jurisdiction"].Level)
	assert.Len(t, risks["arbitration_jurisdiction"].Instances, 1)

	assert.NotContains(t, risks, "auto_renewal")
}

func TestSpecificRisks_SameSentenceCountsOnce(t *testing.T) {
	risks := newAssessor().SpecificRisks("The Company agrees to defend and indemnify and hold harmless the Contractor.")

	require.Contains(t, risks, "indemnity_clauses")
	assert.Equal(t, model.RiskMedium, risks["indemnity_clauses"].Level)
	assert.Len(t, risks["indemnity_clauses"].Instances, 1)
}

func TestSpecificRisks_InstancesCapped(t *testing.T) {
	text := "Disputes go to arbitration. The courts have jurisdiction. The governing law is English law."

	risks := newAssessor().SpecificRisks(text)

	f := risks["arbitration_jurisdiction"]
	assert.Equal(t, model.RiskHigh, f.Level)
	assert.Equal(t, []string{"Disputes go to arbitration", "The courts have jurisdiction"}, f.Instances)
}

func TestSpecificRisks_Empty(t *testing.T) {
	assert.Empty(t, newAssessor().SpecificRisks(""))
}

func TestCategoryRisks(t *testing.T) {
	clauses := map[string][]model.Clause{
		"payment":     {{RiskLevel: model.RiskLow}, {RiskLevel: model.RiskLow}},
		"termination": {{RiskLevel: model.RiskMedium}, {RiskLevel: model.RiskLow}},
		"liability":   {{RiskLevel: model.RiskHigh}, {RiskLevel: model.RiskMedium}},
		"warranty":    {},
	}

	got := newAssessor().CategoryRisks(clauses)

	assert.Equal(t, map[string]model.RiskLevel{
		"payment":     model.RiskLow,    // 1.0
		"termination": model.RiskMedium, // 1.5
		"liability":   model.RiskHigh,   // 2.5
	}, got)
}

func TestComposite(t *testing.T) {
	a := newAssessor()

	t.Run("no inputs", func(t *testing.T) {
		c := a.Composite(nil, nil)
		assert.Equal(t, model.RiskLow, c.Level)
		assert.Zero(t, c.Score)
	})

	t.Run("scenario clauses only", func(t *testing.T) {
		c := a.Composite(nil, map[string]model.RiskLevel{
			"payment":     model.RiskLow,
			"termination": model.RiskMedium,
		})
		assert.Equal(t, model.RiskMedium, c.Level)
		assert.InDelta(t, 1.5, c.Score, 1e-9)
	})

	t.Run("specific findings weigh double", func(t *testing.T) {
		// (3*2 + 1*1 + 1*1) / 4 = 2.0
		c := a.Composite(
			map[string]model.RiskFinding{"indemnity_clauses": {Level: model.RiskHigh}},
			map[string]model.RiskLevel{"payment": model.RiskLow, "warranty": model.RiskLow},
		)
		assert.Equal(t, model.RiskMedium, c.Level)
		assert.InDelta(t, 2.0, c.Score, 1e-9)
		assert.Equal(t, 4.0, c.TotalWeight)
	})

	t.Run("high", func(t *testing.T) {
		c := a.Composite(
			map[string]model.RiskFinding{"penalty_clauses": {Level: model.RiskHigh}},
			map[string]model.RiskLevel{"liability": model.RiskMedium},
		)
		// (6 + 2) / 3 = 2.67
		assert.Equal(t, model.RiskHigh, c.Level)
	})
}

func TestComposite_ConfigurableThresholds(t *testing.T) {
	cfg := model.DefaultScoring()
	cfg.MediumThreshold = 1.2
	a := NewAssessor(catalog.Default(), cfg)

	c := a.Composite(nil, map[string]model.RiskLevel{"a": model.RiskLow, "b": model.RiskLow, "c": model.RiskLow, "d": model.RiskMedium})
	assert.Equal(t, model.RiskMedium, c.Level) // 1.25
}
