package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/contractlens/internal/catalog"
	"github.com/ppiankov/contractlens/internal/model"
)

// keywordRater rates a clause High when it mentions "unlimited", otherwise Low
type keywordRater struct{}

func (keywordRater) ClauseRisk(text string) model.RiskLevel {
	if strings.Contains(strings.ToLower(text), "unlimited") {
		return model.RiskHigh
	}
	return model.RiskLow
}

func newSegmenter() *ClauseSegmenter {
	return NewClauseSegmenter(catalog.Default(), keywordRater{}, model.DefaultScoring())
}

func TestClauseSegmenter_Scenario(t *testing.T) {
	text := "This Service Agreement is between Acme Corp and Beta LLC. Acme shall pay Beta $5,000 within 30 days. " +
		"Either party may terminate with 30 days notice. This liability is unlimited."

	clauses := newSegmenter().Segment(text)

	require.Contains(t, clauses, "payment")
	assert.Equal(t, "Acme shall pay Beta $5,000 within 30 days", clauses["payment"][0].Text)
	assert.Equal(t, "This clause defines when and how payments must be made.", clauses["payment"][0].Explanation)

	require.Contains(t, clauses, "termination")
	assert.Equal(t, "Either party may terminate with 30 days notice", clauses["termination"][0].Text)

	// 27 characters: below the clause length threshold
	assert.NotContains(t, clauses, "liability")
}

func TestClauseSegmenter_CapKeepsFirstTwo(t *testing.T) {
	text := "The first payment is due upon signing of this agreement. " +
		"The second payment is due upon delivery of all goods. " +
		"The third payment is due after final acceptance testing."

	clauses := newSegmenter().Segment(text)

	require.Len(t, clauses["payment"], 2)
	assert.True(t, strings.HasPrefix(clauses["payment"][0].Text, "The first payment"))
	assert.True(t, strings.HasPrefix(clauses["payment"][1].Text, "The second payment"))
}

func TestClauseSegmenter_MultipleCategoriesAndRisk(t *testing.T) {
	text := "The Supplier accepts unlimited liability for any loss caused by a breach of warranty."

	clauses := newSegmenter().Segment(text)

	for _, cat := range []string{"liability", "warranty"} {
		require.Contains(t, clauses, cat)
		assert.Equal(t, model.RiskHigh, clauses[cat][0].RiskLevel)
		assert.Equal(t, cat, clauses[cat][0].Category)
	}
}

func TestClauseSegmenter_NoEmptyCategories(t *testing.T) {
	clauses := newSegmenter().Segment("")
	assert.Empty(t, clauses)

	for _, list := range newSegmenter().Segment("Short. Also short.") {
		assert.NotEmpty(t, list)
	}
}
