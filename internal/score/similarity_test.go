package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/contractlens/internal/templates"
)

func TestSimilarity(t *testing.T) {
	got := Similarity(
		[]string{"payment", "termination", "liability"},
		[]string{"termination", "payment", "warranty", "force_majeure"},
	)

	assert.Equal(t, 40.0, got.Score) // 2 / 5
	assert.Equal(t, []string{"liability"}, got.MissingClauses)
	assert.Equal(t, []string{"force_majeure", "warranty"}, got.ExtraClauses)
}

func TestSimilarity_Rounding(t *testing.T) {
	got := Similarity([]string{"a", "b", "c"}, []string{"a"})
	assert.Equal(t, 33.3, got.Score)

	got = Similarity([]string{"a", "b", "c"}, []string{"a", "b"})
	assert.Equal(t, 66.7, got.Score)
}

func TestSimilarity_SwapInvertsSets(t *testing.T) {
	a := []string{"payment", "termination", "liability"}
	b := []string{"payment", "warranty"}

	ab := Similarity(a, b)
	ba := Similarity(b, a)

	assert.Equal(t, ab.Score, ba.Score)
	assert.Equal(t, ab.MissingClauses, ba.ExtraClauses)
	assert.Equal(t, ab.ExtraClauses, ba.MissingClauses)
}

func TestSimilarity_EmptyUnion(t *testing.T) {
	got := Similarity(nil, nil)
	assert.Zero(t, got.Score)
	assert.Empty(t, got.MissingClauses)
	assert.Empty(t, got.ExtraClauses)
}

func TestSimilarityScorer(t *testing.T) {
	s := NewSimilarityScorer(templates.Default())

	got := s.Score("service", []string{"payment", "termination"})
	assert.Equal(t, 40.0, got.Score)
	assert.Equal(t, []string{"confidentiality", "intellectual_property", "liability"}, got.MissingClauses)
	assert.Empty(t, got.ExtraClauses)

	unknown := s.Score("general", []string{"payment"})
	assert.Zero(t, unknown.Score)
	assert.NotNil(t, unknown.MissingClauses)
	assert.Empty(t, unknown.MissingClauses)
	assert.Empty(t, unknown.ExtraClauses)
}
