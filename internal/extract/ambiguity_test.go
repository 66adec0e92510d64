package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/contractlens/internal/catalog"
	"github.com/ppiankov/contractlens/internal/model"
)

func TestAmbiguityDetector_Record(t *testing.T) {
	d := NewAmbiguityDetector(catalog.Default(), model.DefaultScoring())

	found := d.Detect("The Vendor shall give reasonable notice before any change.")

	require.Len(t, found, 1)
	assert.Equal(t, model.Ambiguity{
		Term:       "reasonable",
		Context:    "The Vendor shall give reasonable notice before any change",
		Issue:      "'reasonable' is subjective and may cause disputes",
		Suggestion: "Define specific criteria for 'reasonable'",
	}, found[0])
}

func TestAmbiguityDetector_CapFirstFive(t *testing.T) {
	d := NewAmbiguityDetector(catalog.Default(), model.DefaultScoring())

	var parts []string
	for i := 1; i <= 8; i++ {
		parts = append(parts, fmt.Sprintf("Sentence number %d requires appropriate care", i))
	}
	found := d.Detect(strings.Join(parts, ". "))

	require.Len(t, found, 5)
	for i, a := range found {
		assert.Equal(t, fmt.Sprintf("Sentence number %d requires appropriate care", i+1), a.Context)
	}
}

func TestAmbiguityDetector_ShortSentencesIgnored(t *testing.T) {
	d := NewAmbiguityDetector(catalog.Default(), model.DefaultScoring())

	found := d.Detect("As needed. Reasonable.")
	assert.NotNil(t, found)
	assert.Empty(t, found)
}

func TestAmbiguityDetector_MultipleTermsOneSentence(t *testing.T) {
	d := NewAmbiguityDetector(catalog.Default(), model.DefaultScoring())

	found := d.Detect("Reports are delivered from time to time in a satisfactory format.")

	require.Len(t, found, 2)
	assert.Equal(t, "satisfactory", found[0].Term)
	assert.Equal(t, "from time to time", found[1].Term)
}
