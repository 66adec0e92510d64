package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck_AllSatisfied(t *testing.T) {
	text := "Vendor GST number 27AAAAA0000A1Z5 and PAN are attached. Courts of Mumbai have jurisdiction. " +
		"This agreement is governed by Indian law. Any dispute goes to arbitration."

	r := Check(text)
	assert.Equal(t, "5/5", r.Score)
	assert.Equal(t, 5, r.Satisfied)
	assert.Empty(t, r.MissingItems)
	assert.Empty(t, r.HighRiskFound)
	assert.Len(t, r.Recommendations, 3)
}

func TestCheck_MissingAndHighRisk(t *testing.T) {
	text := "The Tenant provides a personal guarantee. The lease has automatic renewal."

	r := Check(text)
	assert.Equal(t, "0/5", r.Score)
	assert.Equal(t, []string{
		"GST registration", "PAN details", "jurisdiction specified",
		"governing law mentioned", "dispute resolution mechanism",
	}, r.MissingItems)
	assert.Equal(t, []string{"personal guarantee", "automatic renewal"}, r.HighRiskFound)
}

func TestCheck_Empty(t *testing.T) {
	r := Check("")
	assert.Equal(t, "0/5", r.Score)
	assert.NotNil(t, r.HighRiskFound)
}
