package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Types(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"employment", "lease", "service", "vendor"}, r.Types())

	svc, ok := r.Get("SERVICE")
	require.True(t, ok)
	assert.Equal(t, []string{"payment", "termination", "liability", "intellectual_property", "confidentiality"}, svc.Categories())
}

func TestCategories_Unknown(t *testing.T) {
	assert.Nil(t, Default().Categories("general"))
}

func TestNewRegistry_Errors(t *testing.T) {
	_, err := NewRegistry()
	assert.True(t, eris.Is(err, ErrEmptyRegistry))

	_, err = NewRegistry(Template{Type: "a", Sections: []Section{{Name: "payment"}}}, Template{Type: "A", Sections: []Section{{Name: "payment"}}})
	assert.Error(t, err)

	_, err = NewRegistry(Template{Type: "nda"})
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	out, err := Default().Render("service", map[string]string{
		"client_name":      "Acme Corp",
		"SERVICE_PROVIDER": "Beta LLC",
		"amount":           "$5,000",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "# Service Agreement Template\n")
	assert.Contains(t, out, "## Parties\nThis agreement is between Acme Corp and Beta LLC.")
	assert.Contains(t, out, "## Intellectual Property\n")
	assert.Contains(t, out, "Payment terms: $5,000 due within [DAYS] days of invoice.")
	assert.Contains(t, out, "## Risk Mitigation Features\n- Clear scope definition prevents scope creep\n")
}

func TestRender_UnknownType(t *testing.T) {
	_, err := Default().Render("partnership", nil)
	assert.True(t, eris.Is(err, ErrUnknownTemplate))
}

func TestLoad(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)
	assert.Len(t, r.Types(), 4)

	path := filepath.Join(t.TempDir(), "templates.yaml")
	yml := `
templates:
  - type: nda
    title: NDA Template
    sections:
      - name: confidentiality
        text: "[DISCLOSER] shares information in confidence."
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	r, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"nda"}, r.Types())
	assert.Equal(t, []string{"confidentiality"}, r.Categories("nda"))

	require.NoError(t, os.WriteFile(path, []byte("templates: []\n"), 0o644))
	_, err = Load(path)
	assert.True(t, eris.Is(err, ErrEmptyRegistry))
}
