package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
)

func TestDefaultContent(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "JaiDeeClear", c.Brand.Name)
	assert.Equal(t, "JaiDeeClear - Quote Request", c.Page.Title)
	assert.Equal(t, "Quote Request Received!", c.Confirmation.Heading)
	assert.Equal(t, "Submit Another Quote", c.Confirmation.ResetLabel)
	assert.Equal(t, []string{"ISO 9001 Certified", "IWFA Member"}, c.Badges)
	assert.Equal(t, "© 2025 JaiDeeClear. On-site service throughout Bangkok.", c.Footer)
	assert.Equal(t, "e.g., Somchai Saengchai", c.Placeholder(quotes.FieldName))
	assert.Equal(t, "Preferred Measurement Date", c.Label(quotes.FieldMeasurementDate))

	require.Len(t, c.Contact, 3)
	assert.Equal(t, "+66 92-006-8100", c.Contact[0].Value)
	assert.Equal(t, "@jaideeclear", c.Contact[1].Value)
	assert.Equal(t, "jaideeclear@gmail.com", c.Contact[2].Value)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
brand:
  name: Test Films
form:
  heading: Get a quote
  labels:
    name: Name
    phone: Phone
    location: Where
    measurementDate: When
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Test Films", c.Brand.Name)
	assert.Equal(t, "Where", c.Label(quotes.FieldLocation))
	assert.Equal(t, "Submitting...", c.Form.SubmittingLabel)
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("  ")
	require.NoError(t, err)
	assert.Equal(t, "JaiDeeClear", c.Brand.Name)
}

func TestParseRejectsIncompleteContent(t *testing.T) {
	_, err := Parse([]byte(`
brand:
  name: ""
form:
  heading: Quote
  labels:
    name: Name
    email: Email
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brand.name")
	assert.Contains(t, err.Error(), "form.labels.phone")
	assert.Contains(t, err.Error(), `unknown form field "email"`)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("brand: [unclosed"))
	assert.Error(t, err)
}
