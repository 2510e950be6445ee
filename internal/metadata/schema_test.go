package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidJSON(t *testing.T) {
	meta, err := Parse(`{"title":"Contrato de arrendamiento","summary":"Un contrato.","topics":["legal"],"entities":["ACME"]}`)
	require.NoError(t, err)
	assert.Equal(t, "Contrato de arrendamiento", meta.Title)
	assert.Equal(t, "Un contrato.", meta.Summary)
	assert.Equal(t, []string{"legal"}, meta.Topics)
	assert.Equal(t, []string{"ACME"}, meta.Entities)
}

func TestParseStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"title\":\"Informe\",\"summary\":\"Resumen breve.\"}\n```"
	meta, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Informe", meta.Title)
}

func TestParseRejectsNonJSON(t *testing.T) {
	_, err := Parse("Sure! Here is the metadata you asked for.")
	require.Error(t, err)
}

func TestParseRejectsEmptyOutput(t *testing.T) {
	_, err := Parse("   ")
	require.Error(t, err)
}

func TestParseRejectsMissingTitleAndSummary(t *testing.T) {
	_, err := Parse(`{"topics":["a"],"entities":[]}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing title and summary")
}

func TestParseAcceptsTitleOnly(t *testing.T) {
	meta, err := Parse(`{"title":"Solo título"}`)
	require.NoError(t, err)
	assert.Equal(t, "Solo título", meta.Title)
	assert.Empty(t, meta.Summary)
}
