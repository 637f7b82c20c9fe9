package intent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/investor-portal/internal/models"
)

func TestDefaultLexiconIsValid(t *testing.T) {
	lex := DefaultLexicon()
	require.NoError(t, lex.Validate())
	assert.Equal(t, DefaultLexiconVersion, lex.Version)
	for _, wt := range models.WidgetTypes {
		assert.NotEmpty(t, lex.Types[string(wt)], wt)
	}
}

func TestParseLexiconOverridesOnlyGivenTables(t *testing.T) {
	doc := []byte(`
version = "desk-7"
affirmative = ["aye"]

[types]
market-trends = ["zeitgeist"]
`)
	lex, err := ParseLexicon(doc)
	require.NoError(t, err)
	assert.Equal(t, "desk-7", lex.Version)
	assert.Equal(t, []string{"aye"}, lex.Affirmative)
	assert.Equal(t, []string{"zeitgeist"}, lex.Types[string(models.WidgetMarketTrends)])
	assert.Equal(t, DefaultLexicon().Types[string(models.WidgetRiskAnalysis)], lex.Types[string(models.WidgetRiskAnalysis)])
	assert.Equal(t, DefaultLexicon().Negative, lex.Negative)

	r := NewResolver(lex, stubKnowledge{})
	res := r.Resolve(Request{Message: "show me the zeitgeist"})
	require.NotNil(t, res.Mutation)
	assert.Equal(t, models.WidgetMarketTrends, res.Mutation.WidgetType)

	res = r.Resolve(Request{Message: "aye", Pending: models.WidgetCashFlow})
	require.NotNil(t, res.Mutation)
	assert.Equal(t, models.WidgetCashFlow, res.Mutation.WidgetType)
}

func TestParseLexiconWithoutVersionIsMarkedCustom(t *testing.T) {
	lex, err := ParseLexicon([]byte(`show_phrases = ["let me see"]`))
	require.NoError(t, err)
	assert.Equal(t, DefaultLexiconVersion+"+custom", lex.Version)
}

func TestParseLexiconRejectsUnknownKeys(t *testing.T) {
	_, err := ParseLexicon([]byte("[types]\nstock-ticker = [\"ticker\"]\n"))
	assert.ErrorContains(t, err, "stock-ticker")

	_, err = ParseLexicon([]byte("[formats]\nheatmap = [\"heat\"]\n"))
	assert.ErrorContains(t, err, "heatmap")

	_, err = ParseLexicon([]byte("version = "))
	assert.Error(t, err)
}

func TestLoadLexiconFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.toml")
	require.NoError(t, os.WriteFile(path, []byte(`negative = ["nein"]`), 0o644))

	lex, err := LoadLexicon(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"nein"}, lex.Negative)

	lex, err = LoadLexicon("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLexicon(), lex)

	_, err = LoadLexicon(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestEncodeRoundTrips(t *testing.T) {
	data, err := DefaultLexicon().Encode()
	require.NoError(t, err)

	lex, err := ParseLexicon(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultLexicon(), lex)
}
