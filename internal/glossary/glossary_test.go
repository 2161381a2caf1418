package glossary

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/wordbridge/internal/language"
	"github.com/at-ishikawa/wordbridge/internal/lexicon"
	mock_language "github.com/at-ishikawa/wordbridge/internal/mocks/language"
	mock_lexicon "github.com/at-ishikawa/wordbridge/internal/mocks/lexicon"
	"github.com/at-ishikawa/wordbridge/internal/pdf"
)

var (
	french     = "Français"
	testLangs  = []language.Language{{ID: "lang-en", Code: "en", Name: "English"}, {ID: "lang-fr", Code: "fr", Name: "French", NativeName: &french}}
	testWordsF = []lexicon.Word{
		{ID: "w-2", Word: "chien", LanguageID: "lang-fr", Meanings: []lexicon.Meaning{{LanguageID: "lang-en", Meaning: "dog"}}},
		{ID: "w-1", Word: "chat", LanguageID: "lang-fr", Meanings: []lexicon.Meaning{{LanguageID: "lang-en", Meaning: "cat"}}},
	}
)

func newTestExporter(t *testing.T) (*Exporter, *mock_language.MockRepository, *mock_lexicon.MockWordRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	languages := mock_language.NewMockRepository(ctrl)
	words := mock_lexicon.NewMockWordRepository(ctrl)
	e := NewExporter(nil, languages, words, nil)
	e.now = func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }
	return e, languages, words
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"yaml", "markdown", "pdf"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), f)
	}
	_, err := ParseFormat("docx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExporter_Export_YAML(t *testing.T) {
	e, languages, words := newTestExporter(t)
	languages.EXPECT().FindAll(gomock.Any(), gomock.Any()).Return(testLangs, nil)
	words.EXPECT().FindAll(gomock.Any(), gomock.Any(), "", 0).Return(testWordsF, nil)
	dir := t.TempDir()

	paths, err := e.Export(context.Background(), Options{Format: FormatYAML, Directory: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "languages.yml"), filepath.Join(dir, "words.yml")}, paths)

	content, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	var got map[string][]yamlWord
	require.NoError(t, yaml.Unmarshal(content, &got))
	assert.Empty(t, got["en"])
	assert.Equal(t, []yamlWord{
		{Word: "chat", Meanings: []yamlMeaning{{Language: "en", Meaning: "cat"}}},
		{Word: "chien", Meanings: []yamlMeaning{{Language: "en", Meaning: "dog"}}},
	}, got["fr"])

	content, err = os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "native_name: Français")
}

func TestExporter_Export_Markdown(t *testing.T) {
	e, languages, words := newTestExporter(t)
	languages.EXPECT().FindAll(gomock.Any(), gomock.Any()).Return(testLangs, nil)
	languages.EXPECT().FindByCode(gomock.Any(), gomock.Any(), "fr").Return(&testLangs[1], nil)
	words.EXPECT().FindAll(gomock.Any(), gomock.Any(), "lang-fr", 0).Return(testWordsF, nil)
	dir := t.TempDir()

	paths, err := e.Export(context.Background(), Options{Format: FormatMarkdown, LanguageCode: "fr", Directory: dir})
	require.NoError(t, err)
	require.Len(t, paths, 1)

	content, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	got := string(content)
	assert.Contains(t, got, "Generated 2026-10-18. 2 words in 1 languages.")
	assert.Contains(t, got, "## French (Français)")
	assert.NotContains(t, got, "## English")
	assert.Less(t, strings.Index(got, "### chat"), strings.Index(got, "### chien"))
}

func TestExporter_Export_PDF(t *testing.T) {
	e, languages, words := newTestExporter(t)
	languages.EXPECT().FindAll(gomock.Any(), gomock.Any()).Return(testLangs[:1], nil)
	words.EXPECT().FindAll(gomock.Any(), gomock.Any(), "", 0).Return(nil, nil)
	dir := t.TempDir()

	paths, err := e.Export(context.Background(), Options{
		Format:    FormatPDF,
		Directory: dir,
		PDF:       pdf.Options{Orientation: pdf.OrientationLandscape},
	})
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.FileExists(t, paths[0])
	assert.FileExists(t, paths[1])
	assert.Equal(t, ".pdf", filepath.Ext(paths[1]))
}

func TestExporter_Export_UnknownLanguage(t *testing.T) {
	e, languages, _ := newTestExporter(t)
	languages.EXPECT().FindAll(gomock.Any(), gomock.Any()).Return(testLangs, nil)
	languages.EXPECT().FindByCode(gomock.Any(), gomock.Any(), "xx").Return(nil, language.ErrNotFound)

	_, err := e.Export(context.Background(), Options{Format: FormatYAML, LanguageCode: "xx", Directory: t.TempDir()})
	assert.ErrorIs(t, err, language.ErrNotFound)
}
