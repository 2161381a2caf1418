// Package glossary exports the lexicon as YAML, Markdown or PDF documents.
package glossary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/wordbridge/internal/assets"
	"github.com/at-ishikawa/wordbridge/internal/language"
	"github.com/at-ishikawa/wordbridge/internal/lexicon"
	"github.com/at-ishikawa/wordbridge/internal/pdf"
)

type Format string

const (
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat validates a format name given on the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatYAML, FormatMarkdown, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

type Options struct {
	Format Format
	// LanguageCode restricts the export to words of one language.
	LanguageCode string
	Directory    string
	TemplatePath string
	PDF          pdf.Options
}

type Exporter struct {
	db        *sqlx.DB
	languages language.Repository
	words     lexicon.WordRepository
	logger    *slog.Logger
	now       func() time.Time
}

func NewExporter(db *sqlx.DB, languages language.Repository, words lexicon.WordRepository, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		db:        db,
		languages: languages,
		words:     words,
		logger:    logger,
		now:       time.Now,
	}
}

// Export writes the glossary into opts.Directory and returns the paths of the written files.
func (e *Exporter) Export(ctx context.Context, opts Options) ([]string, error) {
	glossary, err := e.load(ctx, opts.LanguageCode)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.Directory, 0755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll(%s) > %w", opts.Directory, err)
	}

	var paths []string
	switch opts.Format {
	case FormatYAML:
		paths, err = writeYAML(opts.Directory, glossary)
	case FormatMarkdown:
		var path string
		path, err = e.writeMarkdown(opts.Directory, opts.TemplatePath, glossary)
		paths = []string{path}
	case FormatPDF:
		var markdownPath, pdfPath string
		markdownPath, err = e.writeMarkdown(opts.Directory, opts.TemplatePath, glossary)
		if err == nil {
			pdfPath, err = pdf.ConvertMarkdownToPDF(markdownPath, opts.PDF)
		}
		paths = []string{markdownPath, pdfPath}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.Format)
	}
	if err != nil {
		return nil, err
	}

	e.logger.Info("exported glossary",
		"format", opts.Format,
		"language", opts.LanguageCode,
		"words", glossary.WordCount,
		"files", paths,
	)
	return paths, nil
}

type yamlLanguage struct {
	Code       string `yaml:"code"`
	Name       string `yaml:"name"`
	NativeName string `yaml:"native_name,omitempty"`
}

type yamlMeaning struct {
	Language string `yaml:"language"`
	Meaning  string `yaml:"meaning"`
}

type yamlWord struct {
	Word     string        `yaml:"word"`
	Meanings []yamlMeaning `yaml:"meanings"`
}

func writeYAML(dir string, glossary assets.GlossaryTemplate) ([]string, error) {
	languages := make([]yamlLanguage, 0, len(glossary.Sections))
	words := make(map[string][]yamlWord, len(glossary.Sections))
	for _, s := range glossary.Sections {
		languages = append(languages, yamlLanguage{Code: s.Language.Code, Name: s.Language.Name, NativeName: s.Language.NativeName})
		entries := make([]yamlWord, 0, len(s.Entries))
		for _, entry := range s.Entries {
			w := yamlWord{Word: entry.Word}
			for _, m := range entry.Meanings {
				w.Meanings = append(w.Meanings, yamlMeaning{Language: m.LanguageCode, Meaning: m.Meaning})
			}
			entries = append(entries, w)
		}
		words[s.Language.Code] = entries
	}

	languagesPath := filepath.Join(dir, "languages.yml")
	if err := writeYAMLFile(languagesPath, map[string]interface{}{"languages": languages}); err != nil {
		return nil, err
	}
	wordsPath := filepath.Join(dir, "words.yml")
	if err := writeYAMLFile(wordsPath, words); err != nil {
		return nil, err
	}
	return []string{languagesPath, wordsPath}, nil
}

func writeYAMLFile(path string, v interface{}) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return nil
}

func (e *Exporter) writeMarkdown(dir, templatePath string, glossary assets.GlossaryTemplate) (string, error) {
	var buf bytes.Buffer
	if err := assets.WriteGlossary(&buf, templatePath, glossary, e.logger); err != nil {
		return "", fmt.Errorf("assets.WriteGlossary() > %w", err)
	}
	path := filepath.Join(dir, "glossary.md")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return path, nil
}

// load builds one section per language, in registry order, with words sorted alphabetically.
func (e *Exporter) load(ctx context.Context, languageCode string) (assets.GlossaryTemplate, error) {
	all, err := e.languages.FindAll(ctx, e.db)
	if err != nil {
		return assets.GlossaryTemplate{}, err
	}
	byID := make(map[string]language.Language, len(all))
	for _, l := range all {
		byID[l.ID] = l
	}

	sectionLanguages := all
	languageID := ""
	if languageCode != "" {
		lang, err := e.languages.FindByCode(ctx, e.db, languageCode)
		if err != nil {
			return assets.GlossaryTemplate{}, err
		}
		sectionLanguages = []language.Language{*lang}
		languageID = lang.ID
	}

	words, err := e.words.FindAll(ctx, e.db, languageID, 0)
	if err != nil {
		return assets.GlossaryTemplate{}, err
	}
	entries := make(map[string][]assets.GlossaryEntry)
	for _, w := range words {
		entry := assets.GlossaryEntry{Word: w.Word}
		for _, m := range w.Meanings {
			l := byID[m.LanguageID]
			entry.Meanings = append(entry.Meanings, assets.GlossaryMeaning{
				LanguageCode: l.Code,
				LanguageName: l.Name,
				Meaning:      m.Meaning,
			})
		}
		entries[w.LanguageID] = append(entries[w.LanguageID], entry)
	}

	glossary := assets.GlossaryTemplate{
		Title:       "Wordbridge glossary",
		GeneratedAt: e.now().UTC(),
		WordCount:   len(words),
	}
	for _, l := range sectionLanguages {
		section := assets.GlossarySection{
			Language: assets.GlossaryLanguage{Code: l.Code, Name: l.Name, NativeName: l.DisplayNativeName()},
			Entries:  entries[l.ID],
		}
		sort.SliceStable(section.Entries, func(i, j int) bool {
			return section.Entries[i].Word < section.Entries[j].Word
		})
		glossary.Sections = append(glossary.Sections, section)
	}
	return glossary, nil
}
