package assets

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// GlossaryTemplate is the data the glossary template renders.
type GlossaryTemplate struct {
	Title       string
	GeneratedAt time.Time
	WordCount   int
	Sections    []GlossarySection
}

// GlossarySection holds the words of one language.
type GlossarySection struct {
	Language GlossaryLanguage
	Entries  []GlossaryEntry
}

type GlossaryLanguage struct {
	Code       string
	Name       string
	NativeName string
}

type GlossaryEntry struct {
	Word     string
	Meanings []GlossaryMeaning
}

type GlossaryMeaning struct {
	LanguageCode string
	LanguageName string
	Meaning      string
}

func WriteGlossary(output io.Writer, templatePath string, data GlossaryTemplate, logger *slog.Logger) error {
	tmpl, err := ParseGlossaryTemplate(templatePath, logger)
	if err != nil {
		return fmt.Errorf("ParseGlossaryTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, data); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
