// Package assets renders the Markdown documents wordbridge produces.
package assets

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

const glossaryTemplateName = "glossary.md.go.tmpl"

//go:embed templates/glossary.md.go.tmpl
var fallbackGlossaryTemplate string

// ParseGlossaryTemplate parses templatePath, falling back to the embedded template
// when the path is empty, missing or unparsable.
func ParseGlossaryTemplate(templatePath string, logger *slog.Logger) (*template.Template, error) {
	return parseTemplateWithFallback(templatePath, glossaryTemplateName, fallbackGlossaryTemplate, logger)
}

func parseTemplateWithFallback(templatePath, fallbackName, fallbackTemplate string, logger *slog.Logger) (*template.Template, error) {
	if logger == nil {
		logger = slog.Default()
	}
	funcMap := template.FuncMap{
		"join":  strings.Join,
		"upper": strings.ToUpper,
	}

	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(templatePath)).
				Funcs(funcMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			logger.Warn("failed to parse a template, using the embedded one",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := template.New(fallbackName).
		Funcs(funcMap).
		Parse(fallbackTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}
