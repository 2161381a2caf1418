// Package pdf turns rendered Markdown into PDF documents.
package pdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

var ErrInvalidOptions = errors.New("invalid pdf options")

var pageSizes = map[string]bool{"A3": true, "A4": true, "A5": true, "Letter": true, "Legal": true}

// Options controls the page layout. The zero value renders portrait A4 pages in the light theme.
type Options struct {
	PageSize    string
	Orientation string
	Theme       string
}

func (o Options) withDefaults() Options {
	if o.PageSize == "" {
		o.PageSize = "A4"
	}
	if o.Orientation == "" {
		o.Orientation = OrientationPortrait
	}
	if o.Theme == "" {
		o.Theme = ThemeLight
	}
	return o
}

// renderer maps the options onto mdtopdf's arguments.
func (o Options) renderer(pdfPath string) (*mdtopdf.PdfRenderer, error) {
	o = o.withDefaults()
	if !pageSizes[o.PageSize] {
		return nil, fmt.Errorf("%w: page size %q", ErrInvalidOptions, o.PageSize)
	}

	var orientation string
	switch o.Orientation {
	case OrientationPortrait:
		orientation = "P"
	case OrientationLandscape:
		orientation = "L"
	default:
		return nil, fmt.Errorf("%w: orientation %q", ErrInvalidOptions, o.Orientation)
	}

	var theme mdtopdf.Theme
	switch o.Theme {
	case ThemeLight:
		theme = mdtopdf.LIGHT
	case ThemeDark:
		theme = mdtopdf.DARK
	default:
		return nil, fmt.Errorf("%w: theme %q", ErrInvalidOptions, o.Theme)
	}

	return mdtopdf.NewPdfRenderer(orientation, o.PageSize, pdfPath, "", nil, theme), nil
}

// ConvertMarkdownToPDF writes a PDF next to the given .md file and returns its absolute path.
func ConvertMarkdownToPDF(markdownPath string, opts Options) (string, error) {
	if filepath.Ext(markdownPath) != ".md" {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}
	return Write(strings.TrimSuffix(markdownPath, ".md")+".pdf", content, opts)
}

// Write renders Markdown content into a PDF at pdfPath and returns its absolute path.
func Write(pdfPath string, content []byte, opts Options) (string, error) {
	renderer, err := opts.renderer(pdfPath)
	if err != nil {
		return "", err
	}
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}
