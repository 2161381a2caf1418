package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/wordbridge/internal/glossary"
	"github.com/at-ishikawa/wordbridge/internal/language"
	"github.com/at-ishikawa/wordbridge/internal/lexicon"
	"github.com/at-ishikawa/wordbridge/internal/pdf"
)

func newExportCommand() *cobra.Command {
	var format string
	var languageCode string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the dictionary as a YAML, Markdown or PDF glossary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := glossary.ParseFormat(format)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			cfg, db, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			if output == "" {
				output = cfg.Export.Directory
			}
			exporter := glossary.NewExporter(db, language.NewDBRepository(), lexicon.NewDBWordRepository(), slog.Default())
			paths, err := exporter.Export(ctx, glossary.Options{
				Format:       f,
				LanguageCode: languageCode,
				Directory:    output,
				TemplatePath: cfg.Export.GlossaryTemplate,
				PDF: pdf.Options{
					PageSize:    cfg.Export.PDF.PageSize,
					Orientation: cfg.Export.PDF.Orientation,
					Theme:       cfg.Export.PDF.Theme,
				},
			})
			if err != nil {
				return fmt.Errorf("exporter.Export() > %w", err)
			}
			for _, path := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(glossary.FormatYAML), "Output format: yaml, markdown or pdf")
	cmd.Flags().StringVar(&languageCode, "language", "", "Only export words of this language code")
	cmd.Flags().StringVar(&output, "output", "", "Output directory (default: export.directory)")
	return cmd
}
