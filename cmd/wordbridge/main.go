package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/wordbridge/internal/client"
	"github.com/at-ishikawa/wordbridge/internal/config"
	"github.com/at-ishikawa/wordbridge/internal/database"
)

var (
	configFile string
	debugMode  bool
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError prints err and, for rejected requests, every field the server complained about.
func printError(w io.Writer, err error) {
	_, _ = color.New(color.FgRed).Fprintf(w, "error: %v\n", err)
	for _, v := range client.FieldViolations(err) {
		fmt.Fprintf(w, "  %s: %s\n", v.GetField(), v.GetDescription())
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordbridge",
		Short:         "Operate and query a wordbridge dictionary",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(debugMode)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newMigrateCommand(),
		newSeedCommand(),
		newLedgerCommand(),
		newExportCommand(),
		newLanguagesCommand(),
		newSearchCommand(),
		newWordsCommand(),
		newContributionsCommand(),
	)
	return rootCmd
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level, AddSource: true})))
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

// openDatabase loads the configuration and connects to its database.
// The caller closes the returned connection.
func openDatabase(ctx context.Context) (*config.Config, *sqlx.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loadConfig() > %w", err)
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("database.Open() > %w", err)
	}
	if err := database.WaitReady(ctx, db, cfg.Database.ReadyAttempts, slog.Default()); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("database.WaitReady() > %w", err)
	}
	return cfg, db, nil
}
