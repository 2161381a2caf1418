package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/wordbridge/internal/database"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migration commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrateUp(cmd)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrateUp(cmd)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the state of every migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, db, err := openDatabase(cmd.Context())
				if err != nil {
					return err
				}
				defer func() {
					_ = db.Close()
				}()
				return database.MigrationStatus(db)
			},
		},
	)
	return cmd
}

func migrateUp(cmd *cobra.Command) error {
	_, db, err := openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("database.Migrate() > %w", err)
	}
	version, err := database.MigrationVersion(db)
	if err != nil {
		return fmt.Errorf("database.MigrationVersion() > %w", err)
	}
	green := color.New(color.FgGreen)
	_, _ = green.Fprintf(cmd.OutOrStdout(), "Database is at version %d\n", version)
	return nil
}
