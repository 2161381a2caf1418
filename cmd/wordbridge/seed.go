package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/wordbridge/internal/language"
	"github.com/at-ishikawa/wordbridge/internal/seed"
	"github.com/at-ishikawa/wordbridge/internal/user"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default languages and the admin user when they are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, db, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			seeder := seed.NewSeeder(db, language.NewDBRepository(), user.NewDBRepository(), slog.Default())
			result, err := seeder.Run(ctx, cfg.Seed)
			if err != nil {
				return fmt.Errorf("seeder.Run() > %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Languages created: %d\n", result.LanguagesCreated)
			if result.AdminCreated {
				fmt.Fprintf(out, "Admin user %q created\n", cfg.Seed.Admin.Username)
			}
			return nil
		},
	}
}
