package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/wordbridge/internal/contribution"
	"github.com/at-ishikawa/wordbridge/internal/ranking"
	"github.com/at-ishikawa/wordbridge/internal/user"
)

func newLedgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Contribution ledger maintenance",
	}
	cmd.AddCommand(newLedgerReconcileCommand(), newLedgerVerifyCommand())
	return cmd
}

func newLedgerReconcileCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Re-derive every contributor's count and rank from the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, db, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			engine := ranking.NewEngine(db, user.NewDBRepository(), contribution.NewDBRepository(), slog.Default())
			drifts, err := engine.Reconcile(ctx, dryRun)
			if err != nil {
				return fmt.Errorf("engine.Reconcile() > %w", err)
			}

			out := cmd.OutOrStdout()
			if len(drifts) == 0 {
				_, _ = color.New(color.FgGreen).Fprintln(out, "Every contributor matches the ledger.")
				return nil
			}
			for _, d := range drifts {
				printDrift(out, d)
			}
			if dryRun {
				fmt.Fprintf(out, "%d contributor(s) drifted (dry-run, nothing repaired)\n", len(drifts))
				return nil
			}
			fmt.Fprintf(out, "%d contributor(s) repaired\n", len(drifts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report drift without repairing it")
	return cmd
}

func newLedgerVerifyCommand() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare one contributor's cached count and rank with the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, db, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			engine := ranking.NewEngine(db, user.NewDBRepository(), contribution.NewDBRepository(), slog.Default())
			drift, err := engine.Verify(ctx, userID)
			if err != nil {
				return fmt.Errorf("engine.Verify() > %w", err)
			}
			if drift != nil {
				printDrift(cmd.OutOrStdout(), *drift)
				return fmt.Errorf("user %s drifted from the ledger", userID)
			}
			_, _ = color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "User %s matches the ledger.\n", userID)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id to verify")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func printDrift(w io.Writer, d ranking.Drift) {
	yellow := color.New(color.FgYellow)
	_, _ = yellow.Fprintf(w, "%s (%s)", d.Username, d.UserID)
	fmt.Fprintf(w, ": cached count=%d rank=%d, ledger count=%d rank=%d\n",
		d.Cached.Count, d.Cached.Rank, d.Derived.Count, d.Derived.Rank)
}
