package main

import (
	"fmt"
	"log/slog"

	"github.com/rholibobo/transaction-dashboard/internal/cli"
	"github.com/rholibobo/transaction-dashboard/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the SQLite database schema to the latest version.

When storage.seed is enabled an empty database is loaded with the sample
transactions afterwards.`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	status, _ := cmd.Flags().GetBool("status")
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dbPath := cfg.Storage.Path

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if status {
		current, err := store.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, cli.FormatTitle("Database Migration Status"))
		_, _ = fmt.Fprintf(out, "  Database: %s\n  Current version: %d\n  Latest version: %d\n",
			dbPath, current, storage.ExpectedSchemaVersion)
		if current < storage.ExpectedSchemaVersion {
			_, _ = fmt.Fprintln(out, cli.FormatWarning("Pending migrations; run txdash migrate"))
		}
		return nil
	}

	slog.Info("Running database migrations", "database", dbPath)

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if cfg.Storage.Seed {
		if err := seedSQLite(ctx, store); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, cli.FormatSuccess("Database migrations completed successfully"))
	return nil
}
