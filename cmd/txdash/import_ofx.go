package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/rholibobo/transaction-dashboard/internal/api"
	"github.com/rholibobo/transaction-dashboard/internal/cli"
	"github.com/rholibobo/transaction-dashboard/internal/config"
	"github.com/rholibobo/transaction-dashboard/internal/ofx"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import statement lines from OFX or QFX files exported from your bank.
Every line becomes a completed transaction; lines repeated across files are
imported once.

Examples:
  # Import a single file
  txdash import-ofx ~/Downloads/chase_jan_2024.qfx

  # Import every QFX file in a directory
  txdash import-ofx ~/Downloads/*.qfx

  # Preview without saving
  txdash import-ofx --dry-run ~/Downloads/Chase/*.qfx ~/Downloads/Ally/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	slog.Info("Importing OFX files", "file_count", len(files), "dry_run", dryRun)

	entries, perFile := parseOFXFiles(ctx, files)
	if len(entries) == 0 {
		slog.Warn("No transactions found in any file")
		return nil
	}

	printImportSummary(out, perFile, len(entries))

	if dryRun {
		_, _ = fmt.Fprintln(out, cli.FormatInfo("Dry run complete, no data saved"))
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Storage.Backend == config.BackendMemory {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("The memory backend discards imported transactions on exit; use --store sqlite to keep them"))
	}

	store, err := initStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client, err := newClient(cfg, store, nil, false)
	if err != nil {
		return err
	}

	imported, err := importEntries(ctx, client, entries, out)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d transactions", imported)))
	return nil
}

// expandFiles resolves glob patterns. Patterns matching nothing are kept when
// they name an existing file.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}

	if len(files) == 0 {
		return nil, errors.New("no files found to import")
	}
	return files, nil
}

// parseOFXFiles parses every file and drops lines already seen in an earlier
// file. Unreadable files are logged and skipped.
func parseOFXFiles(ctx context.Context, files []string) ([]ofx.Entry, map[string]int) {
	parser := ofx.NewParser()
	perFile := make(map[string]int, len(files))
	seen := make(map[string]struct{})
	var all []ofx.Entry

	for _, path := range files {
		entries, err := parseOFXFile(ctx, parser, path)
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", path, "error", err)
			continue
		}

		added := 0
		for _, e := range ofx.Dedupe(entries) {
			if _, dup := seen[e.Key()]; dup {
				continue
			}
			seen[e.Key()] = struct{}{}
			all = append(all, e)
			added++
		}

		perFile[filepath.Base(path)] = added
		slog.Info("Processed file",
			"file", filepath.Base(path),
			"transactions_found", len(entries),
			"added", added,
			"duplicates", len(entries)-added)
	}

	return all, perFile
}

func parseOFXFile(ctx context.Context, parser *ofx.Parser, path string) ([]ofx.Entry, error) {
	f, err := os.Open(path) //nolint:gosec // user-supplied import path
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return parser.ParseFile(ctx, f)
}

func printImportSummary(w io.Writer, perFile map[string]int, total int) {
	names := make([]string, 0, len(perFile))
	for name := range perFile {
		names = append(names, name)
	}
	sort.Strings(names)

	_, _ = fmt.Fprintln(w, cli.FormatTitle("File import summary"))
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "  - %s: %d transactions\n", name, perFile[name])
	}
	_, _ = fmt.Fprintf(w, "  Total: %d unique transactions\n\n", total)
}

// importEntries creates a transaction per entry. A cancelled context stops the
// import between entries and reports how far it got.
func importEntries(ctx context.Context, client *api.Client, entries []ofx.Entry, w io.Writer) (int, error) {
	handler := cli.NewInterruptHandler(w, "Import")
	handler.HandleInterrupts(ctx)
	defer handler.Stop()

	bar := cli.NewProgressBar(w, len(entries), "Importing")
	imported := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return imported, err
		}

		txn, err := client.Create(ctx, e.Data)
		if err != nil {
			return imported, fmt.Errorf("failed to import %s: %w", e.Key(), err)
		}
		imported++
		handler.SetDetail(fmt.Sprintf("%d of %d transactions were imported.", imported, len(entries)))
		slog.Debug("Imported statement line", "fitid", e.FitID, "payee", e.Payee, "id", txn.ID)
		_ = bar.Add(1)
	}
	return imported, nil
}
