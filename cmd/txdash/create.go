package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rholibobo/transaction-dashboard/internal/cli"
	"github.com/rholibobo/transaction-dashboard/internal/common"
	"github.com/rholibobo/transaction-dashboard/internal/config"
	"github.com/rholibobo/transaction-dashboard/internal/model"
	"github.com/rholibobo/transaction-dashboard/internal/service"
	"github.com/spf13/cobra"
)

// createDateLayouts are accepted by --date, most specific first.
var createDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

type createOptions struct {
	amount      string
	status      string
	date        string
	interactive bool
}

func createCmd() *cobra.Command {
	var opts createOptions

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a transaction",
		Long: `Create a transaction with a freshly generated id.

Examples:
  # A completed payment dated now
  txdash create --amount 42.50

  # A pending payment on a given day
  txdash create --amount 1200 --status pending --date 2024-03-01

  # Prompt for every field
  txdash create -i`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.amount, "amount", "a", "", "transaction amount")
	cmd.Flags().StringVarP(&opts.status, "status", "s", string(model.StatusCompleted), "status (completed, pending, failed)")
	cmd.Flags().StringVarP(&opts.date, "date", "d", "", "transaction date (YYYY-MM-DD or \"YYYY-MM-DD HH:MM\", default now)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "prompt for each field")

	return cmd
}

func runCreate(cmd *cobra.Command, opts createOptions) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	now := time.Now()

	if opts.interactive {
		opts, err = promptCreateOptions(ctx, cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()), opts, now.In(loc))
		if err != nil {
			return err
		}
	}

	data, err := buildCreateData(opts, loc, now)
	if err != nil {
		return err
	}

	store, err := initStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if cfg.Storage.Backend == config.BackendMemory {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("The memory backend discards transactions on exit; use --store sqlite to keep them"))
	}

	client, err := newClient(cfg, store, nil, false)
	if err != nil {
		return err
	}

	return createTransaction(ctx, client, data, loc, cmd.OutOrStdout())
}

// promptCreateOptions asks for each field, offering the flag values as defaults.
func promptCreateOptions(ctx context.Context, p *cli.Prompter, opts createOptions, now time.Time) (createOptions, error) {
	var err error

	if opts.amount, err = p.Ask(ctx, "Amount", opts.amount); err != nil {
		return opts, err
	}
	if opts.status, err = p.Ask(ctx, "Status (completed/pending/failed)", opts.status); err != nil {
		return opts, err
	}
	def := opts.date
	if def == "" {
		def = now.Format("2006-01-02 15:04")
	}
	if opts.date, err = p.Ask(ctx, "Date", def); err != nil {
		return opts, err
	}
	return opts, nil
}

// buildCreateData parses the options and applies the create-form rules.
func buildCreateData(opts createOptions, loc *time.Location, now time.Time) (model.CreateTransactionData, error) {
	var data model.CreateTransactionData

	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(opts.amount), "$"))
	if text == "" {
		return data, common.NewUserError("An amount is required: pass --amount or use --interactive", nil)
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
	if err != nil {
		return data, common.NewUserError(fmt.Sprintf("Invalid amount %q", opts.amount), err)
	}
	data.Amount = amount
	data.Status = model.Status(strings.ToLower(strings.TrimSpace(opts.status)))

	data.Date = now
	if s := strings.TrimSpace(opts.date); s != "" {
		parsed, ok := parseCreateDate(s, loc)
		if !ok {
			return data, common.NewUserError(fmt.Sprintf("Invalid date %q: use YYYY-MM-DD or \"YYYY-MM-DD HH:MM\"", opts.date), nil)
		}
		data.Date = parsed
	}

	if err := data.Validate(now); err != nil {
		if errs, ok := model.AsValidationErrors(err); ok && len(errs) > 0 {
			return data, common.NewUserError(errs[0].Message, err)
		}
		return data, err
	}
	return data, nil
}

func parseCreateDate(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range createDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func createTransaction(ctx context.Context, api service.TransactionAPI, data model.CreateTransactionData, loc *time.Location, w io.Writer) error {
	txn, err := api.CreateTransaction(ctx, data)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = fmt.Fprintf(w, "%s\n%s\n",
		cli.FormatSuccess(fmt.Sprintf("Created %s", txn.ID)),
		cli.RenderTransactions([]model.Transaction{txn}, loc))
	return err
}
