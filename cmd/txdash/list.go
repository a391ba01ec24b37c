package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/itchyny/gojq"
	"github.com/rholibobo/transaction-dashboard/internal/cli"
	"github.com/rholibobo/transaction-dashboard/internal/common"
	"github.com/rholibobo/transaction-dashboard/internal/model"
	"github.com/rholibobo/transaction-dashboard/internal/service"
	"github.com/spf13/cobra"
)

// listOptions holds the list command flags.
type listOptions struct {
	search    string
	status    string
	from      string
	to        string
	sortBy    string
	direction string
	output    string
	jq        string
	page      int
}

func listCmd() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Query transactions",
		Long: `Run one dashboard query and print the resulting page.

Examples:
  # Second page of pending transactions, largest first
  txdash list --status pending --sort amount --page 2

  # Transactions in May 2023 whose id or amount contains "1500"
  txdash list --search 1500 --from 2023-05-01 --to 2023-05-31

  # Ids of failed transactions as JSON
  txdash list --status failed --jq '[.transactions[].id]'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "page number")
	cmd.Flags().StringVarP(&opts.search, "search", "q", "", "search by id or amount")
	cmd.Flags().StringVarP(&opts.status, "status", "s", "all", "status filter (all, completed, pending, failed)")
	cmd.Flags().StringVar(&opts.from, "from", "", "earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.to, "to", "", "latest date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.sortBy, "sort", "date", "sort field (date, amount, status, id)")
	cmd.Flags().StringVar(&opts.direction, "direction", "desc", "sort direction (asc, desc)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "output format (table, json)")
	cmd.Flags().StringVar(&opts.jq, "jq", "", "jq filter applied to the JSON result (implies --output json)")

	return cmd
}

func runList(cmd *cobra.Command, opts listOptions) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	filters, err := buildFilters(opts, loc)
	if err != nil {
		return err
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

	return listTransactions(ctx, client, filters, opts, loc, cmd.OutOrStdout())
}

// buildFilters validates the flags and converts them into query filters.
func buildFilters(opts listOptions, loc *time.Location) (model.Filters, error) {
	status, err := model.ParseStatus(strings.ToLower(opts.status), true)
	if err != nil {
		return model.Filters{}, common.NewUserError(
			fmt.Sprintf("Invalid --status %q: use all, completed, pending or failed", opts.status), err)
	}

	sortBy := model.SortField(strings.ToLower(opts.sortBy))
	switch sortBy {
	case model.SortByDate, model.SortByAmount, model.SortByStatus, model.SortByID:
	default:
		return model.Filters{}, common.NewUserError(
			fmt.Sprintf("Invalid --sort %q: use date, amount, status or id", opts.sortBy), nil)
	}

	direction := model.SortDirection(strings.ToLower(opts.direction))
	if direction != model.SortAsc && direction != model.SortDesc {
		return model.Filters{}, common.NewUserError(
			fmt.Sprintf("Invalid --direction %q: use asc or desc", opts.direction), nil)
	}

	var r model.DateRange
	for _, bound := range []struct {
		dst  **time.Time
		flag string
		text string
	}{
		{dst: &r.From, flag: "--from", text: opts.from},
		{dst: &r.To, flag: "--to", text: opts.to},
	} {
		if strings.TrimSpace(bound.text) == "" {
			continue
		}
		parsed := model.ParseDateBound(bound.text, loc)
		if parsed == nil {
			return model.Filters{}, common.NewUserError(
				fmt.Sprintf("Invalid %s date %q: use YYYY-MM-DD", bound.flag, bound.text), nil)
		}
		*bound.dst = parsed
	}

	return model.Filters{
		Page:          opts.page,
		SearchQuery:   opts.search,
		StatusFilter:  status,
		DateRange:     r,
		SortBy:        sortBy,
		SortDirection: direction,
	}, nil
}

// listTransactions runs the query and writes the page in the chosen format.
func listTransactions(ctx context.Context, api service.TransactionAPI, filters model.Filters, opts listOptions, loc *time.Location, w io.Writer) error {
	page, err := api.FetchTransactions(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to fetch transactions: %w", err)
	}

	if opts.jq != "" {
		return writeJQ(w, page, opts.jq)
	}

	switch opts.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(page); err != nil {
			return fmt.Errorf("failed to encode transactions: %w", err)
		}
		return nil
	case "table", "":
		if len(page.Transactions) == 0 {
			_, err = fmt.Fprintln(w, cli.FormatInfo("No transactions found"))
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n%s\n", cli.RenderTransactions(page.Transactions, loc), cli.RenderPageFooter(page))
		return err
	default:
		return common.NewUserError(fmt.Sprintf("Invalid --output %q: use table or json", opts.output), nil)
	}
}

// writeJQ runs filter over the JSON form of page and prints every result.
func writeJQ(w io.Writer, page model.Page, filter string) error {
	query, err := gojq.Parse(filter)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Invalid jq filter %q", filter), err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Invalid jq filter %q", filter), err)
	}

	// gojq works on plain JSON values, not Go structs.
	raw, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to encode transactions: %w", err)
	}
	var input any
	if err := json.Unmarshal(raw, &input); err != nil {
		return fmt.Errorf("failed to decode transactions: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("jq filter failed: %w", err)
		}
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode jq result: %w", err)
		}
	}
}
