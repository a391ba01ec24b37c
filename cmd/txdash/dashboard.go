package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rholibobo/transaction-dashboard/internal/common"
	"github.com/rholibobo/transaction-dashboard/internal/metrics"
	"github.com/rholibobo/transaction-dashboard/internal/tui"
	"github.com/rholibobo/transaction-dashboard/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive transaction dashboard",
		Long: `Browse the transaction list with search, status and date filters, sortable
columns and pagination, and create new transactions from the second tab.

Logs are written to the dashboard log file while the dashboard is open.`,
		RunE: runDashboard,
	}

	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().String("theme", "default", "color theme (default, catppuccin-mocha)")

	_ = viper.BindPFlag("metrics.addr", cmd.Flags().Lookup("metrics-addr"))
	_ = viper.BindPFlag("dashboard.theme", cmd.Flags().Lookup("theme"))

	return cmd
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := initStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.NewMetrics(registry)
	if count, countErr := store.Count(ctx); countErr == nil {
		m.SetStoreSize(count)
	}

	client, err := newClient(cfg, store, m, true)
	if err != nil {
		return err
	}

	if cfg.Metrics.Addr != "" {
		slog.Info("Serving metrics", "addr", cfg.Metrics.Addr)
		go func() {
			if serveErr := serveMetrics(ctx, cfg.Metrics.Addr, m.Handler()); serveErr != nil {
				slog.Error("Metrics server failed", "error", serveErr)
			}
		}()
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	level, err := common.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}

	return tui.Run(ctx,
		tui.WithAPI(client),
		tui.WithTheme(themes.GetTheme(cfg.Dashboard.Theme)),
		tui.WithLocation(loc),
		tui.WithLogFile(cfg.Dashboard.LogFile, level),
	)
}

// serveMetrics serves /metrics on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string, handler http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve metrics: %w", err)
	}
	return nil
}
