package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rholibobo/transaction-dashboard/internal/common"
)

// Run starts the dashboard and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.API == nil {
		return fmt.Errorf("%w: transaction API is required", common.ErrInvalidConfig)
	}

	// Anything written to stderr would corrupt the alt screen.
	if cfg.LogFile != "" {
		logFile, err := tea.LogToFile(cfg.LogFile, "txdash")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() { _ = logFile.Close() }()

		handler, err := common.NewHandler(logFile, cfg.LogLevel, "console")
		if err != nil {
			return err
		}
		previous := slog.Default()
		slog.SetDefault(slog.New(handler))
		defer slog.SetDefault(previous)
	}

	program := tea.NewProgram(
		newModel(ctx, cfg),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	slog.Info("Starting dashboard")
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
