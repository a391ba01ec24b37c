package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rholibobo/transaction-dashboard/internal/cli"
	"github.com/rholibobo/transaction-dashboard/internal/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "txdash",
		Short: cli.CardIcon + " Transaction dashboard",
		Long: `txdash: browse, search, filter and create transactions from the terminal.

Run "txdash dashboard" for the interactive view, or use the list and create
commands from scripts.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/txdash/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("store", "memory", "storage backend (memory, sqlite)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (default: $HOME/.local/share/txdash/txdash.db)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("storage.backend", rootCmd.PersistentFlags().Lookup("store"))

	// Add commands
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(createCmd())
	rootCmd.AddCommand(importOFXCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError reports a failed command. User errors show only their message.
func printError(w io.Writer, err error) {
	msg := err.Error()
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		msg = userErr.UserMessage
	}
	_, _ = fmt.Fprintln(w, cli.FormatError(msg))
}

func initConfig(cmd *cobra.Command, _ []string) error {
	// A .env file next to the binary's working directory is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/txdash", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("TXDASH")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// --db only overrides the configured path when given.
	if flag := cmd.Flags().Lookup("db"); flag != nil && flag.Changed {
		viper.Set("storage.path", flag.Value.String())
	}

	// Set up logging
	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging() error {
	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return err
	}
	return common.SetupLogger(level, viper.GetString("logging.format"))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "txdash %s\n", version)
		},
	}
}
