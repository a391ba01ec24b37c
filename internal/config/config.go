package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rholibobo/transaction-dashboard/internal/common"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// DefaultDatabasePath is where the SQLite backend keeps its file.
const DefaultDatabasePath = "$HOME/.local/share/txdash/txdash.db"

// Config is the application configuration.
type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	API       APIConfig       `mapstructure:"api"`
}

// StorageConfig selects where transactions live.
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // "memory" or "sqlite"
	Path    string `mapstructure:"path"`
	Seed    bool   `mapstructure:"seed"` // load the sample dataset into an empty store
}

// APIConfig holds the simulated latencies.
type APIConfig struct {
	FetchLatency  time.Duration `mapstructure:"fetch_latency"`
	CreateLatency time.Duration `mapstructure:"create_latency"`
}

// DashboardConfig holds TUI preferences.
type DashboardConfig struct {
	Theme    string `mapstructure:"theme"`
	Timezone string `mapstructure:"timezone"`
	LogFile  string `mapstructure:"log_file"`
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds the Prometheus listener address. Empty disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("storage.path", DefaultDatabasePath)
	v.SetDefault("storage.seed", true)
	v.SetDefault("api.fetch_latency", 800*time.Millisecond)
	v.SetDefault("api.create_latency", 1000*time.Millisecond)
	v.SetDefault("dashboard.theme", "default")
	v.SetDefault("dashboard.timezone", "Local")
	v.SetDefault("dashboard.log_file", "$HOME/.local/share/txdash/dashboard.log")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("metrics.addr", "")
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)
	cfg.Dashboard.LogFile = ExpandPath(cfg.Dashboard.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("%w: storage.path is required for the sqlite backend", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", common.ErrInvalidConfig, c.Storage.Backend)
	}

	if c.API.FetchLatency < 0 || c.API.CreateLatency < 0 {
		return fmt.Errorf("%w: latencies cannot be negative", common.ErrInvalidConfig)
	}

	level, err := common.ParseLevel(c.Logging.Level)
	if err != nil {
		return err
	}
	if _, err := common.NewHandler(io.Discard, level, c.Logging.Format); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the dashboard time zone. Empty and "Local" mean the
// system zone.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Dashboard.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", common.ErrInvalidConfig, tz, err)
	}
	return loc, nil
}
