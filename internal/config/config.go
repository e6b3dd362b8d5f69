// Package config loads ownermatch configuration from file and environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/townreach/ownermatch/internal/observability"
)

// Config holds all configuration for the ownermatch tools.
type Config struct {
	// Store contains persistence backend settings.
	Store StoreConfig `mapstructure:"store"`
	// Feeds contains source feed file locations.
	Feeds FeedsConfig `mapstructure:"feeds"`
	// Matching contains reconciliation run settings.
	Matching MatchingConfig `mapstructure:"matching"`
	// Server contains review API server settings.
	Server ServerConfig `mapstructure:"server"`
	// Logging contains structured logging settings.
	Logging observability.LoggingConfig `mapstructure:"logging"`
}

// StoreConfig holds persistence collaborator settings.
type StoreConfig struct {
	// Backend selects the document store: "sqlite" or "postgres".
	Backend string `mapstructure:"backend"`
	// Path is the sqlite database file path.
	Path string `mapstructure:"path"`
	// DSN is the postgres connection string.
	DSN string `mapstructure:"dsn"`
}

// FeedsConfig holds source feed locations.
type FeedsConfig struct {
	// AssessorCSV is the municipal assessor feed export.
	AssessorCSV string `mapstructure:"assessor_csv"`
	// DonorCSV is the donor database export.
	DonorCSV string `mapstructure:"donor_csv"`
	// OverridesCSV is the optional manual force-match/force-exclude list.
	OverridesCSV string `mapstructure:"overrides_csv"`
}

// MatchingConfig holds reconciliation run settings.
type MatchingConfig struct {
	// CollisionPassThrough disables collision checking for batches where
	// it is known to be unreliable; entities are registered as-is.
	CollisionPassThrough bool `mapstructure:"collision_pass_through"`
	// ProgressEvery controls how many records between progress reports.
	ProgressEvery int `mapstructure:"progress_every"`
}

// ServerConfig holds review API server settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Load reads configuration from the given file (optional) and the
// environment. Environment variables use the OWNERMATCH_ prefix with
// underscores, e.g. OWNERMATCH_STORE_BACKEND.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("OWNERMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite backend")
		}
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want sqlite or postgres)", c.Store.Backend)
	}

	if c.Matching.ProgressEvery < 1 {
		return fmt.Errorf("matching.progress_every must be at least 1")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", "sqlite")
	v.SetDefault("store.path", "ownermatch.db")
	v.SetDefault("store.dsn", "")
	v.SetDefault("feeds.assessor_csv", "")
	v.SetDefault("feeds.donor_csv", "")
	v.SetDefault("feeds.overrides_csv", "")
	v.SetDefault("matching.collision_pass_through", false)
	v.SetDefault("matching.progress_every", 250)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8085)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")
}
