// Package config handles configuration loading for edgarsift.
// It supports YAML config files with environment variable overrides and
// validates the result before any processing begins: a bad config is the
// only fatal condition in the system.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/edgarsift/edgarsift/internal/logging"
)

// Config represents the complete application configuration.
type Config struct {
	SEC       SECConfig      `mapstructure:"sec"       yaml:"sec"`
	Screen    ScreenConfig   `mapstructure:"screen"    yaml:"screen"`
	Watchlist []string       `mapstructure:"watchlist" yaml:"watchlist" validate:"required,min=1,dive,uppercase"`
	Research  ResearchConfig `mapstructure:"research"  yaml:"research"`
	Output    OutputConfig   `mapstructure:"output"    yaml:"output"`
	Logging   logging.Config `mapstructure:"logging"   yaml:"logging"`
}

// SECConfig holds SEC EDGAR access settings. The SEC requires an
// identifying User-Agent (company/contact) on every request.
type SECConfig struct {
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent" validate:"required"`
	RateLimit int    `mapstructure:"rate_limit" yaml:"rate_limit" validate:"gt=0"` // requests/second
}

// ScreenConfig holds revenue-screen settings.
type ScreenConfig struct {
	MaxTickers    int `mapstructure:"max_tickers"    yaml:"max_tickers"    validate:"gte=0"` // 0 = full universe
	Concurrency   int `mapstructure:"concurrency"    yaml:"concurrency"    validate:"gt=0"`
	RetryAttempts int `mapstructure:"retry_attempts" yaml:"retry_attempts" validate:"gte=1"`
	RetryBackoff  int `mapstructure:"retry_backoff"  yaml:"retry_backoff"  validate:"gt=0"` // milliseconds
}

// ResearchConfig holds analyst research input settings. The research file is
// optional; a missing file means "no analyst data", which is a valid state.
type ResearchConfig struct {
	File   string `mapstructure:"file"   yaml:"file"`
	Scrape bool   `mapstructure:"scrape" yaml:"scrape"` // scrape ratings pages for tickers absent from the file
}

// OutputConfig holds persistence settings.
type OutputConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir" validate:"required"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.edgarsift/config.yaml (home directory)
//  3. /etc/edgarsift/config.yaml (system)
//
// Environment variables override config file values.
// Format: EDGARSIFT_<SECTION>_<KEY>, e.g., EDGARSIFT_SEC_USER_AGENT
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".edgarsift"))
	v.AddConfigPath("/etc/edgarsift")

	v.SetEnvPrefix("EDGARSIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars.
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("EDGARSIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Ticker symbols compare case-sensitively downstream; normalize once here.
	for i, t := range cfg.Watchlist {
		cfg.Watchlist[i] = strings.ToUpper(strings.TrimSpace(t))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration. It returns a descriptive error for the
// first invalid field; callers treat any error as fatal.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("invalid configuration: field %s failed rule %q", e.Namespace(), e.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// SEC defaults. The user agent has no default on purpose: the SEC
	// requires a real contact and anonymous agents get blocked.
	v.SetDefault("sec.rate_limit", 8)

	// Screen defaults.
	v.SetDefault("screen.max_tickers", 0)
	v.SetDefault("screen.concurrency", 4)
	v.SetDefault("screen.retry_attempts", 3)
	v.SetDefault("screen.retry_backoff", 500)

	// Watchlist default: tickers the user always wants fully scored,
	// regardless of the revenue screen outcome.
	v.SetDefault("watchlist", []string{
		"GOOGL", "TSM", "MSFT", "NVDA", "BABA", "JNJ", "SONY", "WMT",
		"AMZN", "JD", "SERV", "AMD", "EH", "NICE", "QBTS", "GE",
	})

	// Research defaults.
	v.SetDefault("research.file", "output/external_research.csv")
	v.SetDefault("research.scrape", false)

	// Output defaults.
	v.SetDefault("output.dir", "output")

	// Logging defaults.
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
