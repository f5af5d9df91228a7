package config

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/scipunch/newspulse/fetcher"
	"github.com/scipunch/newspulse/sentiment"
)

const (
	baseCfgPath = "newspulse/config.toml"

	DefaultQuery = "Inteligência Artificial Piauí"
	DefaultLimit = 15
	MinLimit     = 5
	MaxLimit     = 30
)

type Config struct {
	Query           string          `toml:"query"`
	Limit           int             `toml:"limit"`
	Feed            FeedConfig      `toml:"feed"`
	Lexicon         LexiconConfig   `toml:"lexicon"`
	Dashboard       DashboardConfig `toml:"dashboard"`
	DatabasePath    string          `toml:"database_path"`    // Snapshot of the current result set
	OutputDirectory string          `toml:"output_directory"` // Directory for exports and the HTML dashboard
	LogLevel        string          `toml:"log_level"`        // debug, info, warn, error
	Tracing         bool            `toml:"tracing"`          // Export OpenTelemetry spans to stderr
}

type FeedConfig struct {
	Endpoint  string         `toml:"endpoint"`
	Locale    fetcher.Locale `toml:"locale"`
	Timeout   Duration       `toml:"timeout"`
	UserAgent string         `toml:"user_agent"`
}

// LexiconConfig overrides the built-in keyword lists. An empty list keeps the default.
type LexiconConfig struct {
	Positive []string `toml:"positive"`
	Negative []string `toml:"negative"`
}

type DashboardConfig struct {
	CloudWords int `toml:"cloud_words"` // Number of words in the word cloud
}

// Duration is a time.Duration written as "10s" in TOML
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// FetcherOptions converts the feed section into fetcher options
func (c Config) FetcherOptions() fetcher.Options {
	return fetcher.Options{
		Endpoint:  c.Feed.Endpoint,
		Locale:    c.Feed.Locale,
		Timeout:   c.Feed.Timeout.Duration,
		UserAgent: c.Feed.UserAgent,
	}
}

// BuildLexicon returns the configured lexicon
func (c Config) BuildLexicon() (*sentiment.Lexicon, error) {
	positive := c.Lexicon.Positive
	if len(positive) == 0 {
		positive = sentiment.DefaultPositive
	}
	negative := c.Lexicon.Negative
	if len(negative) == 0 {
		negative = sentiment.DefaultNegative
	}
	return sentiment.NewLexicon(positive, negative)
}

// Validate checks ranges the CLI enforces
func (c Config) Validate() error {
	if c.Limit < MinLimit || c.Limit > MaxLimit {
		return fmt.Errorf("limit must be between %d and %d, got %d", MinLimit, MaxLimit, c.Limit)
	}
	if c.Feed.Timeout.Duration < 0 {
		return fmt.Errorf("feed timeout must not be negative, got %s", c.Feed.Timeout)
	}
	return nil
}

func Read(path string) (Config, error) {
	conf := Default()
	dat, err := os.ReadFile(path)
	if err != nil {
		return conf, err
	}
	_, err = toml.Decode(string(dat), &conf)
	if err != nil {
		return conf, fmt.Errorf("failed to decode config at %s with %w", path, err)
	}
	return conf, nil
}

func Write(cfgPath string, cfg Config) error {
	blob, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config with %w", err)
	}
	basePath := path.Dir(cfgPath)
	err = os.MkdirAll(basePath, os.ModePerm)
	if err != nil {
		return fmt.Errorf("failed to create base config directory at '%s' with %w", basePath, err)
	}
	err = os.WriteFile(cfgPath, blob, 0644)
	if err != nil {
		return fmt.Errorf("failed to write into config file at '%s' with %w", cfgPath, err)
	}
	slog.Info("config written", "at", cfgPath)
	return nil
}

func Default() Config {
	var home = os.Getenv("HOME")
	var dbBase = path.Join(home, ".local/share/newspulse")
	return Config{
		Query: DefaultQuery,
		Limit: DefaultLimit,
		Feed: FeedConfig{
			Endpoint:  fetcher.DefaultEndpoint,
			Locale:    fetcher.DefaultLocale,
			Timeout:   Duration{fetcher.DefaultTimeout},
			UserAgent: fetcher.DefaultUserAgent,
		},
		Dashboard: DashboardConfig{
			CloudWords: 50,
		},
		DatabasePath:    path.Join(dbBase, "session.db"),
		OutputDirectory: ".",
		LogLevel:        "info",
	}
}

func DefaultPath() string {
	var xdgHome = os.Getenv("XDG_CONFIG_HOME")
	if xdgHome != "" {
		return path.Join(xdgHome, baseCfgPath)
	}

	var home = os.Getenv("HOME")
	if home != "" {
		return path.Join(home, ".config", baseCfgPath)
	}

	panic("unclear where to search for the config file")
}
