// Package config loads the scraper configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"bible-scraper/merge"
	"bible-scraper/noise"
	"bible-scraper/remap"
	"bible-scraper/utils"
)

// DefaultPath is read when --config is not given and the file exists.
const DefaultPath = "bible-scraper.yaml"

// Configuration validation errors.
var (
	ErrMissingOutput       = errors.New("output is required")
	ErrInvalidWorkers      = errors.New("workers must be at least 1")
	ErrInvalidRateInterval = errors.New("fetch.rate_interval must be non-negative")
	ErrInvalidRetryCount   = errors.New("fetch.retry_count must be non-negative")
	ErrInvalidTimeout      = errors.New("fetch.timeout must be positive")
	ErrInvalidLogLevel     = errors.New("log_level must be one of: trace, debug, info, warn, error")
	ErrInvalidSource       = errors.New("invalid source configuration")
	ErrInvalidRemap        = errors.New("invalid remap table")
	ErrUnknownRemap        = errors.New("unknown remap table")
)

type Config struct {
	Output   string                  `yaml:"output"`
	LogLevel string                  `yaml:"log_level"`
	Workers  int                     `yaml:"workers"`
	Fetch    FetchConfig             `yaml:"fetch"`
	Sources  map[string]SourceConfig `yaml:"sources"`
	Remap    map[string]remap.Table  `yaml:"remap"`
}

// FetchConfig paces and retries requests. Durations use Go syntax ("2s").
type FetchConfig struct {
	RateInterval time.Duration `yaml:"rate_interval"`
	RetryCount   int           `yaml:"retry_count"`
	RetryWait    time.Duration `yaml:"retry_wait"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
}

// SourceConfig overrides a source's defaults. Empty Rules or Policy keep the
// source's own choice; Options are source specific (version, layout, ...).
type SourceConfig struct {
	Rules   []string          `yaml:"rules"`
	Policy  string            `yaml:"policy"`
	Options map[string]string `yaml:"options"`
}

func Default() *Config {
	fetch := utils.DefaultFetchOptions()
	return &Config{
		Output:   "bible.json",
		LogLevel: "info",
		Workers:  1,
		Fetch: FetchConfig{
			RateInterval: fetch.Interval,
			RetryCount:   fetch.RetryCount,
			RetryWait:    fetch.RetryWait,
			Timeout:      fetch.Timeout,
			UserAgent:    fetch.UserAgent,
		},
	}
}

// Load reads path and fills unset fields from Default. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML strictly, merges defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := mergo.Merge(&cfg, Default()); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output) == "" {
		return ErrMissingOutput
	}
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}
	if c.Fetch.RateInterval < 0 {
		return ErrInvalidRateInterval
	}
	if c.Fetch.RetryCount < 0 {
		return ErrInvalidRetryCount
	}
	if c.Fetch.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
			return ErrInvalidLogLevel
		}
	}

	for _, name := range sortedNames(c.Sources) {
		src := c.Sources[name]
		if _, err := noise.Parse(src.Rules); err != nil {
			return fmt.Errorf("%w: sources.%s.rules: %v", ErrInvalidSource, name, err)
		}
		if src.Policy != "" {
			if _, err := merge.ParsePolicy(src.Policy); err != nil {
				return fmt.Errorf("%w: sources.%s.policy: %v", ErrInvalidSource, name, err)
			}
		}
	}
	for _, name := range sortedNames(c.Remap) {
		if err := c.Remap[name].Validate(); err != nil {
			return fmt.Errorf("%w: remap.%s: %v", ErrInvalidRemap, name, err)
		}
	}
	return nil
}

// FetchOptions converts the fetch section for the HTTP and browser fetchers.
func (c *Config) FetchOptions() utils.FetchOptions {
	return utils.FetchOptions{
		Interval:   c.Fetch.RateInterval,
		RetryCount: c.Fetch.RetryCount,
		RetryWait:  c.Fetch.RetryWait,
		Timeout:    c.Fetch.Timeout,
		UserAgent:  c.Fetch.UserAgent,
	}
}

// Source returns the overrides for name; a missing entry is the zero value.
func (c *Config) Source(name string) SourceConfig {
	return c.Sources[name]
}

// RemapTable looks name up in the file first, then in the built-in tables.
func (c *Config) RemapTable(name string) (remap.Table, error) {
	if t, ok := c.Remap[name]; ok {
		return t, nil
	}
	if t, ok := remap.Builtin(name); ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRemap, name)
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
