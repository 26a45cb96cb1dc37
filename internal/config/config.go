// Package config loads CLI configuration from YAML, .env files and TWAP_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"nft-floor-twap/internal/domain"
)

// Source kinds.
const (
	SourceHTTP       = "http"
	SourceFile       = "file"
	SourceMemory     = "memory"
	SourcePostgres   = "postgres"
	SourceClickHouse = "clickhouse"
)

// Output formats.
const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// DefaultMaxRetries applies when source.max_retries is unset.
const DefaultMaxRetries = 3

// Config holds all application configuration.
type Config struct {
	Collection string `yaml:"collection"`

	Source struct {
		Kind          string        `yaml:"kind"`
		URLPattern    string        `yaml:"url_pattern"`
		Dir           string        `yaml:"dir"`
		PostgresDSN   string        `yaml:"postgres_dsn"`
		ClickHouseDSN string        `yaml:"clickhouse_dsn"`
		Timeout       time.Duration `yaml:"timeout"`     // 0 selects 30s
		MaxRetries    *int          `yaml:"max_retries"` // nil selects 3; 0 disables retries
	} `yaml:"source"`

	Twap struct {
		WindowHours []int `yaml:"window_hours"`
		Verify      bool  `yaml:"verify"`
	} `yaml:"twap"`

	Output struct {
		Format string `yaml:"format"`
		Path   string `yaml:"path"` // empty means stdout
	} `yaml:"output"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`

	Metrics struct {
		Addr string `yaml:"addr"` // empty disables the /metrics listener
	} `yaml:"metrics"`
}

// LoadEnv loads .env files into the process environment. Missing files are
// skipped. Variables already set are not overwritten.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. An empty path or a missing file yields a config
// built from the environment and defaults only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TWAP_COLLECTION"); v != "" {
		c.Collection = v
	}
	if v := os.Getenv("TWAP_SOURCE"); v != "" {
		c.Source.Kind = v
	}
	if v := os.Getenv("TWAP_URL_PATTERN"); v != "" {
		c.Source.URLPattern = v
	}
	if v := os.Getenv("TWAP_DIR"); v != "" {
		c.Source.Dir = v
	}
	if v := os.Getenv("TWAP_POSTGRES_DSN"); v != "" {
		c.Source.PostgresDSN = v
	}
	if v := os.Getenv("TWAP_CLICKHOUSE_DSN"); v != "" {
		c.Source.ClickHouseDSN = v
	}
	if v := os.Getenv("TWAP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TWAP_TIMEOUT: %w", err)
		}
		c.Source.Timeout = d
	}
	if v := os.Getenv("TWAP_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TWAP_MAX_RETRIES: %w", err)
		}
		c.Source.MaxRetries = &n
	}
	if v := os.Getenv("TWAP_WINDOWS"); v != "" {
		windows, err := ParseWindows(v)
		if err != nil {
			return fmt.Errorf("TWAP_WINDOWS: %w", err)
		}
		c.Twap.WindowHours = windows
	}
	if v := os.Getenv("TWAP_VERIFY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TWAP_VERIFY: %w", err)
		}
		c.Twap.Verify = b
	}
	if v := os.Getenv("TWAP_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("TWAP_OUTPUT"); v != "" {
		c.Output.Path = v
	}
	if v := os.Getenv("TWAP_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("TWAP_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Source.Kind == "" {
		c.Source.Kind = SourceHTTP
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = 30 * time.Second
	}
	if c.Source.MaxRetries == nil {
		retries := DefaultMaxRetries
		c.Source.MaxRetries = &retries
	}
	if len(c.Twap.WindowHours) == 0 {
		c.Twap.WindowHours = append([]int(nil), domain.DefaultWindowHours...)
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatCSV
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that all required fields are set for the selected source.
func (c *Config) Validate() error {
	if c.Collection == "" {
		return fmt.Errorf("collection is required")
	}

	switch c.Source.Kind {
	case SourceHTTP:
		if c.Source.URLPattern == "" {
			return fmt.Errorf("source.url_pattern is required for http source")
		}
	case SourceFile:
		if c.Source.Dir == "" {
			return fmt.Errorf("source.dir is required for file source")
		}
	case SourcePostgres:
		if c.Source.PostgresDSN == "" {
			return fmt.Errorf("source.postgres_dsn is required for postgres source")
		}
	case SourceClickHouse:
		if c.Source.ClickHouseDSN == "" {
			return fmt.Errorf("source.clickhouse_dsn is required for clickhouse source")
		}
	case SourceMemory:
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}

	if c.Source.Timeout < 0 {
		return fmt.Errorf("source.timeout cannot be negative")
	}
	if c.Source.MaxRetries == nil || *c.Source.MaxRetries < 0 {
		return fmt.Errorf("source.max_retries cannot be negative")
	}

	seen := make(map[int]bool, len(c.Twap.WindowHours))
	for _, h := range c.Twap.WindowHours {
		if h <= 0 {
			return fmt.Errorf("twap.window_hours must be positive, got %d", h)
		}
		if seen[h] {
			return fmt.Errorf("twap.window_hours contains duplicate %d", h)
		}
		seen[h] = true
	}

	switch c.Output.Format {
	case FormatCSV, FormatJSON, FormatMarkdown:
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}

	return nil
}

// ParseWindows parses a comma-separated list of window hours such as "1,4,8".
func ParseWindows(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	windows := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		h, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid window %q: %w", p, err)
		}
		windows = append(windows, h)
	}
	if len(windows) == 0 {
		return nil, fmt.Errorf("no windows in %q", s)
	}
	return windows, nil
}
