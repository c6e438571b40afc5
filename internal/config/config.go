package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lachiem1/tallyUp/internal/logging"
	"github.com/lachiem1/tallyUp/internal/source"
)

// Config represents the tallyup config.yaml file after env overrides.
type Config struct {
	// Source is "csv" or "quickbooks".
	Source     string           `yaml:"source"`
	CSVPath    string           `yaml:"csv_path,omitempty"`
	QuickBooks QuickBooksConfig `yaml:"quickbooks"`
	Log        LogConfig        `yaml:"log"`
}

// QuickBooksConfig points the remote source at one company.
type QuickBooksConfig struct {
	RealmID      string        `yaml:"realm_id,omitempty"`
	BaseURL      string        `yaml:"base_url,omitempty"`
	MinorVersion string        `yaml:"minor_version,omitempty"`
	Timeout      time.Duration `yaml:"timeout"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Path     string `yaml:"path,omitempty"`
	Level    string `yaml:"level"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Source: string(source.KindCSV),
		QuickBooks: QuickBooksConfig{
			BaseURL:      "https://quickbooks.api.intuit.com",
			MinorVersion: "75",
			Timeout:      15 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.config/tallyup/config.yaml, or the platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "config.yaml"
	}
	return filepath.Join(dir, "tallyup", "config.yaml")
}

// Load reads a config file from disk over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Resolve builds the effective configuration: the YAML file, then any .env
// file in the working directory, then environment variables. When explicit
// is false a missing file falls back to Default.
func Resolve(path string, explicit bool) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}

	_ = godotenv.Load()
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// ApplyEnv overrides fields from non-empty environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	setString(&c.Source, getenv("TALLYUP_SOURCE"))
	setString(&c.CSVPath, getenv("TALLYUP_CSV"))
	setString(&c.QuickBooks.RealmID, getenv("QUICKBOOKS_REALM_ID"))
	setString(&c.QuickBooks.BaseURL, getenv("QUICKBOOKS_BASE_URL"))
	setString(&c.QuickBooks.MinorVersion, getenv("QUICKBOOKS_MINOR_VERSION"))
	setString(&c.Log.Path, getenv("TALLYUP_LOG_PATH"))
	setString(&c.Log.Level, getenv("TALLYUP_LOG_LEVEL"))
	if value := strings.TrimSpace(getenv("QUICKBOOKS_TIMEOUT")); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			c.QuickBooks.Timeout = d
		}
	}
}

func setString(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

// Validate validates the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var problems []string

	kind, err := source.ParseKind(c.Source)
	if err != nil {
		problems = append(problems, err.Error())
	}
	if kind == source.KindQuickBooks && strings.TrimSpace(c.QuickBooks.RealmID) == "" {
		problems = append(problems, "QuickBooks realm id is required when source is quickbooks (set quickbooks.realm_id or QUICKBOOKS_REALM_ID)")
	}

	if c.QuickBooks.BaseURL != "" {
		if parsed, err := url.Parse(c.QuickBooks.BaseURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid QuickBooks base URL '%s': %v", c.QuickBooks.BaseURL, err))
		} else if parsed.Scheme != "https" && parsed.Scheme != "http" {
			problems = append(problems, fmt.Sprintf("invalid QuickBooks base URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
		}
	}

	if c.QuickBooks.Timeout < time.Second {
		problems = append(problems, fmt.Sprintf("invalid QuickBooks timeout %v: must be at least 1 second", c.QuickBooks.Timeout))
	} else if c.QuickBooks.Timeout > 5*time.Minute {
		problems = append(problems, fmt.Sprintf("invalid QuickBooks timeout %v: must be at most 5 minutes", c.QuickBooks.Timeout))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// SourceKind returns the parsed source kind. Call after Validate.
func (c *Config) SourceKind() source.Kind {
	kind, err := source.ParseKind(c.Source)
	if err != nil {
		return source.KindCSV
	}
	return kind
}

// LogOptions converts the log section for logging.New.
func (c *Config) LogOptions() logging.Options {
	return logging.Options{
		Path:     c.Log.Path,
		Level:    c.Log.Level,
		Disabled: c.Log.Disabled,
	}
}
