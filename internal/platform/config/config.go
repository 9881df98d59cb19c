// Package config loads service settings from an optional YAML file and then
// applies environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App string `yaml:"app"`

	HTTP      HTTPConfig      `yaml:"http"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
	Auth      AuthConfig      `yaml:"auth"`
	Reminders RemindersConfig `yaml:"reminders"`
	Charts    ChartsConfig    `yaml:"charts"`
}

type HTTPConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig picks the repository backend.
// Driver: "memory" (default), "postgres" or "sqlite".
type StorageConfig struct {
	Driver      string `yaml:"driver"`
	DSN         string `yaml:"dsn"`
	SQLitePath  string `yaml:"sqlite_path"`
	SeedCatalog bool   `yaml:"seed_catalog"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AuthConfig: empty BaseURL means dev mode (X-Debug-User-ID).
type AuthConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type RemindersConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// ChartsConfig holds the two simulation contexts.
type ChartsConfig struct {
	ShortFallbackHours float64 `yaml:"short_fallback_hours"`
	LongFallbackHours  float64 `yaml:"long_fallback_hours"`
	RecentDoseLimit    int     `yaml:"recent_dose_limit"`
}

func Default() Config {
	return Config{
		App: "peptide-tracker",
		HTTP: HTTPConfig{
			Port:            8080,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Driver:      "memory",
			SQLitePath:  "peptide-tracker.db",
			SeedCatalog: true,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Auth:    AuthConfig{Timeout: 5 * time.Second},
		Reminders: RemindersConfig{
			Enabled:  true,
			Interval: 15 * time.Minute,
		},
		Charts: ChartsConfig{
			ShortFallbackHours: 4,
			LongFallbackHours:  24,
			RecentDoseLimit:    200,
		},
	}
}

// Load reads path (if non-empty) over the defaults, then env overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(k string) (string, bool) {
		v, ok := lookup(k)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("APP_NAME"); ok {
		c.App = v
	}
	if v, ok := get("PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.HTTP.Port = n
	}
	if v, ok := get("DB_DRIVER"); ok {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v, ok := get("DB_DSN"); ok {
		c.Storage.DSN = v
		// DB_DSN alone means postgres, same as before the driver switch existed
		if _, explicit := get("DB_DRIVER"); !explicit {
			c.Storage.Driver = "postgres"
		}
	}
	if v, ok := get("SQLITE_PATH"); ok {
		c.Storage.SQLitePath = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		c.Logging.Format = v
	}
	if v, ok := get("AUTH_BASE_URL"); ok {
		c.Auth.BaseURL = v
	}
	if v, ok := get("AUTH_API_KEY"); ok {
		c.Auth.APIKey = v
	}
	if v, ok := get("REMINDER_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REMINDER_INTERVAL: %w", err)
		}
		c.Reminders.Interval = d
	}
	if v, ok := get("REMINDERS_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("REMINDERS_ENABLED: %w", err)
		}
		c.Reminders.Enabled = b
	}
	return nil
}

func (c Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port out of range: %d", c.HTTP.Port)
	}
	switch c.Storage.Driver {
	case "memory", "sqlite":
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("storage.dsn required for postgres")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Reminders.Enabled && c.Reminders.Interval <= 0 {
		return fmt.Errorf("reminders.interval must be positive")
	}
	if c.Charts.ShortFallbackHours <= 0 || c.Charts.LongFallbackHours <= 0 {
		return fmt.Errorf("charts fallback half-lives must be positive")
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.HTTP.Port)
}
