package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	Timezone string `mapstructure:"APP_TIMEZONE"`

	// Catalog file; empty means the compiled-in catalog.
	CatalogPath string `mapstructure:"CATALOG_PATH"`

	// Optional booking journal. Empty disables it.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	CSRFEnabled   bool   `mapstructure:"CSRF_ENABLED"`
	CSRFKey       string `mapstructure:"CSRF_KEY"`
	SessionKey    string `mapstructure:"SESSION_KEY"`
	SecureCookies bool   `mapstructure:"SECURE_COOKIES"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	ReadTimeout     time.Duration `mapstructure:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `mapstructure:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]any{
	"PORT":             "5000",
	"ENV":              "development",
	"LOG_LEVEL":        "info",
	"APP_TIMEZONE":     "Local",
	"CATALOG_PATH":     "",
	"DATABASE_URL":     "",
	"CSRF_ENABLED":     true,
	"CSRF_KEY":         "",
	"SESSION_KEY":      "",
	"SECURE_COOKIES":   false,
	"RATE_LIMIT_RPS":   1.0,
	"RATE_LIMIT_BURST": 5,
	"READ_TIMEOUT":     "10s",
	"WRITE_TIMEOUT":    "10s",
	"SHUTDOWN_TIMEOUT": "5s",
}

// Load reads .env (if any), an optional config.yaml in . or ./config, and
// the environment, in increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got rps=%v burst=%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	return &cfg, nil
}

// Addr is the listen address for Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location is the zone in which "today" is evaluated for event dates.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
