// Package config defines the immutable runtime configuration for the
// notifier. Configuration is assembled once at startup from built-in
// defaults, an optional YAML file, and environment variable overrides, and
// is never mutated afterwards.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the environment variable pointing at an optional YAML
// configuration file. Environment variables override file values.
const ConfigFileEnv = "NOTIFY_CONFIG_FILE"

// Config captures the full runtime configuration for the notifier process.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Discord  DiscordConfig  `yaml:"discord"`
	Metadata MetadataConfig `yaml:"metadata"`
	Intake   IntakeConfig   `yaml:"intake"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// AppConfig holds process-wide settings.
type AppConfig struct {
	Name      string `env:"APP_NAME" yaml:"name"`
	LogLevel  string `env:"LOG_LEVEL" yaml:"log_level"`
	LogFormat string `env:"LOG_FORMAT" yaml:"log_format"` // json or text
}

// DiscordConfig holds the webhook delivery settings.
type DiscordConfig struct {
	Enabled bool `env:"DISCORD_ENABLED" yaml:"enabled"`

	// WebhookURL is the Discord webhook URL (includes authentication token).
	// Required when the channel is enabled.
	WebhookURL string `env:"DISCORD_WEBHOOK_URL" yaml:"webhook_url"`

	// ProxyURL optionally routes webhook requests through an outbound proxy.
	ProxyURL string `env:"DISCORD_PROXY_URL" yaml:"proxy_url"`

	// Timeout is the HTTP request timeout for a single webhook attempt.
	Timeout time.Duration `env:"DISCORD_TIMEOUT" yaml:"timeout"`

	// MaxAttempts and RetryDelay define the delivery retry policy.
	MaxAttempts int           `env:"DISCORD_RETRY_ATTEMPTS" yaml:"max_attempts"`
	RetryDelay  time.Duration `env:"DISCORD_RETRY_DELAY" yaml:"retry_delay"`

	// RatePerSecond and RateBurst bound the sustained webhook request rate.
	RatePerSecond float64 `env:"DISCORD_RATE_PER_SECOND" yaml:"rate_per_second"`
	RateBurst     int     `env:"DISCORD_RATE_BURST" yaml:"rate_burst"`
}

// MetadataConfig holds the endpoints of the catalog metadata collaborators.
type MetadataConfig struct {
	TMDBBaseURL    string        `env:"TMDB_BASE_URL" yaml:"tmdb_base_url"`
	TMDBAPIKey     string        `env:"TMDB_API_KEY" yaml:"tmdb_api_key"`
	DoubanBaseURL  string        `env:"DOUBAN_BASE_URL" yaml:"douban_base_url"`
	ScraperBaseURL string        `env:"SCRAPER_BASE_URL" yaml:"scraper_base_url"`
	UserBaseURL    string        `env:"USER_API_BASE_URL" yaml:"user_base_url"`
	Timeout        time.Duration `env:"METADATA_TIMEOUT" yaml:"timeout"`
}

// IntakeConfig holds the event intake HTTP server settings.
type IntakeConfig struct {
	Addr         string        `env:"INTAKE_ADDR" yaml:"addr"`
	ReadTimeout  time.Duration `env:"INTAKE_READ_TIMEOUT" yaml:"read_timeout"`
	WriteTimeout time.Duration `env:"INTAKE_WRITE_TIMEOUT" yaml:"write_timeout"`
	IdleTimeout  time.Duration `env:"INTAKE_IDLE_TIMEOUT" yaml:"idle_timeout"`
}

// MetricsConfig holds the Prometheus metrics server settings.
type MetricsConfig struct {
	Addr string `env:"METRICS_ADDR" yaml:"addr"`
}

// defaults returns the built-in configuration baseline.
func defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:      "media-notify",
			LogLevel:  "info",
			LogFormat: "json",
		},
		Discord: DiscordConfig{
			Enabled:       true,
			Timeout:       10 * time.Second,
			MaxAttempts:   5,
			RetryDelay:    3 * time.Second,
			RatePerSecond: 0.5, // Discord webhook limit: 30 req/min
			RateBurst:     3,
		},
		Metadata: MetadataConfig{
			TMDBBaseURL:   "https://api.themoviedb.org",
			DoubanBaseURL: "https://movie.douban.com",
			Timeout:       15 * time.Second,
		},
		Intake: IntakeConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
	}
}

// Load assembles the configuration: defaults first, then the optional YAML
// file named by NOTIFY_CONFIG_FILE, then environment variable overrides.
// The result is validated before being returned.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path is operator supplied
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	// Environment variables win over file values. The env tags carry no
	// defaults on purpose: unset variables leave the field untouched.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that would only fail later
// at delivery time.
func (c *Config) Validate() error {
	if c.Discord.Enabled {
		if c.Discord.WebhookURL == "" {
			return errors.New("discord webhook URL is required when the channel is enabled")
		}
		if _, err := url.ParseRequestURI(c.Discord.WebhookURL); err != nil {
			return fmt.Errorf("invalid discord webhook URL: %w", err)
		}
		if c.Discord.ProxyURL != "" {
			if _, err := url.Parse(c.Discord.ProxyURL); err != nil {
				return fmt.Errorf("invalid discord proxy URL: %w", err)
			}
		}
		if c.Discord.MaxAttempts < 1 {
			return fmt.Errorf("discord retry attempts must be at least 1, got %d", c.Discord.MaxAttempts)
		}
		if c.Discord.RetryDelay < 0 {
			return fmt.Errorf("discord retry delay must not be negative, got %v", c.Discord.RetryDelay)
		}
	}
	return nil
}
