package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golobby/config/v3"
	"github.com/golobby/config/v3/pkg/feeder"
)

// Config keeps runtime settings for the service.
type Config struct {
	DatabaseURL     string `yaml:"database_url" env:"DATABASE_URL"`
	HTTPAddr        string `yaml:"http_addr" env:"HTTP_ADDR"`
	LogLevel        string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat       string `yaml:"log_format" env:"LOG_FORMAT"`
	TelegramToken   string `yaml:"telegram_token" env:"TELEGRAM_TOKEN"`
	TelegramChatID  int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	DigestTime      string `yaml:"digest_time" env:"DIGEST_TIME"`
	ShutdownTimeout int    `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// DigestEnabled reports whether the daily Telegram digest can be sent.
func (c Config) DigestEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// ShutdownGrace is the time allowed for in-flight requests on shutdown.
func (c Config) ShutdownGrace() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		DatabaseURL:     "taskmaster.db",
		HTTPAddr:        ":8080",
		LogLevel:        "info",
		LogFormat:       "text",
		DigestTime:      "09:00",
		ShutdownTimeout: 10,
	}
}

// Load reads configuration from an optional YAML file (TASKMASTER_CONFIG), an
// optional .env file and the environment, later sources winning.
func Load() (Config, error) {
	return load(os.Getenv("TASKMASTER_CONFIG"), ".env")
}

func load(yamlPath, dotEnvPath string) (Config, error) {
	cfg := Default()

	c := config.New()
	if yamlPath != "" {
		c.AddFeeder(feeder.Yaml{Path: yamlPath})
	}
	if dotEnvPath != "" {
		if _, err := os.Stat(dotEnvPath); err == nil {
			c.AddFeeder(feeder.DotEnv{Path: dotEnvPath})
		}
	}
	c.AddFeeder(feeder.Env{})
	c.AddStruct(&cfg)
	if err := c.Feed(); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	defaults := Default()
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.HTTPAddr = strings.TrimSpace(c.HTTPAddr)
	c.TelegramToken = strings.TrimSpace(c.TelegramToken)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.DigestTime = strings.TrimSpace(c.DigestTime)

	if c.DatabaseURL == "" {
		c.DatabaseURL = defaults.DatabaseURL
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = defaults.HTTPAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = defaults.LogFormat
	}
	if c.DigestTime == "" {
		c.DigestTime = defaults.DigestTime
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaults.ShutdownTimeout
	}
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	var errs []error
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat))
	}
	if _, err := time.Parse("15:04", c.DigestTime); err != nil {
		errs = append(errs, fmt.Errorf("invalid DIGEST_TIME %q, expected HH:MM", c.DigestTime))
	}
	return errors.Join(errs...)
}
