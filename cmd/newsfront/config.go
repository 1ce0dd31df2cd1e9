package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
	"newscopilot.net/go/webtools"
)

const envconfigPrefix = "NEWSFRONT"

type Config struct {
	Addr                string        `envconfig:"ADDR"`
	APIURL              string        `envconfig:"API_URL" required:"true"`
	GenerationURL       string        `envconfig:"GENERATION_URL"`
	SecureCookies       bool          `envconfig:"SECURE_COOKIES"`
	AccessTTL           time.Duration `envconfig:"ACCESS_TTL"`
	RefreshTTL          time.Duration `envconfig:"REFRESH_TTL"`
	HTTPTimeout         time.Duration `envconfig:"HTTP_TIMEOUT"`
	GenerationCacheSize int           `envconfig:"GENERATION_CACHE_SIZE"`
	GenerationCacheTTL  time.Duration `envconfig:"GENERATION_CACHE_TTL"`
	LogLevel            string        `envconfig:"LOG_LEVEL"`
	Metrics             bool          `envconfig:"METRICS"`
}

// NewConfigWithDefaults returns a Config object with default values already
// applied. Callers are then free to set custom values for the remaining fields
// and/or override default values.
func NewConfigWithDefaults() Config {
	return Config{
		Addr:                ":8080",
		SecureCookies:       true,
		AccessTTL:           1 * time.Hour,
		RefreshTTL:          30 * 24 * time.Hour,
		HTTPTimeout:         30 * time.Second,
		GenerationCacheSize: 256,
		GenerationCacheTTL:  1 * time.Hour,
		LogLevel:            "info",
		Metrics:             true,
	}
}

// GetConfigFromEnvironment returns configuration derived from environment
// variables
func GetConfigFromEnvironment() (Config, error) {
	c := NewConfigWithDefaults()
	if err := envconfig.Process(envconfigPrefix, &c); err != nil {
		return c, err
	}

	if c.GenerationURL == "" {
		c.GenerationURL = c.APIURL
	}

	if _, err := webtools.ParseOrigin(c.APIURL); err != nil {
		return c, fmt.Errorf("config: API_URL: %w", err)
	}

	if _, err := webtools.ParseOrigin(c.GenerationURL); err != nil {
		return c, fmt.Errorf("config: GENERATION_URL: %w", err)
	}

	if c.GenerationCacheSize < 1 {
		return c, errors.New("config: GENERATION_CACHE_SIZE must be at least 1")
	}

	if c.GenerationCacheTTL <= 0 {
		return c, errors.New("config: GENERATION_CACHE_TTL must be positive")
	}

	if _, err := c.Level(); err != nil {
		return c, err
	}

	return c, nil
}

// Level returns the minimum level of log records to emit.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	return level, nil
}
