package main

import (
	"log/slog"
	"testing"
	"time"

	"github.com/shoenig/test/must"
)

func TestGetConfigFromEnvironment(t *testing.T) {
	t.Setenv("NEWSFRONT_API_URL", "http://api:5000")

	c, err := GetConfigFromEnvironment()
	must.NoError(t, err)
	must.Eq(t, ":8080", c.Addr)
	must.Eq(t, "http://api:5000", c.APIURL)
	must.Eq(t, "http://api:5000", c.GenerationURL)
	must.True(t, c.SecureCookies)
	must.Eq(t, time.Hour, c.AccessTTL)
	must.Eq(t, 720*time.Hour, c.RefreshTTL)
	must.Eq(t, 256, c.GenerationCacheSize)
	must.True(t, c.Metrics)

	level, err := c.Level()
	must.NoError(t, err)
	must.Eq(t, slog.LevelInfo, level)
}

func TestGetConfigFromEnvironment_overrides(t *testing.T) {
	t.Setenv("NEWSFRONT_API_URL", "https://api.example.com")
	t.Setenv("NEWSFRONT_GENERATION_URL", "http://generator:8000")
	t.Setenv("NEWSFRONT_SECURE_COOKIES", "false")
	t.Setenv("NEWSFRONT_ACCESS_TTL", "15m")
	t.Setenv("NEWSFRONT_LOG_LEVEL", "debug")
	t.Setenv("NEWSFRONT_GENERATION_CACHE_SIZE", "16")

	c, err := GetConfigFromEnvironment()
	must.NoError(t, err)
	must.Eq(t, "http://generator:8000", c.GenerationURL)
	must.False(t, c.SecureCookies)
	must.Eq(t, 15*time.Minute, c.AccessTTL)
	must.Eq(t, 16, c.GenerationCacheSize)

	level, err := c.Level()
	must.NoError(t, err)
	must.Eq(t, slog.LevelDebug, level)
}

func TestGetConfigFromEnvironment_invalid(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing api", map[string]string{}},
		{"api not http", map[string]string{"NEWSFRONT_API_URL": "ftp://api"}},
		{"generation without host", map[string]string{
			"NEWSFRONT_API_URL":        "http://api:5000",
			"NEWSFRONT_GENERATION_URL": "http://",
		}},
		{"cache size zero", map[string]string{
			"NEWSFRONT_API_URL":               "http://api:5000",
			"NEWSFRONT_GENERATION_CACHE_SIZE": "0",
		}},
		{"cache ttl zero", map[string]string{
			"NEWSFRONT_API_URL":              "http://api:5000",
			"NEWSFRONT_GENERATION_CACHE_TTL": "0s",
		}},
		{"log level", map[string]string{
			"NEWSFRONT_API_URL":   "http://api:5000",
			"NEWSFRONT_LOG_LEVEL": "loud",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("NEWSFRONT_API_URL", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := GetConfigFromEnvironment()
			must.Error(t, err)
		})
	}
}
