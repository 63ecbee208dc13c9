package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"tmapmcp/internal/tmap"
)

// Config holds process configuration from environment variables.
type Config struct {
	AppKey    string
	BaseURL   string
	Timeout   time.Duration
	HistoryDB string // SQLite call journal; empty disables journaling
	HTTPAddr  string // empty serves MCP over stdio
	MCPToken  string // bearer token required on /mcp when set
	LogLevel  slog.Level
	LogJSON   bool
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		AppKey:    envStr("TMAP_APP_KEY", ""),
		BaseURL:   envStr("TMAP_BASE_URL", tmap.DefaultBaseURL),
		Timeout:   envDuration("TMAP_TIMEOUT", tmap.DefaultTimeout),
		HistoryDB: envStr("TMAP_HISTORY_DB", ""),
		HTTPAddr:  envStr("TMAP_HTTP_ADDR", ""),
		MCPToken:  envStr("TMAP_MCP_TOKEN", ""),
		LogLevel:  ParseLevel(envStr("TMAP_LOG_LEVEL", "info")),
		LogJSON:   envBool("TMAP_LOG_JSON", false),
	}
}

// Tmap returns the client configuration derived from c.
func (c *Config) Tmap(logger *slog.Logger) tmap.Config {
	return tmap.Config{
		AppKey:  c.AppKey,
		BaseURL: c.BaseURL,
		Timeout: c.Timeout,
		Logger:  logger,
	}
}

// Logger returns a logger writing to stderr at the configured level.
func (c *Config) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// ParseLevel maps debug, info, warn or error to a slog level. Anything else
// is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// envDuration accepts a Go duration ("20s") or a bare number of seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n := envInt(key, 0); n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}
