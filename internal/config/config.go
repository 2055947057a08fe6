// Package config loads application configuration from environment variables.
// All variables use the PATHWISE_ prefix. LLM provider settings live in
// the llm package and are read separately.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Cache      CacheConfig
	Assessment AssessmentConfig
	Log        LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string
	Port            int
	AllowedOrigins  []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects the event store backend. An empty DSN with the
// sqlite driver means the default per-user database file.
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// CacheConfig holds Redis connection settings. An empty URL disables
// caching. When Required is false an unreachable cache is logged and skipped.
type CacheConfig struct {
	URL      string
	TTL      time.Duration
	Required bool
}

// AssessmentConfig holds session sizing and lifetime.
type AssessmentConfig struct {
	SessionLength int
	PoolSize      int
	QuizLength    int
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with PATHWISE_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            envStr("PATHWISE_SERVER_HOST", "127.0.0.1"),
			Port:            envInt("PATHWISE_SERVER_PORT", 8080),
			AllowedOrigins:  envList("PATHWISE_SERVER_ALLOWED_ORIGINS", []string{"*"}),
			RequestTimeout:  envDuration("PATHWISE_SERVER_REQUEST_TIMEOUT", 90*time.Second),
			ShutdownTimeout: envDuration("PATHWISE_SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Driver: envStr("PATHWISE_DATABASE_DRIVER", "sqlite"),
			DSN:    envStr("PATHWISE_DATABASE_URL", ""),
		},
		Cache: CacheConfig{
			URL:      envStr("PATHWISE_CACHE_URL", ""),
			TTL:      envDuration("PATHWISE_CACHE_TTL", 24*time.Hour),
			Required: envBool("PATHWISE_CACHE_REQUIRED", false),
		},
		Assessment: AssessmentConfig{
			SessionLength: envInt("PATHWISE_SESSION_LENGTH", 5),
			PoolSize:      envInt("PATHWISE_POOL_SIZE", 15),
			QuizLength:    envInt("PATHWISE_QUIZ_LENGTH", 10),
			SessionTTL:    envDuration("PATHWISE_SESSION_TTL", 30*time.Minute),
			SweepInterval: envDuration("PATHWISE_SESSION_SWEEP_INTERVAL", time.Minute),
		},
		Log: LogConfig{
			Level:  envStr("PATHWISE_LOG_LEVEL", "info"),
			Format: envStr("PATHWISE_LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PATHWISE_SERVER_PORT must be 1-65535, got %d", c.Server.Port)
	}
	if c.Assessment.SessionLength <= 0 {
		return fmt.Errorf("PATHWISE_SESSION_LENGTH must be positive, got %d", c.Assessment.SessionLength)
	}
	if c.Assessment.PoolSize < c.Assessment.SessionLength {
		return fmt.Errorf("PATHWISE_POOL_SIZE (%d) must be at least PATHWISE_SESSION_LENGTH (%d)",
			c.Assessment.PoolSize, c.Assessment.SessionLength)
	}
	if c.Assessment.QuizLength <= 0 {
		return fmt.Errorf("PATHWISE_QUIZ_LENGTH must be positive, got %d", c.Assessment.QuizLength)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("PATHWISE_LOG_FORMAT must be 'json' or 'text', got %q", c.Log.Format)
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// NewLogger builds a slog.Logger writing to w per c. Unknown levels fall
// back to info.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
