package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/abhisek/pathwise/internal/cache"
	"github.com/abhisek/pathwise/internal/config"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/pathgen"
	"github.com/abhisek/pathwise/internal/questionsource"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/spf13/cobra"
)

// loadConfig reads the environment and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		if _, err := config.ParseLevel(lvl); err != nil {
			return nil, err
		}
		cfg.Log.Level = lvl
	}
	return cfg, nil
}

// openStore connects to the configured database. With the sqlite driver
// and no DSN the --db flag or the per-user default file is used.
func openStore(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (*store.Store, error) {
	driver, err := store.ParseDriver(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.Database.DSN
	if driver == store.DriverSQLite {
		if flagged, _ := cmd.Flags().GetString("db"); flagged != "" || dsn == "" {
			dsn, err = resolveDBPath(cmd)
			if err != nil {
				return nil, fmt.Errorf("resolve database path: %w", err)
			}
		}
	}

	s, err := store.OpenDriver(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// openCache connects to Redis when a URL is configured. Returns nil when
// caching is disabled, or when the cache is unreachable and not required.
func openCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*cache.Cache, error) {
	if cfg.Cache.URL == "" {
		return nil, nil
	}
	c, err := cache.New(ctx, cfg.Cache.URL)
	if err != nil {
		if cfg.Cache.Required {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		logger.Warn("cache unavailable, continuing without it", "error", err)
		return nil, nil
	}
	return c, nil
}

// newProvider builds the LLM provider from the environment. A missing
// configuration is not an error: callers get nil and fall back to
// templates.
func newProvider(ctx context.Context, repo store.EventRepo, logger *slog.Logger) (llm.Provider, error) {
	p, err := llm.NewProviderFromEnv(ctx, repo)
	if errors.Is(err, llm.ErrNotConfigured) {
		logger.Info("no LLM provider configured, using built-in question templates")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	logger.Debug("LLM provider ready", "model", p.ModelID())
	return p, nil
}

// questionSource composes the question pipeline: LLM, optionally cached,
// falling back to the built-in templates.
func questionSource(p llm.Provider, c *cache.Cache, ttl time.Duration, logger *slog.Logger) questionsource.Source {
	templates := questionsource.MustTemplateSource()
	if p == nil {
		return templates
	}

	var primary questionsource.Source = questionsource.NewLLMSource(p, questionsource.DefaultConfig())
	if c != nil {
		primary = questionsource.NewCachedSource(primary, c, ttl, logger)
	}
	return questionsource.NewFallbackSource(primary, templates, logger)
}

func pathGenerator(p llm.Provider, c *cache.Cache, ttl time.Duration, logger *slog.Logger) *pathgen.Generator {
	opts := []pathgen.Option{pathgen.WithLogger(logger)}
	if c != nil {
		opts = append(opts, pathgen.WithCache(c, ttl))
	}
	return pathgen.NewGenerator(p, opts...)
}

// cliLogger writes human-readable logs to stderr for one-shot commands.
func cliLogger(cfg *config.Config) *slog.Logger {
	lc := cfg.Log
	lc.Format = "text"
	return lc.NewLogger(os.Stderr)
}

// fileLogger logs to path, or nowhere when path is empty. The terminal app
// owns the screen so it never logs to stderr.
func fileLogger(cfg *config.Config, path string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return cfg.Log.NewLogger(f), f, nil
}
