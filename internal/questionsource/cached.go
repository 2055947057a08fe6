package questionsource

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/pathwise/internal/assessment"
	"github.com/abhisek/pathwise/internal/cache"
)

// JSONCache is the subset of *cache.Cache the CachedSource needs.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, v any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// CachedSource memoizes another source's pools. Cache errors are logged
// and the inner source is used as if the cache were absent.
type CachedSource struct {
	inner  Source
	cache  JSONCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedSource wraps inner with c.
func NewCachedSource(inner Source, c JSONCache, ttl time.Duration, logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{inner: inner, cache: c, ttl: ttl, logger: logger}
}

// CacheKey is the key a normalized request is stored under.
func CacheKey(req Request) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%d", req.Topic, req.Subtopic, req.Count))
	return cache.Key("questions", hex.EncodeToString(sum[:]))
}

func (c *CachedSource) Questions(ctx context.Context, req Request) ([]assessment.Question, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	key := CacheKey(req)

	var pool []assessment.Question
	hit, err := c.cache.GetJSON(ctx, key, &pool)
	if err != nil {
		c.logger.Warn("question cache read failed", "key", key, "error", err)
	}
	if hit && len(pool) > 0 {
		return pool, nil
	}

	pool, err = c.inner.Questions(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := c.cache.SetJSON(ctx, key, pool, c.ttl); err != nil {
		c.logger.Warn("question cache write failed", "key", key, "error", err)
	}
	return pool, nil
}
