// Package pathgen asks an LLM for a markdown learning path.
package pathgen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/pathwise/internal/cache"
	"github.com/abhisek/pathwise/internal/llm"
)

const (
	DefaultSystemPrompt = "You are a learning path advisor that helps users create personalized learning paths based on their interests, goals, and current skill level."
	DefaultMaxTokens    = 1500
	DefaultTemperature  = 0.7
)

// ErrPromptRequired is returned for an empty prompt.
var ErrPromptRequired = errors.New("pathgen: prompt is required")

var errEmptyPath = errors.New("empty learning path")

// Input is one generation request. Zero values take the defaults; Raw
// sends Prompt as-is instead of wrapping it with FormatPrompt.
type Input struct {
	Prompt       string
	SystemPrompt string
	MaxTokens    int
	Temperature  *float64
	Raw          bool
}

// Path is a generated learning path.
type Path struct {
	Markdown string    `json:"result"`
	Model    string    `json:"model"`
	Usage    llm.Usage `json:"-"`
	Cached   bool      `json:"cached,omitempty"`
}

// Cache is the subset of *cache.Cache the generator needs.
type Cache interface {
	GetJSON(ctx context.Context, key string, v any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// Generator produces learning paths through an llm.Provider.
type Generator struct {
	provider llm.Provider
	cache    Cache
	ttl      time.Duration
	logger   *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithCache memoizes paths in c for ttl.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(g *Generator) {
		g.cache = c
		g.ttl = ttl
	}
}

// WithLogger sets the logger used for cache failures.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// NewGenerator creates a Generator over provider.
func NewGenerator(provider llm.Provider, opts ...Option) *Generator {
	g := &Generator{provider: provider, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (in Input) withDefaults() Input {
	in.Prompt = strings.TrimSpace(in.Prompt)
	if in.SystemPrompt == "" {
		in.SystemPrompt = DefaultSystemPrompt
	}
	if in.MaxTokens <= 0 {
		in.MaxTokens = DefaultMaxTokens
	}
	if in.Temperature == nil {
		t := DefaultTemperature
		in.Temperature = &t
	}
	return in
}

// CacheKey is the key a defaulted input is stored under.
func CacheKey(in Input) string {
	in = in.withDefaults()
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%d|%.2f|%t|%s",
		in.SystemPrompt, in.MaxTokens, *in.Temperature, in.Raw, in.Prompt))
	return cache.Key("paths", hex.EncodeToString(sum[:]))
}

// Generate returns the learning path for in. Provider errors are returned
// wrapped so callers can match *llm.ErrRateLimit and *llm.ErrUnauthorized.
func (g *Generator) Generate(ctx context.Context, in Input) (*Path, error) {
	in = in.withDefaults()
	if in.Prompt == "" {
		return nil, ErrPromptRequired
	}

	var key string
	if g.cache != nil {
		key = CacheKey(in)
		var p Path
		hit, err := g.cache.GetJSON(ctx, key, &p)
		if err != nil {
			g.logger.Warn("path cache read failed", "key", key, "error", err)
		}
		if hit && p.Markdown != "" {
			p.Cached = true
			return &p, nil
		}
	}

	if g.provider == nil {
		return nil, llm.ErrNotConfigured
	}

	prompt := in.Prompt
	if !in.Raw {
		prompt = FormatPrompt(in.Prompt)
	}

	resp, err := g.provider.Generate(llm.WithPurpose(ctx, llm.PurposePathGen), llm.Request{
		System:      in.SystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   in.MaxTokens,
		Temperature: *in.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate learning path: %w", err)
	}

	p := &Path{
		Markdown: strings.TrimSpace(resp.Text()),
		Model:    resp.Model,
		Usage:    resp.Usage,
	}
	if p.Markdown == "" {
		return nil, &llm.ErrInvalidResponse{Content: resp.Content, Err: errEmptyPath}
	}

	if g.cache != nil {
		if err := g.cache.SetJSON(ctx, key, p, g.ttl); err != nil {
			g.logger.Warn("path cache write failed", "key", key, "error", err)
		}
	}
	return p, nil
}
