package questionsource

import (
	"context"
	"errors"
	"log/slog"

	"github.com/abhisek/pathwise/internal/assessment"
)

// FallbackSource tries a primary source and answers from templates when it
// fails or comes back empty. Upstream failures are logged, not returned.
type FallbackSource struct {
	primary  Source
	fallback Source
	logger   *slog.Logger
}

// NewFallbackSource wraps primary. A nil primary always uses fallback.
func NewFallbackSource(primary, fallback Source, logger *slog.Logger) *FallbackSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackSource{primary: primary, fallback: fallback, logger: logger}
}

func (f *FallbackSource) Questions(ctx context.Context, req Request) ([]assessment.Question, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	if f.primary == nil {
		return f.fallback.Questions(ctx, req)
	}

	pool, err := f.primary.Questions(ctx, req)
	switch {
	case err == nil && len(pool) > 0:
		return pool, nil
	case errors.Is(err, context.Canceled):
		return nil, err
	case err != nil:
		f.logger.Warn("question source failed, using templates",
			"topic", req.Topic, "error", err)
	default:
		f.logger.Warn("question source returned no questions, using templates",
			"topic", req.Topic)
	}

	return f.fallback.Questions(ctx, req)
}
