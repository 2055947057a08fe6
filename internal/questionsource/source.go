// Package questionsource produces pools of assessment questions for a
// topic, from an LLM or from built-in templates.
package questionsource

import (
	"context"
	"errors"
	"strings"

	"github.com/abhisek/pathwise/internal/assessment"
)

const (
	// DefaultCount is used when a request leaves Count at zero.
	DefaultCount = 10

	// MaxCount caps how many questions one request may ask for.
	MaxCount = 50
)

var (
	ErrTopicRequired = errors.New("questionsource: topic is required")
	ErrInvalidCount  = errors.New("questionsource: count must not be negative")
	ErrNoQuestions   = errors.New("questionsource: no usable questions")
)

// Source produces a pool of questions for a topic.
type Source interface {
	// Questions returns up to req.Count validated questions carrying
	// req.Topic and req.Subtopic.
	Questions(ctx context.Context, req Request) ([]assessment.Question, error)
}

// Request asks for a question pool.
type Request struct {
	Topic    string `json:"topic"`
	Subtopic string `json:"subtopic,omitempty"`
	Count    int    `json:"count,omitempty"`
}

// Normalize trims the topic, fills in the default count and caps it.
func (r Request) Normalize() (Request, error) {
	r.Topic = strings.TrimSpace(r.Topic)
	r.Subtopic = strings.TrimSpace(r.Subtopic)
	if r.Topic == "" {
		return r, ErrTopicRequired
	}
	switch {
	case r.Count < 0:
		return r, ErrInvalidCount
	case r.Count == 0:
		r.Count = DefaultCount
	case r.Count > MaxCount:
		r.Count = MaxCount
	}
	return r, nil
}

// Split returns how many questions of each band a pool of n holds:
// 40% beginner, 40% intermediate and the rest advanced.
func Split(n int) assessment.DifficultyCounts {
	var c assessment.DifficultyCounts
	c[assessment.Beginner] = n * 4 / 10
	c[assessment.Intermediate] = n * 4 / 10
	c[assessment.Advanced] = n - 2*(n*4/10)
	return c
}
