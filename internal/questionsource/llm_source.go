package questionsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/abhisek/pathwise/internal/assessment"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/google/uuid"
)

// LLMSource implements Source using an LLM provider.
type LLMSource struct {
	provider llm.Provider
	config   Config
}

// NewLLMSource creates an LLMSource with the given provider and config.
func NewLLMSource(provider llm.Provider, cfg Config) *LLMSource {
	return &LLMSource{provider: provider, config: cfg}
}

// questionOutput is one raw question before validation.
type questionOutput struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Difficulty    string   `json:"difficulty"`
}

type questionsOutput struct {
	Questions []questionOutput `json:"questions"`
}

// Questions asks the provider for a pool and keeps the questions that pass
// every validator.
func (s *LLMSource) Questions(ctx context.Context, req Request) ([]assessment.Question, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req)},
		},
		Schema:      QuestionsSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	raw, err := parseQuestions(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	pool := make([]assessment.Question, 0, len(raw))
	for _, r := range raw {
		if len(pool) == req.Count {
			break
		}
		q := assessment.Question{
			ID:            uuid.NewString(),
			Text:          r.Text,
			Options:       r.Options,
			CorrectAnswer: r.CorrectAnswer,
			Topic:         req.Topic,
			Subtopic:      req.Subtopic,
		}
		d, err := assessment.ParseDifficulty(r.Difficulty)
		if err != nil {
			slog.Debug("dropping generated question", "reason", err)
			continue
		}
		q.Difficulty = d

		if verr := s.validate(&q, pool); verr != nil {
			slog.Debug("dropping generated question", "reason", verr)
			continue
		}
		pool = append(pool, q)
	}

	if len(pool) == 0 {
		return nil, ErrNoQuestions
	}
	return pool, nil
}

func (s *LLMSource) validate(q *assessment.Question, accepted []assessment.Question) *ValidationError {
	for _, v := range s.config.Validators {
		if verr := v.Validate(q, accepted); verr != nil {
			return verr
		}
	}
	return nil
}

// parseQuestions accepts the schema's {"questions": [...]} object, a bare
// array, or either of those inside a markdown code fence.
func parseQuestions(content json.RawMessage) ([]questionOutput, error) {
	b := bytes.TrimSpace(stripFence(content))

	if len(b) > 0 && b[0] == '[' {
		var arr []questionOutput
		if err := json.Unmarshal(b, &arr); err != nil {
			return nil, err
		}
		return arr, nil
	}

	var obj questionsOutput
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, err
	}
	return obj.Questions, nil
}

func stripFence(b []byte) []byte {
	b = bytes.TrimSpace(b)
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[i+1:]
	}
	if i := bytes.LastIndex(b, []byte("```")); i >= 0 {
		b = b[:i]
	}
	return b
}
