// Package llm wraps the supported LLM vendors behind one Provider
// interface, with timeout, retry, schema validation and event logging
// layered on as middleware.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates a completion for a Request.
type Provider interface {
	// Generate sends req and returns the completion. With req.Schema set
	// the Content is JSON already validated against it; without, it is the
	// model's text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the configured model name.
	ModelID() string
}

// Request is a single-turn or multi-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema asks for structured output through the vendor's native
	// mechanism (a tool for Anthropic, a JSON schema for OpenAI and Gemini).
	Schema *Schema

	MaxTokens int

	// Temperature is 0-1; zero is deterministic.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is the JSON shape a structured response must take.
type Schema struct {
	// Name is kebab-case, e.g. "question-pool". Anthropic uses it as the
	// tool name and OpenAI as the schema name.
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a completed generation.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Text returns Content as plain text. Schema-less completions arrive as
// raw text from most vendors and as a JSON string from some; both read
// the same here.
func (r *Response) Text() string {
	if len(r.Content) > 0 && r.Content[0] == '"' {
		var s string
		if err := json.Unmarshal(r.Content, &s); err == nil {
			return s
		}
	}
	return string(r.Content)
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
