package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ReturnsQueuedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
	)

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestMockProvider_ModelOverride(t *testing.T) {
	mock := NewMockProvider(MockText("hi"))
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
	mock.Model = "gpt-4o-mini"
	resp, err := mock.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Model != "gpt-4o-mini" {
		t.Errorf("expected overridden model, got %q", resp.Model)
	}
}

func TestMockJSONAndLastRequest(t *testing.T) {
	mock := NewMockProvider(MockJSON(map[string]int{"count": 3}))
	if _, ok := mock.LastRequest(); ok {
		t.Fatal("expected no request yet")
	}

	resp, err := mock.Generate(context.Background(), Request{System: "pool"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"count":3}` {
		t.Errorf("unexpected content %s", resp.Content)
	}
	req, ok := mock.LastRequest()
	if !ok || req.System != "pool" {
		t.Errorf("expected last request recorded, got %+v", req)
	}

	bad := MockJSON(make(chan int))
	if bad.Err == nil {
		t.Error("expected marshal error to be queued")
	}
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"raw text", "# Go\nTime: 2 weeks", "# Go\nTime: 2 weeks"},
		{"json string", `"# Go\nTime: 2 weeks"`, "# Go\nTime: 2 weeks"},
		{"json object", `{"a":1}`, `{"a":1}`},
		{"broken quote", `"unterminated`, `"unterminated`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Response{Content: json.RawMessage(tt.content)}
			if got := r.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrProviderUnavailable_NamesProvider(t *testing.T) {
	err := &ErrProviderUnavailable{Provider: "gemini", Err: errors.New("503")}
	if err.Error() != "gemini provider unavailable: 503" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if (&ErrProviderUnavailable{}).Error() != "LLM provider unavailable" {
		t.Errorf("unexpected default message")
	}
}

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model     string
		wantInput float64
		wantNil   bool
	}{
		{model: "gpt-4o", wantInput: 2.5},
		{model: "gpt-4o-mini", wantInput: 0.15},
		{model: "gpt-4o-2024-08-06", wantInput: 2.5},
		{model: "claude-haiku-4-5-20251001", wantInput: 1},
		{model: "claude-opus-4-5", wantInput: 5},
		{model: "claude-opus-4-1", wantInput: 15},
		{model: "google/gemini-2.0-flash-exp", wantInput: 0.1},
		{model: "Gemini-2.5-Flash-Lite", wantInput: 0.1},
		{model: "mock", wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			c := LookupCost(tt.model)
			if tt.wantNil {
				if c != nil {
					t.Fatalf("expected no price, got %+v", *c)
				}
				return
			}
			if c == nil {
				t.Fatal("expected a price")
			}
			if c.InputPerMTok != tt.wantInput {
				t.Errorf("input price = %v, want %v", c.InputPerMTok, tt.wantInput)
			}
		})
	}
}

func TestEstimateCost(t *testing.T) {
	usd, ok := EstimateCost("gpt-4o-mini", Usage{InputTokens: 1_000_000, OutputTokens: 500_000})
	if !ok {
		t.Fatal("expected a known model")
	}
	if usd < 0.449 || usd > 0.451 {
		t.Errorf("expected $0.45, got %v", usd)
	}
	if _, ok := EstimateCost("unknown-model", Usage{}); ok {
		t.Error("expected unknown model")
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != PurposeUnknown {
		t.Fatalf("expected %q, got %q", PurposeUnknown, p)
	}
	if p := PurposeFrom(WithPurpose(ctx, "")); p != PurposeUnknown {
		t.Fatalf("empty purpose should read as unknown, got %q", p)
	}

	ctx = WithPurpose(ctx, PurposePathGen)
	if p := PurposeFrom(ctx); p != "path-gen" {
		t.Fatalf("expected 'path-gen', got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
