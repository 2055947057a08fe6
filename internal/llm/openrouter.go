package llm

import "fmt"

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenRouterAppName = "Pathwise"
)

// OpenRouterProvider talks to OpenRouter's OpenAI-compatible API. Model
// IDs pass through untouched ("anthropic/claude-3-haiku").
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API,
// sending the app attribution headers OpenRouter reads.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	inner, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: baseURL,
		Headers: openRouterHeaders(cfg),
	})
	if err != nil {
		return nil, err
	}
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

func openRouterHeaders(cfg OpenRouterConfig) map[string]string {
	name := cfg.AppName
	if name == "" {
		name = defaultOpenRouterAppName
	}
	h := map[string]string{"X-Title": name}
	if cfg.AppURL != "" {
		h["HTTP-Referer"] = cfg.AppURL
	}
	return h
}
