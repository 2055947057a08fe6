package questionsource

// Config controls the behavior of the LLMSource.
type Config struct {
	// Validators is the ordered list of validators run on every generated
	// question. The first failure drops the question.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&DuplicateValidator{},
		},
		MaxTokens:   4000,
		Temperature: 0.7,
	}
}
