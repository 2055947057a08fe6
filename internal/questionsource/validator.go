package questionsource

import (
	"fmt"

	"github.com/abhisek/pathwise/internal/assessment"
)

// Validator checks a generated question before it joins the pool.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, e.g. "structural".
	Name() string

	// Validate checks q against the questions already accepted into the
	// pool and returns nil if it passes.
	Validate(q *assessment.Question, accepted []assessment.Question) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
