package questionsource

import (
	"strings"

	"github.com/abhisek/pathwise/internal/assessment"
)

const (
	maxTextLen   = 500
	maxOptionLen = 300
)

// StructuralValidator checks that the text and options are present,
// within length limits, and that the answer key and band are valid.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *assessment.Question, _ []assessment.Question) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg}
	}

	if strings.TrimSpace(q.Text) == "" {
		return fail("text is empty")
	}
	if len(q.Text) > maxTextLen {
		return fail("text exceeds 500 characters")
	}
	if len(q.Options) != assessment.OptionCount {
		return fail("question must have exactly 4 options")
	}
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		o = strings.TrimSpace(o)
		if o == "" {
			return fail("option is empty")
		}
		if len(o) > maxOptionLen {
			return fail("option exceeds 300 characters")
		}
		if seen[strings.ToLower(o)] {
			return fail("options must be distinct")
		}
		seen[strings.ToLower(o)] = true
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= assessment.OptionCount {
		return fail("correctAnswer must be between 0 and 3")
	}
	if !q.Difficulty.Valid() {
		return fail("difficulty must be beginner, intermediate or advanced")
	}
	return nil
}
