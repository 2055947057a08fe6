package questionsource

import (
	"strings"

	"github.com/abhisek/pathwise/internal/assessment"
)

// DuplicateValidator rejects a question whose text repeats one already in
// the pool, ignoring case and surrounding space.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(q *assessment.Question, accepted []assessment.Question) *ValidationError {
	text := normalizeText(q.Text)
	for _, a := range accepted {
		if normalizeText(a.Text) == text {
			return &ValidationError{
				Validator: v.Name(),
				Message:   "question repeats an earlier one",
			}
		}
	}
	return nil
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
