package llm

import "context"

// Purposes label LLM request events by the feature that made the call.
const (
	PurposeQuestionGen = "question-gen"
	PurposePathGen     = "path-gen"
	PurposeUnknown     = "unknown"
)

type purposeKey struct{}

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the purpose attached to ctx, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return PurposeUnknown
}
