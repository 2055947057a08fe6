package questionsource

import "github.com/abhisek/pathwise/internal/llm"

// QuestionsSchema is the structured output requested from the LLM. The
// array is wrapped in an object because strict providers require an
// object at the top level.
var QuestionsSchema = &llm.Schema{
	Name:        "assessment-questions",
	Description: "A pool of multiple-choice questions assessing knowledge of a topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text": map[string]any{
							"type":        "string",
							"description": "The question shown to the learner",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 answer options, in A, B, C, D order",
						},
						"correctAnswer": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     3,
							"description": "Index of the correct option, 0=A, 1=B, 2=C, 3=D",
						},
						"difficulty": map[string]any{
							"type":        "string",
							"enum":        []any{"beginner", "intermediate", "advanced"},
							"description": "Difficulty band of the question",
						},
					},
					"required":             []any{"text", "options", "correctAnswer", "difficulty"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
