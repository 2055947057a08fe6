package questionsource

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an assessment question generator. Your task is to create high-quality multiple-choice questions with exactly 4 options for each question. Follow the user's instructions precisely and return only valid JSON.`

// buildUserMessage asks for req.Count questions in the 40/40/20 mix.
func buildUserMessage(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d multiple-choice questions to assess knowledge of %s", req.Count, req.Topic)
	if req.Subtopic != "" {
		fmt.Fprintf(&b, " (specifically %s)", req.Subtopic)
	}
	b.WriteString(".\n\n")

	b.WriteString("Create a mix of questions with these difficulty levels:\n")
	b.WriteString("- 40% beginner level questions\n")
	b.WriteString("- 40% intermediate level questions\n")
	b.WriteString("- 20% advanced level questions\n\n")

	b.WriteString("For each question:\n")
	b.WriteString("1. Provide a clear question text\n")
	b.WriteString("2. Provide exactly 4 options (A, B, C, D)\n")
	b.WriteString("3. Indicate which option is correct (0-3, where 0=A, 1=B, 2=C, 3=D)\n")
	b.WriteString("4. Assign a difficulty level (beginner, intermediate, or advanced)\n")
	b.WriteString("\nDo not repeat a question.")

	return b.String()
}
