package pathgen

import "fmt"

const promptTemplate = `Based on the following information, create a detailed personalized learning path:

User input: %s

The learning path should include:
1. Key topics to learn in a logical sequence
2. Recommended resources for each topic (books, courses, websites)
3. Estimated time to complete each section
4. Milestones to track progress
5. Projects to reinforce learning

Format the learning path with clear headings, bullet points, and structured sections to make it easy to follow. Use markdown formatting. Use "# " for topics, "## " for subtopics, and put "Estimated time:" and "Resources:" lines under the heading they belong to.`

// FormatPrompt wraps free-form learner goals in the structured request.
func FormatPrompt(userInput string) string {
	return fmt.Sprintf(promptTemplate, userInput)
}
