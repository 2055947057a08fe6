package quiz

import (
	"fmt"

	"github.com/abhisek/pathwise/internal/assessment"
)

// Grade is the outcome of a submitted quiz.
type Grade struct {
	Score   int                   `json:"score"`
	Correct int                   `json:"correct"`
	Total   int                   `json:"total"`
	Level   assessment.SkillLevel `json:"level"`
}

// LevelFor maps a quiz score to a level. The quiz uses flat thresholds
// with no per-band requirement, unlike the adaptive assessment.
func LevelFor(score int) assessment.SkillLevel {
	switch {
	case score >= 90:
		return assessment.SkillExpert
	case score >= 75:
		return assessment.SkillAdvanced
	case score >= 60:
		return assessment.SkillIntermediate
	case score >= 40:
		return assessment.SkillBeginner
	default:
		return assessment.SkillNeedsPractice
	}
}

// GradeAnswers scores answers against questions; answers[i] is the option
// chosen for questions[i]. A negative answer counts as wrong.
func GradeAnswers(questions []assessment.Question, answers []int) (Grade, error) {
	if len(questions) == 0 {
		return Grade{}, ErrNoQuestions
	}
	if len(answers) != len(questions) {
		return Grade{}, fmt.Errorf("%w: %d answers for %d questions", ErrAnswerCount, len(answers), len(questions))
	}

	g := Grade{Total: len(questions)}
	for i, q := range questions {
		if q.IsCorrect(answers[i]) {
			g.Correct++
		}
	}
	g.Score = (200*g.Correct + g.Total) / (2 * g.Total)
	g.Level = LevelFor(g.Score)
	return g, nil
}
