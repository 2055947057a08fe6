package assessment

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SkillLevel is the outcome label of a finished assessment.
type SkillLevel string

const (
	SkillNeedsPractice SkillLevel = "needs practice"
	SkillBeginner      SkillLevel = "beginner"
	SkillIntermediate  SkillLevel = "intermediate"
	SkillAdvanced      SkillLevel = "advanced"
	SkillExpert        SkillLevel = "expert"
)

// Title returns the display form, e.g. "Needs Practice".
func (l SkillLevel) Title() string {
	return cases.Title(language.English).String(string(l))
}

// Result is the immutable outcome of a completed session.
type Result struct {
	AssessmentID         string             `json:"assessmentId"`
	Topic                string             `json:"topic"`
	Subtopic             string             `json:"subtopic,omitempty"`
	Score                int                `json:"score"`
	CorrectAnswers       int                `json:"correctAnswers"`
	TotalQuestions       int                `json:"totalQuestions"`
	SkillLevel           SkillLevel         `json:"skillLevel"`
	CorrectByDifficulty  DifficultyCounts   `json:"correctByDifficulty"`
	AnsweredQuestions    []AnsweredQuestion `json:"answeredQuestions"`
	RecommendedResources []string           `json:"recommendedResources"`
	CompletedAt          time.Time          `json:"completedAt"`
}

// Scorecard is the numeric part of a Result.
type Scorecard struct {
	Score               int
	Correct             int
	Answered            int
	CorrectByDifficulty DifficultyCounts
	SkillLevel          SkillLevel
}

// Score computes the scorecard for a list of answers. It returns
// ErrEmptySession when answered is empty.
func Score(answered []AnsweredQuestion) (Scorecard, error) {
	n := len(answered)
	if n == 0 {
		return Scorecard{}, ErrEmptySession
	}

	var sc Scorecard
	sc.Answered = n
	for _, a := range answered {
		if !a.IsCorrect {
			continue
		}
		sc.Correct++
		if a.Difficulty.Valid() {
			sc.CorrectByDifficulty[a.Difficulty]++
		}
	}

	// round-half-up of correct/n*100 in integers
	sc.Score = (200*sc.Correct + n) / (2 * n)
	sc.SkillLevel = DetermineSkillLevel(sc.Score, sc.CorrectByDifficulty)
	return sc, nil
}

// DetermineSkillLevel maps a score and per-band correct counts to a level.
// Rules are evaluated in order and the first match wins.
func DetermineSkillLevel(score int, correct DifficultyCounts) SkillLevel {
	switch {
	case score >= 90 && correct[Advanced] >= 2:
		return SkillExpert
	case score >= 70 && correct[Advanced] >= 1:
		return SkillAdvanced
	case score >= 60 && correct[Intermediate] >= 2:
		return SkillIntermediate
	case score >= 40:
		return SkillBeginner
	default:
		return SkillNeedsPractice
	}
}

// Finalize scores answered outside of a Session, assigning a fresh
// assessment id.
func Finalize(topic, subtopic string, answered []AnsweredQuestion) (*Result, error) {
	return buildResult(uuid.NewString(), topic, subtopic, answered, time.Now())
}

func buildResult(id, topic, subtopic string, answered []AnsweredQuestion, at time.Time) (*Result, error) {
	sc, err := Score(answered)
	if err != nil {
		return nil, err
	}
	return &Result{
		AssessmentID:         id,
		Topic:                topic,
		Subtopic:             subtopic,
		Score:                sc.Score,
		CorrectAnswers:       sc.Correct,
		TotalQuestions:       sc.Answered,
		SkillLevel:           sc.SkillLevel,
		CorrectByDifficulty:  sc.CorrectByDifficulty,
		AnsweredQuestions:    append([]AnsweredQuestion(nil), answered...),
		RecommendedResources: RecommendedResources(topic, sc.SkillLevel),
		CompletedAt:          at,
	}, nil
}
