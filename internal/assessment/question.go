package assessment

import "fmt"

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// Question is a single multiple-choice question. Questions are immutable
// once they enter a session pool.
type Question struct {
	ID            string     `json:"id"`
	Text          string     `json:"text"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correctAnswer"`
	Difficulty    Difficulty `json:"difficulty"`
	Topic         string     `json:"topic"`
	Subtopic      string     `json:"subtopic,omitempty"`
}

// Validate checks the option count, the correct index and the band.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidQuestion)
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("%w %s: has %d options, want %d", ErrInvalidQuestion, q.ID, len(q.Options), OptionCount)
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= OptionCount {
		return fmt.Errorf("%w %s: correct answer %d out of range", ErrInvalidQuestion, q.ID, q.CorrectAnswer)
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("%w %s: %w", ErrInvalidQuestion, q.ID, ErrUnknownDifficulty)
	}
	return nil
}

// IsCorrect reports whether option is the correct answer.
func (q Question) IsCorrect(option int) bool {
	return option == q.CorrectAnswer
}

// PublicQuestion is a Question without its answer key, safe to hand to
// a client before it answers.
type PublicQuestion struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Options    []string   `json:"options"`
	Difficulty Difficulty `json:"difficulty"`
	Topic      string     `json:"topic"`
	Subtopic   string     `json:"subtopic,omitempty"`
}

// Public strips the answer key.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:         q.ID,
		Text:       q.Text,
		Options:    append([]string(nil), q.Options...),
		Difficulty: q.Difficulty,
		Topic:      q.Topic,
		Subtopic:   q.Subtopic,
	}
}

// AnsweredQuestion records one round of a session.
type AnsweredQuestion struct {
	QuestionID string     `json:"questionId"`
	UserAnswer int        `json:"userAnswer"`
	IsCorrect  bool       `json:"isCorrect"`
	Difficulty Difficulty `json:"difficulty"`
}
