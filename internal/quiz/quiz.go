// Package quiz implements the fixed-length, non-adaptive quiz: every
// question is shown, the learner may move back and forth and change
// answers, and the quiz is graded once all questions are answered.
package quiz

import (
	"errors"
	"fmt"

	"github.com/abhisek/pathwise/internal/assessment"
)

// DefaultLength is the number of questions in a quiz.
const DefaultLength = 10

var (
	ErrNoQuestions      = errors.New("quiz: no questions")
	ErrIndexOutOfRange  = errors.New("quiz: question index out of range")
	ErrOptionOutOfRange = errors.New("quiz: option out of range")
	ErrIncomplete       = errors.New("quiz: not every question is answered")
	ErrAnswerCount      = errors.New("quiz: answer count does not match question count")
	ErrSubmitted        = errors.New("quiz: already submitted")
)

const unanswered = -1

// Quiz holds the questions, the chosen options and the cursor.
type Quiz struct {
	questions []assessment.Question
	answers   []int
	pos       int
	grade     *Grade
}

// New builds a quiz over at most DefaultLength questions.
func New(questions []assessment.Question) (*Quiz, error) {
	return NewWithLength(questions, DefaultLength)
}

// NewWithLength builds a quiz over at most n questions. Extra questions are
// dropped; fewer is fine.
func NewWithLength(questions []assessment.Question, n int) (*Quiz, error) {
	if n <= 0 {
		n = DefaultLength
	}
	if len(questions) > n {
		questions = questions[:n]
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, err
		}
	}

	answers := make([]int, len(questions))
	for i := range answers {
		answers[i] = unanswered
	}
	return &Quiz{
		questions: append([]assessment.Question(nil), questions...),
		answers:   answers,
	}, nil
}

func (q *Quiz) Len() int      { return len(q.questions) }
func (q *Quiz) Position() int { return q.pos }

// Current returns the question under the cursor.
func (q *Quiz) Current() assessment.Question { return q.questions[q.pos] }

// Question returns question i.
func (q *Quiz) Question(i int) (assessment.Question, error) {
	if i < 0 || i >= len(q.questions) {
		return assessment.Question{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return q.questions[i], nil
}

// Answer records option for question i. Answers can be changed until the
// quiz is submitted.
func (q *Quiz) Answer(i, option int) error {
	if q.grade != nil {
		return ErrSubmitted
	}
	if i < 0 || i >= len(q.questions) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	if option < 0 || option >= len(q.questions[i].Options) {
		return fmt.Errorf("%w: %d", ErrOptionOutOfRange, option)
	}
	q.answers[i] = option
	return nil
}

// Selected returns the chosen option for question i and whether one is set.
func (q *Quiz) Selected(i int) (int, bool) {
	if i < 0 || i >= len(q.answers) || q.answers[i] == unanswered {
		return 0, false
	}
	return q.answers[i], true
}

// Next moves the cursor forward and reports whether it moved.
func (q *Quiz) Next() bool {
	if q.pos >= len(q.questions)-1 {
		return false
	}
	q.pos++
	return true
}

// Prev moves the cursor back and reports whether it moved.
func (q *Quiz) Prev() bool {
	if q.pos == 0 {
		return false
	}
	q.pos--
	return true
}

// AnsweredCount returns how many questions have an answer.
func (q *Quiz) AnsweredCount() int {
	n := 0
	for _, a := range q.answers {
		if a != unanswered {
			n++
		}
	}
	return n
}

// AllAnswered reports whether every question has an answer, which is when
// the quiz may be submitted.
func (q *Quiz) AllAnswered() bool {
	return q.AnsweredCount() == len(q.questions)
}

// Complete reports whether the quiz has been submitted.
func (q *Quiz) Complete() bool { return q.grade != nil }

// Submit grades the quiz and locks the answers. Submitting again returns
// the same grade.
func (q *Quiz) Submit() (Grade, error) {
	if q.grade != nil {
		return *q.grade, nil
	}
	if !q.AllAnswered() {
		return Grade{}, ErrIncomplete
	}
	g, err := GradeAnswers(q.questions, q.answers)
	if err != nil {
		return Grade{}, err
	}
	q.grade = &g
	return g, nil
}
