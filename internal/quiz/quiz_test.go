package quiz

import (
	"errors"
	"fmt"
	"testing"

	"github.com/abhisek/pathwise/internal/assessment"
)

func questions(n int) []assessment.Question {
	out := make([]assessment.Question, n)
	for i := range out {
		out[i] = assessment.Question{
			ID:            fmt.Sprintf("q%d", i),
			Text:          fmt.Sprintf("Question %d", i),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: i % 4,
			Difficulty:    assessment.Beginner,
			Topic:         "Go",
		}
	}
	return out
}

func TestNew_TrimsToDefaultLength(t *testing.T) {
	q, err := New(questions(15))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if q.Len() != DefaultLength {
		t.Fatalf("expected %d questions, got %d", DefaultLength, q.Len())
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	bad := questions(2)
	bad[1].Options = bad[1].Options[:3]
	if _, err := New(bad); !errors.Is(err, assessment.ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}
}

func TestNavigation(t *testing.T) {
	q, err := New(questions(3))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if q.Prev() {
		t.Fatal("prev at start should not move")
	}
	if !q.Next() || !q.Next() {
		t.Fatal("next should move twice")
	}
	if q.Next() {
		t.Fatal("next at end should not move")
	}
	if q.Position() != 2 || q.Current().ID != "q2" {
		t.Fatalf("expected position 2, got %d (%s)", q.Position(), q.Current().ID)
	}
	if !q.Prev() || q.Position() != 1 {
		t.Fatalf("expected position 1, got %d", q.Position())
	}
}

func TestAnswer_ChangeAndValidate(t *testing.T) {
	q, _ := New(questions(2))

	if err := q.Answer(0, 3); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if err := q.Answer(0, 0); err != nil {
		t.Fatalf("change answer: %v", err)
	}
	if got, ok := q.Selected(0); !ok || got != 0 {
		t.Fatalf("expected option 0, got %d (%v)", got, ok)
	}
	if _, ok := q.Selected(1); ok {
		t.Fatal("question 1 should be unanswered")
	}

	if err := q.Answer(2, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := q.Answer(1, 4); !errors.Is(err, ErrOptionOutOfRange) {
		t.Fatalf("expected ErrOptionOutOfRange, got %v", err)
	}
	if err := q.Answer(1, -1); !errors.Is(err, ErrOptionOutOfRange) {
		t.Fatalf("expected ErrOptionOutOfRange, got %v", err)
	}
}

func TestSubmit(t *testing.T) {
	qs := questions(4)
	q, _ := New(qs)

	if _, err := q.Submit(); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}

	// three right, one wrong
	for i := 0; i < 3; i++ {
		q.Answer(i, qs[i].CorrectAnswer)
	}
	q.Answer(3, (qs[3].CorrectAnswer+1)%4)
	if !q.AllAnswered() || q.Complete() {
		t.Fatal("expected all answered but not submitted")
	}

	g, err := q.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if g.Score != 75 || g.Correct != 3 || g.Total != 4 || g.Level != assessment.SkillAdvanced {
		t.Fatalf("unexpected grade %+v", g)
	}
	if !q.Complete() {
		t.Fatal("expected complete after submit")
	}
	if err := q.Answer(0, 1); !errors.Is(err, ErrSubmitted) {
		t.Fatalf("expected ErrSubmitted, got %v", err)
	}
	again, _ := q.Submit()
	if again != g {
		t.Fatalf("expected same grade, got %+v", again)
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		score int
		want  assessment.SkillLevel
	}{
		{100, assessment.SkillExpert},
		{90, assessment.SkillExpert},
		{89, assessment.SkillAdvanced},
		{75, assessment.SkillAdvanced},
		{74, assessment.SkillIntermediate},
		{60, assessment.SkillIntermediate},
		{59, assessment.SkillBeginner},
		{40, assessment.SkillBeginner},
		{39, assessment.SkillNeedsPractice},
		{0, assessment.SkillNeedsPractice},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.score), func(t *testing.T) {
			if got := LevelFor(tt.score); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestGradeAnswers(t *testing.T) {
	qs := questions(3)

	g, err := GradeAnswers(qs, []int{0, 1, -1})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if g.Correct != 2 || g.Score != 67 {
		t.Fatalf("expected 2 correct / 67, got %d / %d", g.Correct, g.Score)
	}

	if _, err := GradeAnswers(qs, []int{0}); !errors.Is(err, ErrAnswerCount) {
		t.Fatalf("expected ErrAnswerCount, got %v", err)
	}
	if _, err := GradeAnswers(nil, nil); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}
