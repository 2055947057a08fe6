package server

import (
	"net/http"

	"github.com/abhisek/pathwise/internal/assessment"
	"github.com/abhisek/pathwise/internal/questionsource"
	"github.com/abhisek/pathwise/internal/quiz"
)

type createQuizRequest struct {
	Topic    string `json:"topic"`
	Subtopic string `json:"subtopic"`
}

// handleCreateQuiz returns a fixed-length quiz. The answer key is included
// so the client can grade locally; /quizzes/grade grades server-side.
func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	n := s.assessment.QuizLength
	if n <= 0 {
		n = quiz.DefaultLength
	}
	pool, err := s.questions.Questions(r.Context(), questionsource.Request{
		Topic:    req.Topic,
		Subtopic: req.Subtopic,
		Count:    n,
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	q, err := quiz.NewWithLength(pool, n)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	questions := make([]assessment.Question, q.Len())
	for i := range questions {
		questions[i], _ = q.Question(i)
	}

	respondJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

type gradeQuizRequest struct {
	Questions []assessment.Question `json:"questions"`
	Answers   []int                 `json:"answers"`
}

func (s *Server) handleGradeQuiz(w http.ResponseWriter, r *http.Request) {
	var req gradeQuizRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	g, err := quiz.GradeAnswers(req.Questions, req.Answers)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}
