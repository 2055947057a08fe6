package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/pathwise/internal/assessment"
	"github.com/abhisek/pathwise/internal/questionsource"
)

type questionsRequest struct {
	Topic    string `json:"topic"`
	Subtopic string `json:"subtopic"`
	Count    int    `json:"count"`
}

func (s *Server) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req questionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	pool, err := s.questions.Questions(r.Context(), questionsource.Request{
		Topic:    req.Topic,
		Subtopic: req.Subtopic,
		Count:    req.Count,
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"questions": pool})
}

type createAssessmentRequest struct {
	Topic         string `json:"topic"`
	Subtopic      string `json:"subtopic"`
	SessionLength int    `json:"sessionLength"`
	PoolSize      int    `json:"poolSize"`
}

func (s *Server) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req createAssessmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	length := req.SessionLength
	if length == 0 {
		length = s.assessment.SessionLength
	}
	if length < 0 {
		s.respondErr(w, r, fmt.Errorf("%w: %d", assessment.ErrInvalidLength, length))
		return
	}
	poolSize := req.PoolSize
	if poolSize <= 0 {
		poolSize = max(s.assessment.PoolSize, length)
	}

	qreq, err := questionsource.Request{
		Topic:    req.Topic,
		Subtopic: req.Subtopic,
		Count:    poolSize,
	}.Normalize()
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	pool, err := s.questions.Questions(r.Context(), qreq)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	// The client may have gone away while the pool was generated.
	if err := r.Context().Err(); err != nil {
		return
	}

	var opts []assessment.Option
	if s.newRand != nil {
		opts = append(opts, assessment.WithRand(s.newRand()))
	}
	sess, err := assessment.NewSession(qreq.Topic, qreq.Subtopic, pool, length, opts...)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	snap := s.registry.Add(sess)
	s.logger.Info("assessment started",
		"session_id", snap.ID,
		"topic", snap.Topic,
		"length", length,
		"pool", len(pool),
	)
	respondJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	snap, err := s.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteAssessment(w http.ResponseWriter, r *http.Request) {
	if !s.registry.Delete(chi.URLParam(r, "id")) {
		s.respondErr(w, r, assessment.ErrSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type answerRequest struct {
	QuestionID string `json:"questionId"`
	Answer     *int   `json:"answer"`
}

// answerResponse is what one submitted answer produces. Exactly one of
// Next and Result is set.
type answerResponse struct {
	Answer  assessment.AnsweredQuestion `json:"answer"`
	Next    *assessment.PublicQuestion  `json:"next,omitempty"`
	Result  *assessment.Result          `json:"result,omitempty"`
	Session assessment.Snapshot         `json:"session"`
}

func newAnswerResponse(out assessment.Outcome, snap assessment.Snapshot) answerResponse {
	resp := answerResponse{Answer: out.Answer, Result: out.Result, Session: snap}
	if out.Next != nil {
		pq := out.Next.Public()
		resp.Next = &pq
	}
	return resp
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}
	if req.Answer == nil {
		s.respondErr(w, r, errAnswerRequired)
		return
	}

	id := chi.URLParam(r, "id")
	out, snap, err := s.registry.Submit(id, req.QuestionID, *req.Answer)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if out.Result != nil {
		s.logResult(id, out.Result)
	}
	respondJSON(w, http.StatusOK, newAnswerResponse(out, snap))
}

func (s *Server) handleFinishAssessment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := s.registry.Finish(id)
	if err != nil {
		if errors.Is(err, assessment.ErrEmptySession) {
			respondError(w, http.StatusConflict, "empty_session", "answer at least one question before finishing")
			return
		}
		s.respondErr(w, r, err)
		return
	}
	s.logResult(id, res)
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) logResult(id string, res *assessment.Result) {
	s.logger.Info("assessment completed",
		"session_id", id,
		"topic", res.Topic,
		"score", res.Score,
		"skill_level", string(res.SkillLevel),
		"answered", res.TotalQuestions,
	)
}
