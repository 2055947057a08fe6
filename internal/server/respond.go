package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/abhisek/pathwise/internal/assessment"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/pathgen"
	"github.com/abhisek/pathwise/internal/questionsource"
	"github.com/abhisek/pathwise/internal/quiz"
)

// maxBodyBytes caps request bodies; learning-path documents are the largest.
const maxBodyBytes = 1 << 20

type apiResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// respondErr maps err through statusFor and logs server-side failures.
func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := statusFor(err)
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	respondError(w, status, code, msg)
}

var (
	errBadJSON        = errors.New("request body is not valid JSON")
	errAnswerRequired = errors.New("answer is required")
)

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadJSON)
		}
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return nil
}

// statusFor maps domain errors to an HTTP status, an error code and a
// client-facing message.
func statusFor(err error) (int, string, string) {
	var (
		rateLimit   *llm.ErrRateLimit
		unauth      *llm.ErrUnauthorized
		unavailable *llm.ErrProviderUnavailable
		invalid     *llm.ErrInvalidResponse
		maxTokens   *llm.ErrMaxTokensExceeded
	)

	switch {
	case errors.Is(err, assessment.ErrSessionNotFound):
		return http.StatusNotFound, "not_found", "assessment session not found"

	case errors.Is(err, errBadJSON),
		errors.Is(err, errAnswerRequired),
		errors.Is(err, pathgen.ErrPromptRequired),
		errors.Is(err, questionsource.ErrTopicRequired),
		errors.Is(err, questionsource.ErrInvalidCount),
		errors.Is(err, assessment.ErrAnswerOutOfRange),
		errors.Is(err, assessment.ErrInvalidLength),
		errors.Is(err, assessment.ErrInvalidQuestion),
		errors.Is(err, quiz.ErrAnswerCount),
		errors.Is(err, quiz.ErrNoQuestions):
		return http.StatusBadRequest, "invalid_request", err.Error()

	case errors.Is(err, assessment.ErrDuplicateAnswer),
		errors.Is(err, assessment.ErrSessionComplete),
		errors.Is(err, assessment.ErrQuestionNotOffered),
		errors.Is(err, assessment.ErrNoQuestionOffered),
		errors.Is(err, assessment.ErrEmptySession):
		return http.StatusConflict, "conflict", err.Error()

	case errors.As(err, &rateLimit):
		return http.StatusTooManyRequests, "rate_limited", "Rate limit exceeded. Please try again later."
	case errors.As(err, &unauth):
		return http.StatusUnauthorized, "unauthorized", "Authentication error. Check your API key."
	case errors.Is(err, llm.ErrNotConfigured):
		return http.StatusServiceUnavailable, "llm_not_configured", "no LLM provider is configured"

	case errors.As(err, &unavailable),
		errors.As(err, &invalid),
		errors.As(err, &maxTokens),
		errors.Is(err, questionsource.ErrNoQuestions),
		errors.Is(err, assessment.ErrEmptyPool):
		return http.StatusBadGateway, "upstream_error", err.Error()

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout", "request timed out"
	}

	return http.StatusInternalServerError, "internal_error", "internal server error"
}
