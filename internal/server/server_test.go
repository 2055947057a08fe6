package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/assessment"
	"github.com/abhisek/pathwise/internal/config"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/pathgen"
	"github.com/abhisek/pathwise/internal/questionsource"
)

const samplePath = `# Go Fundamentals
Estimated time: 1 month
## Syntax
Estimated time: 2 weeks
- Book: The Go Programming Language
- Website: go.dev/tour
# Web Services
## HTTP
Estimated time: 2-3 weeks
* Course: Building APIs
`

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

type testOpts struct {
	provider llm.Provider
	ready    map[string]Check
}

func newTestServer(t *testing.T, o testOpts) *Server {
	t.Helper()
	return New(
		config.ServerConfig{
			AllowedOrigins: []string{"*"},
			RequestTimeout: 5 * time.Second,
		},
		config.AssessmentConfig{
			SessionLength: 3,
			PoolSize:      9,
			QuizLength:    10,
			SessionTTL:    time.Minute,
		},
		Deps{
			Questions: questionsource.MustTemplateSource(),
			Paths:     pathgen.NewGenerator(o.provider),
			Ready:     o.ready,
			Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
			NewRand:   func() assessment.Rand { return assessment.NewRand(7) },
		},
	)
}

func do(t *testing.T, s *Server, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testOpts{})
	rec, env := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"status":"healthy"`)
}

func TestReady(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	s := newTestServer(t, testOpts{ready: map[string]Check{"store": ok}})
	rec, _ := do(t, s, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	s = newTestServer(t, testOpts{ready: map[string]Check{"store": ok, "cache": down}})
	rec, env := do(t, s, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "cache not ready", env.Error.Message)
}

func TestGeneratePath(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(samplePath)})
	s := newTestServer(t, testOpts{provider: mock})

	rec, env := do(t, s, http.MethodPost, "/api/v1/paths", map[string]any{"prompt": "learn Go"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data struct {
		Result string `json:"result"`
		Model  string `json:"model"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, strings.TrimSpace(samplePath), data.Result)
	assert.Equal(t, "mock", data.Model)
	require.Len(t, mock.Calls, 1)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "User input: learn Go")
}

func TestGeneratePath_Errors(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.Provider
		body     any
		status   int
		code     string
	}{
		{"missing prompt", llm.NewMockProvider(), map[string]any{}, http.StatusBadRequest, "invalid_request"},
		{"bad json", llm.NewMockProvider(), "{", http.StatusBadRequest, "invalid_request"},
		{"rate limited", llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}}), map[string]any{"prompt": "go"}, http.StatusTooManyRequests, "rate_limited"},
		{"unauthorized", llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrUnauthorized{}}), map[string]any{"prompt": "go"}, http.StatusUnauthorized, "unauthorized"},
		{"no provider", nil, map[string]any{"prompt": "go"}, http.StatusServiceUnavailable, "llm_not_configured"},
		{"provider down", llm.NewMockProvider(), map[string]any{"prompt": "go"}, http.StatusBadGateway, "upstream_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, testOpts{provider: tt.provider})
			rec, env := do(t, s, http.MethodPost, "/api/v1/paths", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestVisualize(t *testing.T) {
	s := newTestServer(t, testOpts{})
	rec, env := do(t, s, http.MethodPost, "/api/v1/paths/visualize", map[string]any{"content": samplePath})
	require.Equal(t, http.StatusOK, rec.Code)

	var viz struct {
		Document struct {
			Topics []struct {
				Title string `json:"title"`
			} `json:"topics"`
		} `json:"document"`
		Timeline struct {
			TotalWeeks float64 `json:"totalWeeks"`
		} `json:"timeline"`
		ResourceBreakdown []struct {
			Type  string `json:"type"`
			Count int    `json:"count"`
		} `json:"resourceBreakdown"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &viz))
	require.Len(t, viz.Document.Topics, 2)
	assert.Equal(t, "Go Fundamentals", viz.Document.Topics[0].Title)
	assert.InDelta(t, 8.5, viz.Timeline.TotalWeeks, 1e-9)
	assert.Len(t, viz.ResourceBreakdown, 3)
}

func TestExport(t *testing.T) {
	s := newTestServer(t, testOpts{})
	rec, _ := do(t, s, http.MethodPost, "/api/v1/paths/export", map[string]any{"content": samplePath})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "learning-path.xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
}

func TestGenerateQuestions(t *testing.T) {
	s := newTestServer(t, testOpts{})

	rec, env := do(t, s, http.MethodPost, "/api/v1/assessments/questions", map[string]any{"topic": "Java", "count": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Questions []assessment.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Questions, 5)
	for _, q := range data.Questions {
		assert.NoError(t, q.Validate())
		assert.Equal(t, "Java", q.Topic)
	}

	rec, env = do(t, s, http.MethodPost, "/api/v1/assessments/questions", map[string]any{"count": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", env.Error.Code)
}

func createSession(t *testing.T, s *Server, body map[string]any) assessment.Snapshot {
	t.Helper()
	rec, env := do(t, s, http.MethodPost, "/api/v1/assessments", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var snap assessment.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	return snap
}

func TestAssessmentFlow(t *testing.T) {
	s := newTestServer(t, testOpts{})
	snap := createSession(t, s, map[string]any{"topic": "Rust"})

	assert.Equal(t, 3, snap.SessionLength)
	require.NotNil(t, snap.Current)
	assert.Equal(t, assessment.Beginner, snap.Current.Difficulty, "first question is a beginner one")
	assert.Equal(t, 1, s.Registry().Len())

	base := "/api/v1/assessments/" + snap.ID
	rec, env := do(t, s, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), snap.Current.ID)
	assert.NotContains(t, string(env.Data), "correctAnswer", "answer key must not leak")

	first := snap.Current.ID
	var last answerResponse
	for i := 0; i < 3; i++ {
		rec, env = do(t, s, http.MethodPost, base+"/answers", map[string]any{"answer": 0})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		last = answerResponse{}
		require.NoError(t, json.Unmarshal(env.Data, &last))
		if i < 2 {
			require.NotNil(t, last.Next)
			assert.Nil(t, last.Result)
		}
	}
	require.NotNil(t, last.Result)
	assert.Nil(t, last.Next)
	assert.True(t, last.Session.Complete)
	assert.Equal(t, 3, last.Result.TotalQuestions)
	assert.Equal(t, "Rust", last.Result.Topic)

	// Replaying an old answer is a conflict, not a silent re-answer.
	rec, env = do(t, s, http.MethodPost, base+"/answers", map[string]any{"questionId": first, "answer": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", env.Error.Code)

	rec, _ = do(t, s, http.MethodPost, base+"/answers", map[string]any{"answer": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAssessment_AnswerErrors(t *testing.T) {
	s := newTestServer(t, testOpts{})
	snap := createSession(t, s, map[string]any{"topic": "Go", "sessionLength": 2, "poolSize": 4})
	base := "/api/v1/assessments/" + snap.ID

	rec, _ := do(t, s, http.MethodPost, base+"/answers", map[string]any{"answer": 4})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := do(t, s, http.MethodPost, base+"/answers", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "answer is required", env.Error.Message)

	rec, _ = do(t, s, http.MethodPost, base+"/answers", map[string]any{"questionId": "not-offered", "answer": 0})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Rejected answers leave the session untouched.
	rec, env = do(t, s, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got assessment.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 0, got.Answered)
	assert.Equal(t, snap.Current.ID, got.Current.ID)

	rec, _ = do(t, s, http.MethodPost, "/api/v1/assessments/missing/answers", map[string]any{"answer": 0})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssessment_CreateErrors(t *testing.T) {
	s := newTestServer(t, testOpts{})

	rec, _ := do(t, s, http.MethodPost, "/api/v1/assessments", map[string]any{"topic": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, http.MethodPost, "/api/v1/assessments", map[string]any{"topic": "Go", "sessionLength": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssessment_CreateTrimsTopic(t *testing.T) {
	s := newTestServer(t, testOpts{})
	snap := createSession(t, s, map[string]any{"topic": "  Rust ", "subtopic": " Ownership  ", "sessionLength": 1})

	assert.Equal(t, "Rust", snap.Topic)
	assert.Equal(t, "Ownership", snap.Subtopic)

	rec, env := do(t, s, http.MethodPost, "/api/v1/assessments/"+snap.ID+"/answers", map[string]any{"answer": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Result *assessment.Result `json:"result"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotNil(t, out.Result)
	assert.Equal(t, "Rust", out.Result.Topic)
	for _, r := range out.Result.RecommendedResources {
		assert.NotContains(t, r, "  Rust", r)
	}
}

func TestAssessment_FinishAndDelete(t *testing.T) {
	s := newTestServer(t, testOpts{})
	snap := createSession(t, s, map[string]any{"topic": "Go"})
	base := "/api/v1/assessments/" + snap.ID

	rec, env := do(t, s, http.MethodPost, base+"/finish", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "empty_session", env.Error.Code)

	rec, _ = do(t, s, http.MethodPost, base+"/answers", map[string]any{"answer": 0})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, s, http.MethodPost, base+"/finish", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var res assessment.Result
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 1, res.TotalQuestions)
	assert.Len(t, res.RecommendedResources, 3)

	rec, _ = do(t, s, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = do(t, s, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, s.Registry().Len())
}

func TestQuiz(t *testing.T) {
	s := newTestServer(t, testOpts{})

	rec, env := do(t, s, http.MethodPost, "/api/v1/quizzes", map[string]any{"topic": "Java"})
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Questions []assessment.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Questions, 10)

	answers := make([]int, len(data.Questions))
	for i, q := range data.Questions {
		answers[i] = q.CorrectAnswer
	}
	answers[0] = (answers[0] + 1) % 4

	rec, env = do(t, s, http.MethodPost, "/api/v1/quizzes/grade", map[string]any{
		"questions": data.Questions,
		"answers":   answers,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var grade struct {
		Score   int    `json:"score"`
		Correct int    `json:"correct"`
		Level   string `json:"level"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &grade))
	assert.Equal(t, 90, grade.Score)
	assert.Equal(t, 9, grade.Correct)
	assert.Equal(t, "expert", grade.Level)

	rec, _ = do(t, s, http.MethodPost, "/api/v1/quizzes/grade", map[string]any{
		"questions": data.Questions,
		"answers":   answers[:3],
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{assessment.ErrSessionNotFound, http.StatusNotFound},
		{assessment.ErrAnswerOutOfRange, http.StatusBadRequest},
		{assessment.ErrDuplicateAnswer, http.StatusConflict},
		{&llm.ErrRateLimit{}, http.StatusTooManyRequests},
		{&llm.ErrUnauthorized{}, http.StatusUnauthorized},
		{llm.ErrNotConfigured, http.StatusServiceUnavailable},
		{&llm.ErrInvalidResponse{}, http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, _, _ := statusFor(tt.err)
		assert.Equal(t, tt.status, status, "error %v", tt.err)
	}
}

func TestAssessmentStream(t *testing.T) {
	s := newTestServer(t, testOpts{})
	snap := createSession(t, s, map[string]any{"topic": "Go", "sessionLength": 2})

	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/assessments/" + snap.ID + "/stream"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	var msg streamMessage
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, msgSnapshot, msg.Type)
	require.NotNil(t, msg.Session)
	assert.Equal(t, snap.ID, msg.Session.ID)

	require.NoError(t, wsjson.Write(ctx, conn, map[string]any{"type": "answer", "answer": 9}))
	msg = streamMessage{}
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, msgError, msg.Type)
	assert.Equal(t, "invalid_request", msg.Error.Code)

	require.NoError(t, wsjson.Write(ctx, conn, map[string]any{"type": "answer", "answer": 0}))
	msg = streamMessage{}
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, msgAnswer, msg.Type)
	require.NotNil(t, msg.Outcome)
	require.NotNil(t, msg.Outcome.Next)

	require.NoError(t, wsjson.Write(ctx, conn, map[string]any{
		"type":       "answer",
		"questionId": msg.Outcome.Next.ID,
		"answer":     0,
	}))
	msg = streamMessage{}
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, msgResult, msg.Type)
	require.NotNil(t, msg.Result)
	assert.Equal(t, 2, msg.Result.TotalQuestions)

	// The server closes the stream once the session is complete.
	err = wsjson.Read(ctx, conn, &msg)
	assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
}

func TestAssessmentStream_UnknownSession(t *testing.T) {
	s := newTestServer(t, testOpts{})
	rec, _ := do(t, s, http.MethodGet, "/api/v1/assessments/nope/stream", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
