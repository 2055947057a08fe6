package server

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"

	"github.com/abhisek/pathwise/internal/assessment"
)

// Stream message types.
const (
	msgSnapshot = "snapshot"
	msgAnswer   = "answer"
	msgFinish   = "finish"
	msgResult   = "result"
	msgError    = "error"
)

// streamRequest is a client frame: {"type":"answer","questionId":"…","answer":2}
// or {"type":"finish"}.
type streamRequest struct {
	Type       string `json:"type"`
	QuestionID string `json:"questionId,omitempty"`
	Answer     *int   `json:"answer,omitempty"`
}

// streamMessage is a server frame.
type streamMessage struct {
	Type    string               `json:"type"`
	Session *assessment.Snapshot `json:"session,omitempty"`
	Outcome *answerResponse      `json:"outcome,omitempty"`
	Result  *assessment.Result   `json:"result,omitempty"`
	Error   *apiError            `json:"error,omitempty"`
}

func (s *Server) acceptOptions() *websocket.AcceptOptions {
	opts := &websocket.AcceptOptions{}
	for _, o := range s.config.AllowedOrigins {
		if o == "*" {
			opts.InsecureSkipVerify = true
			return opts
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			opts.OriginPatterns = append(opts.OriginPatterns, u.Host)
		} else {
			opts.OriginPatterns = append(opts.OriginPatterns, o)
		}
	}
	return opts
}

// handleAssessmentStream drives one session over a websocket: the server
// sends the current snapshot, then answers each client frame with the
// outcome until the session completes.
func (s *Server) handleAssessmentStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.registry.Get(id)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	conn, err := websocket.Accept(w, r, s.acceptOptions())
	if err != nil {
		s.logger.Error("failed to accept websocket", "session_id", id, "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	s.logger.Info("assessment stream connected", "session_id", id)

	if err := wsjson.Write(ctx, conn, streamMessage{Type: msgSnapshot, Session: &snap}); err != nil {
		return
	}
	if snap.Complete {
		conn.Close(websocket.StatusNormalClosure, "session complete")
		return
	}

	for {
		var req streamRequest
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				s.logger.Debug("assessment stream read ended", "session_id", id, "error", err)
			}
			return
		}

		var (
			reply streamMessage
			done  bool
		)
		switch req.Type {
		case msgAnswer:
			reply, done = s.streamAnswer(id, req)
		case msgFinish:
			reply, done = s.streamFinish(id)
		default:
			reply = streamMessage{Type: msgError, Error: &apiError{
				Code:    "invalid_request",
				Message: "unknown message type " + req.Type,
			}}
		}

		if err := wsjson.Write(ctx, conn, reply); err != nil {
			return
		}
		if done {
			conn.Close(websocket.StatusNormalClosure, "session complete")
			return
		}
	}
}

func (s *Server) streamAnswer(id string, req streamRequest) (streamMessage, bool) {
	if req.Answer == nil {
		return streamError(errAnswerRequired), false
	}
	out, snap, err := s.registry.Submit(id, req.QuestionID, *req.Answer)
	if err != nil {
		return streamError(err), errors.Is(err, assessment.ErrSessionNotFound)
	}
	resp := newAnswerResponse(out, snap)
	if out.Result != nil {
		s.logResult(id, out.Result)
		return streamMessage{Type: msgResult, Outcome: &resp, Result: out.Result}, true
	}
	return streamMessage{Type: msgAnswer, Outcome: &resp}, false
}

func (s *Server) streamFinish(id string) (streamMessage, bool) {
	res, err := s.registry.Finish(id)
	if err != nil {
		return streamError(err), errors.Is(err, assessment.ErrSessionNotFound)
	}
	s.logResult(id, res)
	return streamMessage{Type: msgResult, Result: res}, true
}

func streamError(err error) streamMessage {
	_, code, msg := statusFor(err)
	return streamMessage{Type: msgError, Error: &apiError{Code: code, Message: msg}}
}
