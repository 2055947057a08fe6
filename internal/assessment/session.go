package assessment

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Rand is the random source used to break ties between candidate
// questions. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Option configures a Session.
type Option func(*Session)

// WithRand injects the tie-break random source.
func WithRand(r Rand) Option {
	return func(s *Session) { s.rng = r }
}

// WithID sets the session id instead of generating one.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewRand returns a seeded PCG source.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Session is one run of the adaptive assessment. A Session is not safe
// for concurrent use; Registry serializes access for shared sessions.
type Session struct {
	id        string
	topic     string
	subtopic  string
	pool      []Question
	length    int
	answered  []AnsweredQuestion
	offered   map[string]bool
	current   int // index into pool, -1 when nothing is offered
	result    *Result
	rng       Rand
	now       func() time.Time
	startedAt time.Time
}

// Outcome is what a single answer produces: the recorded answer and
// either the next question or the final result.
type Outcome struct {
	Answer AnsweredQuestion
	Next   *Question
	Result *Result
}

// NewSession validates the pool and offers the first question: the first
// beginner question in pool order, or pool[0] when there is none.
func NewSession(topic, subtopic string, pool []Question, length int, opts ...Option) (*Session, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	if length <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	seen := make(map[string]bool, len(pool))
	for _, q := range pool {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateQuestion, q.ID)
		}
		seen[q.ID] = true
	}

	s := &Session{
		topic:    topic,
		subtopic: subtopic,
		pool:     append([]Question(nil), pool...),
		length:   length,
		offered:  make(map[string]bool, len(pool)),
		current:  -1,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.rng == nil {
		s.rng = NewRand(uint64(time.Now().UnixNano()))
	}
	s.startedAt = s.now()

	first := 0
	for i, q := range s.pool {
		if q.Difficulty == Beginner {
			first = i
			break
		}
	}
	s.offer(first)

	return s, nil
}

func (s *Session) ID() string { return s.id }
func (s *Session) Topic() string { return s.topic }
func (s *Session) Subtopic() string { return s.subtopic }
func (s *Session) Length() int { return s.length }
func (s *Session) PoolSize() int { return len(s.pool) }
func (s *Session) Complete() bool { return s.result != nil }
func (s *Session) Result() *Result { return s.result }
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Current returns the currently offered question, or nil when complete.
func (s *Session) Current() *Question {
	if s.current < 0 {
		return nil
	}
	q := s.pool[s.current]
	return &q
}

// Answered returns a copy of the answers recorded so far.
func (s *Session) Answered() []AnsweredQuestion {
	return append([]AnsweredQuestion(nil), s.answered...)
}

// SubmitAnswer records option as the answer to the current question and
// selects the next one. Rejected answers leave the session unchanged.
func (s *Session) SubmitAnswer(option int) (Outcome, error) {
	if s.Complete() {
		return Outcome{}, ErrSessionComplete
	}
	if s.current < 0 {
		return Outcome{}, ErrNoQuestionOffered
	}
	q := s.pool[s.current]
	if option < 0 || option >= len(q.Options) {
		return Outcome{}, fmt.Errorf("%w: %d", ErrAnswerOutOfRange, option)
	}
	for _, a := range s.answered {
		if a.QuestionID == q.ID {
			return Outcome{}, fmt.Errorf("%w: %s", ErrDuplicateAnswer, q.ID)
		}
	}

	ans := AnsweredQuestion{
		QuestionID: q.ID,
		UserAnswer: option,
		IsCorrect:  q.IsCorrect(option),
		Difficulty: q.Difficulty,
	}
	s.answered = append(s.answered, ans)
	s.current = -1

	if len(s.answered) >= s.length {
		res, err := s.finalize()
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Answer: ans, Result: res}, nil
	}

	next, ok := s.selectNext(q.Difficulty)
	if !ok {
		res, err := s.finalize()
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Answer: ans, Result: res}, nil
	}

	s.offer(next)
	nq := s.pool[next]
	return Outcome{Answer: ans, Next: &nq}, nil
}

// AnswerQuestion is SubmitAnswer bound to a question id, so a client
// replaying an old answer gets ErrDuplicateAnswer instead of answering
// whatever is offered now. An empty id skips the check.
func (s *Session) AnswerQuestion(questionID string, option int) (Outcome, error) {
	if questionID == "" {
		return s.SubmitAnswer(option)
	}
	for _, a := range s.answered {
		if a.QuestionID == questionID {
			return Outcome{}, fmt.Errorf("%w: %s", ErrDuplicateAnswer, questionID)
		}
	}
	if s.Complete() {
		return Outcome{}, ErrSessionComplete
	}
	if cur := s.Current(); cur == nil || cur.ID != questionID {
		return Outcome{}, fmt.Errorf("%w: %s", ErrQuestionNotOffered, questionID)
	}
	return s.SubmitAnswer(option)
}

// Finalize ends the session with whatever has been answered. It returns
// the existing result when the session is already complete.
func (s *Session) Finalize() (*Result, error) {
	if s.result != nil {
		return s.result, nil
	}
	return s.finalize()
}

func (s *Session) finalize() (*Result, error) {
	res, err := buildResult(s.id, s.topic, s.subtopic, s.answered, s.now())
	if err != nil {
		return nil, err
	}
	s.result = res
	s.current = -1
	return res, nil
}

// TargetDifficulty applies the two-in-a-row rule to the answers so far,
// starting from the band of the question just answered.
func TargetDifficulty(current Difficulty, answered []AnsweredQuestion) Difficulty {
	n := len(answered)
	if n < 2 {
		return current
	}
	last, prev := answered[n-1], answered[n-2]
	switch {
	case last.IsCorrect && prev.IsCorrect:
		return current.Harder()
	case !last.IsCorrect && !prev.IsCorrect:
		return current.Easier()
	default:
		return current
	}
}

// selectNext picks the index of the next question. It prefers unoffered
// questions at the target band and falls back to any unoffered question.
func (s *Session) selectNext(current Difficulty) (int, bool) {
	target := TargetDifficulty(current, s.answered)

	var candidates, remaining []int
	for i, q := range s.pool {
		if s.offered[q.ID] {
			continue
		}
		remaining = append(remaining, i)
		if q.Difficulty == target {
			candidates = append(candidates, i)
		}
	}

	if len(candidates) > 0 {
		return candidates[s.rng.IntN(len(candidates))], true
	}
	if len(remaining) > 0 {
		return remaining[s.rng.IntN(len(remaining))], true
	}
	return 0, false
}

func (s *Session) offer(i int) {
	s.current = i
	s.offered[s.pool[i].ID] = true
}

// Snapshot is a read-only view of a session for transports.
type Snapshot struct {
	ID            string          `json:"id"`
	Topic         string          `json:"topic"`
	Subtopic      string          `json:"subtopic,omitempty"`
	SessionLength int             `json:"sessionLength"`
	Answered      int             `json:"answered"`
	Current       *PublicQuestion `json:"current,omitempty"`
	Complete      bool            `json:"complete"`
	Result        *Result         `json:"result,omitempty"`
}

// Snapshot returns the transport view of the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:            s.id,
		Topic:         s.topic,
		Subtopic:      s.subtopic,
		SessionLength: s.length,
		Answered:      len(s.answered),
		Complete:      s.Complete(),
		Result:        s.result,
	}
	if q := s.Current(); q != nil {
		pq := q.Public()
		snap.Current = &pq
	}
	return snap
}
