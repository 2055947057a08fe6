package assessment

import (
	"sync"
	"time"
)

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = 30 * time.Minute

// Registry holds live sessions keyed by id. Each session has its own lock,
// so answers to different sessions never contend.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

type entry struct {
	mu      sync.Mutex
	session *Session
	touched time.Time
}

// NewRegistry creates an empty registry. A non-positive ttl uses
// DefaultSessionTTL.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Registry{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Add registers s and returns its snapshot.
func (r *Registry) Add(s *Session) Snapshot {
	r.mu.Lock()
	r.entries[s.ID()] = &entry{session: s, touched: r.now()}
	r.mu.Unlock()
	return s.Snapshot()
}

func (r *Registry) lookup(id string) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// Get returns the snapshot of session id.
func (r *Registry) Get(id string) (Snapshot, error) {
	e, err := r.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = r.now()
	return e.session.Snapshot(), nil
}

// Submit answers the current question of session id. questionID may be
// empty; see Session.AnswerQuestion.
func (r *Registry) Submit(id, questionID string, option int) (Outcome, Snapshot, error) {
	e, err := r.lookup(id)
	if err != nil {
		return Outcome{}, Snapshot{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = r.now()

	out, err := e.session.AnswerQuestion(questionID, option)
	if err != nil {
		return Outcome{}, Snapshot{}, err
	}
	return out, e.session.Snapshot(), nil
}

// Finish finalizes session id early with the answers recorded so far.
func (r *Registry) Finish(id string) (*Result, error) {
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = r.now()
	return e.session.Finalize()
}

// Delete discards session id. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	return true
}

// Sweep removes sessions idle for longer than the ttl and returns how many
// were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.entries {
		e.mu.Lock()
		stale := e.touched.Before(cutoff)
		e.mu.Unlock()
		if stale {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
