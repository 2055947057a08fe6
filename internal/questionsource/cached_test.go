package questionsource

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/pathwise/internal/assessment"
)

type memCache struct {
	data   map[string][]byte
	ttl    time.Duration
	getErr error
	setErr error
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) GetJSON(_ context.Context, key string, v any) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, v)
}

func (m *memCache) SetJSON(_ context.Context, key string, v any, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = b
	m.ttl = ttl
	return nil
}

func TestCachedSource_MissThenHit(t *testing.T) {
	inner := &stubSource{pool: []assessment.Question{{ID: "q1", Text: "cached?", Options: []string{"a", "b", "c", "d"}}}}
	mc := newMemCache()
	src := NewCachedSource(inner, mc, time.Hour, quietLogger())

	for range 3 {
		pool, err := src.Questions(context.Background(), Request{Topic: "Go"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(pool) != 1 || pool[0].ID != "q1" {
			t.Fatalf("unexpected pool %+v", pool)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.calls)
	}
	if mc.ttl != time.Hour {
		t.Fatalf("expected ttl to be passed through, got %v", mc.ttl)
	}
}

func TestCachedSource_KeyIncludesRequest(t *testing.T) {
	a := CacheKey(Request{Topic: "Go", Count: 10})
	b := CacheKey(Request{Topic: "Go", Subtopic: "Maps", Count: 10})
	c := CacheKey(Request{Topic: "Go", Count: 5})
	if a == b || a == c || b == c {
		t.Fatal("keys must differ per topic, subtopic and count")
	}
	if !strings.HasPrefix(a, "pathwise:questions:") {
		t.Fatalf("unexpected key %q", a)
	}
}

func TestCachedSource_CacheFailuresAreBypassed(t *testing.T) {
	inner := &stubSource{pool: []assessment.Question{{ID: "q1"}}}
	mc := newMemCache()
	mc.getErr = errors.New("connection refused")
	mc.setErr = errors.New("connection refused")
	src := NewCachedSource(inner, mc, time.Hour, quietLogger())

	for range 2 {
		if _, err := src.Questions(context.Background(), Request{Topic: "Go"}); err != nil {
			t.Fatalf("cache errors must not surface: %v", err)
		}
	}
	if inner.calls != 2 {
		t.Fatalf("expected every call to reach the inner source, got %d", inner.calls)
	}
}

func TestCachedSource_InnerErrorNotCached(t *testing.T) {
	inner := &stubSource{err: errors.New("upstream down")}
	mc := newMemCache()
	src := NewCachedSource(inner, mc, time.Hour, quietLogger())

	if _, err := src.Questions(context.Background(), Request{Topic: "Go"}); err == nil {
		t.Fatal("expected inner error")
	}
	if len(mc.data) != 0 {
		t.Fatal("errors must not be cached")
	}
}
