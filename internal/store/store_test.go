package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	assert.Equal(t, DriverSQLite, s.Driver())
	assert.NoError(t, s.Ping(context.Background()))
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestParseDriver(t *testing.T) {
	tests := []struct {
		in      string
		want    Driver
		wantErr bool
	}{
		{"", DriverSQLite, false},
		{"sqlite", DriverSQLite, false},
		{"postgres", DriverPostgres, false},
		{"pgx", DriverPostgres, false},
		{"mysql", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDriver(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenDriver_Unsupported(t *testing.T) {
	_, err := OpenDriver(context.Background(), Driver("mysql"), "x")
	assert.Error(t, err)
}

func TestSequenceCounter_Monotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		n, err := s.seq.Next(ctx)
		require.NoError(t, err)
		if i > 0 {
			assert.Equal(t, last+1, n)
		}
		last = n
	}
}

func TestSequenceCounter_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seq.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	first, err := s.seq.Next(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	second, err := s.seq.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}

func TestDefaultDBPath(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "nested", "x.db")
		t.Setenv("PATHWISE_DB", p)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, p, got)
		_, err = os.Stat(filepath.Dir(p))
		assert.NoError(t, err)
	})

	t.Run("xdg data home", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("PATHWISE_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "pathwise", "pathwise.db"), got)
	})
}

func TestLLMEvents_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	purposes := []string{"question-gen", "path-gen", "question-gen"}
	for i, p := range purposes {
		var errMsg string
		if i == 1 {
			errMsg = "rate limited"
		}
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "anthropic",
			Model:        "claude-sonnet-4-20250514",
			Purpose:      p,
			InputTokens:  100 * (i + 1),
			OutputTokens: 10 * (i + 1),
			LatencyMs:    int64(200 * (i + 1)),
			Success:      errMsg == "",
			ErrorMessage: errMsg,
			RequestBody:  `{"topic":"Go"}`,
			ResponseBody: `{"questions":[]}`,
		})
		require.NoError(t, err)
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Greater(t, all[0].Sequence, all[1].Sequence, "newest first")
	assert.Equal(t, "question-gen", all[0].Purpose)
	assert.Equal(t, `{"topic":"Go"}`, all[0].RequestBody)
	assert.WithinDuration(t, time.Now(), all[0].Timestamp, time.Minute)

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	byPurpose, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "path-gen"})
	require.NoError(t, err)
	require.Len(t, byPurpose, 1)
	assert.False(t, byPurpose[0].Success)
	assert.Equal(t, "rate limited", byPurpose[0].ErrorMessage)

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: all[2].Sequence, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, after, 2)

	future, err := repo.QueryLLMEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, future)
}

func TestLLMEvents_Get(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "openai", Model: "gpt-4o", Purpose: "path-gen", Success: true,
	}))
	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev, err := repo.GetLLMEvent(ctx, events[0].ID)
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, "gpt-4o", ev.Model)
	assert.True(t, ev.Success)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLLMEvents_Usage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Model: "gpt-4o", Purpose: "question-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 100},
		{Model: "gpt-4o", Purpose: "question-gen", InputTokens: 200, OutputTokens: 50, LatencyMs: 300},
		{Model: "gemini-2.0-flash", Purpose: "path-gen", InputTokens: 10, OutputTokens: 5, LatencyMs: 50},
	}
	for _, e := range events {
		e.Provider = "x"
		e.Success = true
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, PurposeUsage{Purpose: "path-gen", Calls: 1, InputTokens: 10, OutputTokens: 5, AvgLatencyMs: 50}, byPurpose[0])
	assert.Equal(t, PurposeUsage{Purpose: "question-gen", Calls: 2, InputTokens: 300, OutputTokens: 100, AvgLatencyMs: 200}, byPurpose[1])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, "gemini-2.0-flash", byModel[0].Model)
	assert.Equal(t, 2, byModel[1].Calls)
}

func TestLLMEvents_UsageEmpty(t *testing.T) {
	s := openTestStore(t)
	stats, err := s.EventRepo().LLMUsageByPurpose(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats)
}
