package assess

import "github.com/abhisek/pathwise/internal/assessment"

// poolReadyMsg carries a fetched question pool. gen identifies the fetch;
// results from a superseded fetch are dropped.
type poolReadyMsg struct {
	gen  int
	pool []assessment.Question
	err  error
}

// finishMsg ends the session with the answers recorded so far.
type finishMsg struct{}
