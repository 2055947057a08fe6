package assess

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/assessment"
	"github.com/abhisek/pathwise/internal/questionsource"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/screens/summary"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// Config holds what an assessment screen needs to run a session.
type Config struct {
	Source        questionsource.Source
	Topic         string
	Subtopic      string
	SessionLength int
	PoolSize      int
	Timeout       time.Duration
	NewRand       func() assessment.Rand
}

// AssessScreen runs one adaptive assessment: it fetches a pool, asks one
// question at a time and hands the result to the summary screen.
type AssessScreen struct {
	cfg     Config
	gen     int
	loading bool
	spinner spinner.Model

	session  *assessment.Session
	question *assessment.Question
	choice   components.MultiChoice
	outcome  *assessment.Outcome

	confirmQuit bool
	err         error
}

var _ screen.Screen = (*AssessScreen)(nil)
var _ screen.KeyHintProvider = (*AssessScreen)(nil)
var _ screen.StatusProvider = (*AssessScreen)(nil)
var _ screen.BackHandler = (*AssessScreen)(nil)

// New creates an AssessScreen. The pool is fetched on Init.
func New(cfg Config) *AssessScreen {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	return &AssessScreen{
		cfg:     cfg,
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(theme.Selected)),
	}
}

func (s *AssessScreen) Init() tea.Cmd {
	return tea.Batch(s.fetch(), s.spinner.Tick)
}

func (s *AssessScreen) Title() string {
	return "Assessment"
}

func (s *AssessScreen) Status() string {
	return s.cfg.Topic
}

// HandlesBack keeps Esc inside the screen once a session is running, so
// it asks before abandoning answers.
func (s *AssessScreen) HandlesBack() bool {
	return s.session != nil && !s.session.Complete()
}

func (s *AssessScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.err != nil:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Finish now"},
			{Key: "N", Description: "Keep going"},
		}
	case s.outcome != nil:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case s.loading:
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "1-4", Description: "Answer"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Finish"},
	}
}

// fetch starts a new pool fetch and invalidates any in flight.
func (s *AssessScreen) fetch() tea.Cmd {
	s.gen++
	s.loading = true
	s.err = nil

	gen, cfg := s.gen, s.cfg
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		pool, err := cfg.Source.Questions(ctx, questionsource.Request{
			Topic:    cfg.Topic,
			Subtopic: cfg.Subtopic,
			Count:    max(cfg.PoolSize, cfg.SessionLength),
		})
		return poolReadyMsg{gen: gen, pool: pool, err: err}
	}
}

func (s *AssessScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case poolReadyMsg:
		return s.handlePool(msg)

	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case finishMsg:
		return s.finish()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *AssessScreen) handlePool(msg poolReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.gen != s.gen {
		return s, nil
	}
	s.loading = false
	if msg.err != nil {
		s.err = msg.err
		return s, nil
	}

	var opts []assessment.Option
	if s.cfg.NewRand != nil {
		opts = append(opts, assessment.WithRand(s.cfg.NewRand()))
	}
	sess, err := assessment.NewSession(s.cfg.Topic, s.cfg.Subtopic, msg.pool, s.cfg.SessionLength, opts...)
	if err != nil {
		s.err = err
		return s, nil
	}
	s.session = sess
	s.show(sess.Current())
	return s, nil
}

func (s *AssessScreen) show(q *assessment.Question) {
	s.question = q
	s.outcome = nil
	if q != nil {
		s.choice = components.NewMultiChoice(q.Text, q.Options)
	}
}

func (s *AssessScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.err != nil {
		switch key {
		case "r", "R":
			return s, tea.Batch(s.fetch(), s.spinner.Tick)
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.loading {
		if key == "esc" {
			// Dropping the generation discards the in-flight result.
			s.gen++
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	if s.session == nil {
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, func() tea.Msg { return finishMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if s.outcome != nil {
		out := s.outcome
		if out.Result != nil {
			return s, showReport(out.Result)
		}
		s.show(out.Next)
		return s, nil
	}

	if key == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	if s.choice.HasChosen() {
		return s.submit()
	}
	return s, cmd
}

func (s *AssessScreen) submit() (screen.Screen, tea.Cmd) {
	out, err := s.session.SubmitAnswer(s.choice.Chosen)
	if err != nil {
		s.choice.Reset()
		s.err = err
		return s, nil
	}
	s.choice.Reveal(s.question.CorrectAnswer)
	s.outcome = &out
	return s, nil
}

// finish ends the session early. With nothing answered there is no
// result to show, so the screen just closes.
func (s *AssessScreen) finish() (screen.Screen, tea.Cmd) {
	res, err := s.session.Finalize()
	if errors.Is(err, assessment.ErrEmptySession) {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if err != nil {
		s.err = err
		return s, nil
	}
	return s, showReport(res)
}

func showReport(res *assessment.Result) tea.Cmd {
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(res)}
	}
}
