package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/assessment"
	"github.com/abhisek/pathwise/internal/questionsource"
	qz "github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/screens/summary"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// Config holds what a quiz screen needs.
type Config struct {
	Source   questionsource.Source
	Topic    string
	Subtopic string
	Length   int
	Timeout  time.Duration
}

type questionsMsg struct {
	gen       int
	questions []assessment.Question
	err       error
}

// QuizScreen runs a fixed-length quiz. Answers can be changed freely
// until the quiz is submitted.
type QuizScreen struct {
	cfg     Config
	gen     int
	loading bool
	spinner spinner.Model

	quiz   *qz.Quiz
	choice components.MultiChoice
	grade  *qz.Grade
	err    error
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)

// New creates a QuizScreen. Questions are fetched on Init.
func New(cfg Config) *QuizScreen {
	if cfg.Length <= 0 {
		cfg.Length = qz.DefaultLength
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	return &QuizScreen{
		cfg:     cfg,
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(theme.Selected)),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return tea.Batch(s.fetch(), s.spinner.Tick)
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) Status() string {
	return s.cfg.Topic
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.err != nil:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	case s.grade != nil:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Q", Description: "Quit"},
		}
	case s.quiz == nil:
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	}
	hints := []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "←→", Description: "Prev/Next"},
	}
	if s.quiz.AllAnswered() {
		hints = append(hints, layout.KeyHint{Key: "S", Description: "Submit"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *QuizScreen) fetch() tea.Cmd {
	s.gen++
	s.loading = true
	s.err = nil

	gen, cfg := s.gen, s.cfg
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		qs, err := cfg.Source.Questions(ctx, questionsource.Request{
			Topic:    cfg.Topic,
			Subtopic: cfg.Subtopic,
			Count:    cfg.Length,
		})
		return questionsMsg{gen: gen, questions: qs, err: err}
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsMsg:
		if msg.gen != s.gen {
			return s, nil
		}
		s.loading = false
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		q, err := qz.NewWithLength(msg.questions, s.cfg.Length)
		if err != nil {
			s.err = err
			return s, nil
		}
		s.quiz = q
		s.showCurrent()
		return s, nil

	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) showCurrent() {
	q := s.quiz.Current()
	s.choice = components.NewMultiChoice(q.Text, q.Options)
	if sel, ok := s.quiz.Selected(s.quiz.Position()); ok {
		s.choice.Preselect(sel)
	}
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.err != nil {
		if key == "r" || key == "R" {
			return s, tea.Batch(s.fetch(), s.spinner.Tick)
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.quiz == nil {
		return s, nil
	}

	if s.grade != nil {
		switch key {
		case "enter":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "q":
			return s, tea.Quit
		}
		return s, nil
	}

	switch key {
	case "left", "h", "p":
		if s.quiz.Prev() {
			s.showCurrent()
		}
		return s, nil
	case "right", "l", "n":
		if s.quiz.Next() {
			s.showCurrent()
		}
		return s, nil
	case "s", "S":
		if !s.quiz.AllAnswered() {
			return s, nil
		}
		g, err := s.quiz.Submit()
		if err != nil {
			s.err = err
			return s, nil
		}
		s.grade = &g
		return s, nil
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	if s.choice.HasChosen() {
		if err := s.quiz.Answer(s.quiz.Position(), s.choice.Chosen); err != nil {
			s.err = err
			return s, nil
		}
		// On the last question the choice stays editable.
		if !s.quiz.Next() {
			s.choice.Reset()
			return s, cmd
		}
		s.showCurrent()
	}
	return s, cmd
}

func (s *QuizScreen) View(width, height int) string {
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	switch {
	case s.err != nil:
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press R to retry or any other key to go back.", s.err))
	case s.loading:
		return center(theme.Muted.Render(fmt.Sprintf("\n\n\n%s Preparing your quiz on %s...", s.spinner.View(), s.cfg.Topic)))
	case s.quiz == nil:
		return ""
	case s.grade != nil:
		return s.renderGrade(width)
	}

	answered := make([]bool, s.quiz.Len())
	for i := range answered {
		_, answered[i] = s.quiz.Selected(i)
	}

	var b strings.Builder
	b.WriteString(theme.Muted.Render(fmt.Sprintf("  Question %d of %d", s.quiz.Position()+1, s.quiz.Len())))
	b.WriteString("\n")
	b.WriteString(center(components.StepDots(answered, s.quiz.Position())))
	b.WriteString("\n\n")

	body := lipgloss.NewStyle().Width(min(width-8, 72)).Render(s.choice.View())
	b.WriteString(center(body))
	b.WriteString("\n")

	status := fmt.Sprintf("%d of %d answered", s.quiz.AnsweredCount(), s.quiz.Len())
	if s.quiz.AllAnswered() {
		status += "  ·  press S to submit"
	}
	b.WriteString(center(theme.Hint.Render(status)))
	return b.String()
}

func (s *QuizScreen) renderGrade(width int) string {
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}
	g := s.grade
	cw := min(width-8, 60)

	var b strings.Builder
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Quiz complete!")))
	b.WriteString("\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(fmt.Sprintf("%d%%", g.Score))))
	b.WriteString("\n")
	b.WriteString(center(components.NewProgressBar("", float64(g.Score)/100, false, cw).View()))
	b.WriteString("\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(summary.LevelColor(g.Level)).Bold(true).Render(g.Level.Title())))
	b.WriteString("\n")
	b.WriteString(center(theme.Muted.Render(fmt.Sprintf("%d of %d correct", g.Correct, g.Total))))
	b.WriteString("\n\n")

	for i := 0; i < s.quiz.Len(); i++ {
		q, _ := s.quiz.Question(i)
		mark := theme.Correct.Render("✓")
		if sel, _ := s.quiz.Selected(i); !q.IsCorrect(sel) {
			mark = theme.Incorrect.Render("✗")
		}
		text := q.Text
		if len(text) > cw-6 {
			text = text[:cw-9] + "..."
		}
		line := lipgloss.NewStyle().Width(cw).Render(fmt.Sprintf("%s %2d. %s", mark, i+1, text))
		b.WriteString(center(line))
		b.WriteString("\n")
	}
	return b.String()
}
