package home

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/assessment"
	"github.com/abhisek/pathwise/internal/questionsource"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/screens/assess"
	quizscreen "github.com/abhisek/pathwise/internal/screens/quiz"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// Config carries the question source and session sizes into the flows
// started from the home screen.
type Config struct {
	Source        questionsource.Source
	Topic         string
	Subtopic      string
	SessionLength int
	PoolSize      int
	QuizLength    int
	Timeout       time.Duration
	NewRand       func() assessment.Rand
}

const (
	focusTopic = iota
	focusSubtopic
	focusMenu
	numFocus
)

// HomeScreen collects a topic and starts an assessment or a quiz.
type HomeScreen struct {
	cfg      Config
	topic    components.TextInput
	subtopic components.TextInput
	menu     components.Menu
	focus    int
	errMsg   string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen. A topic in cfg is prefilled and focus
// starts on the menu.
func New(cfg Config) *HomeScreen {
	h := &HomeScreen{
		cfg:      cfg,
		topic:    components.NewTextInput("Topic   ", "e.g. Go, Linear Algebra, Photography", 80),
		subtopic: components.NewTextInput("Subtopic", "optional, e.g. Concurrency", 80),
	}
	h.topic.SetValue(cfg.Topic)
	h.subtopic.SetValue(cfg.Subtopic)

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Adaptive assessment", Description: "adjusts to your answers", Action: h.startAssessment},
		{Label: "Quick quiz", Description: "review before you submit", Action: h.startQuiz},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	if cfg.Topic != "" {
		h.focus = focusMenu
	}
	h.menu.Focused = h.focus == focusMenu
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.applyFocus()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.focus == focusMenu {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Start"},
			{Key: "Tab", Description: "Edit topic"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) applyFocus() tea.Cmd {
	h.topic.Blur()
	h.subtopic.Blur()
	h.menu.Focused = h.focus == focusMenu
	switch h.focus {
	case focusTopic:
		return h.topic.Focus()
	case focusSubtopic:
		return h.subtopic.Focus()
	}
	return nil
}

func (h *HomeScreen) moveFocus(delta int) tea.Cmd {
	h.focus = (h.focus + delta + numFocus) % numFocus
	return h.applyFocus()
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, h.forward(msg)
	}

	switch kmsg.String() {
	case "tab":
		return h, h.moveFocus(1)
	case "shift+tab":
		return h, h.moveFocus(-1)
	}

	switch h.focus {
	case focusTopic, focusSubtopic:
		switch kmsg.String() {
		case "enter", "down":
			return h, h.moveFocus(1)
		case "up":
			if h.focus == focusSubtopic {
				return h, h.moveFocus(-1)
			}
			return h, nil
		}
		h.errMsg = ""
		return h, h.forward(msg)

	case focusMenu:
		if kmsg.String() == "up" && h.menu.Selected == 0 {
			return h, h.moveFocus(-1)
		}
		var cmd tea.Cmd
		h.menu, cmd = h.menu.Update(msg)
		return h, cmd
	}
	return h, nil
}

func (h *HomeScreen) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch h.focus {
	case focusTopic:
		h.topic, cmd = h.topic.Update(msg)
	case focusSubtopic:
		h.subtopic, cmd = h.subtopic.Update(msg)
	}
	return cmd
}

func (h *HomeScreen) topicValue() string {
	return strings.TrimSpace(h.topic.Value())
}

// requireTopic reports whether a topic is set, pointing the user at the
// field when it is not.
func (h *HomeScreen) requireTopic() (tea.Cmd, bool) {
	if h.topicValue() != "" {
		return nil, true
	}
	h.errMsg = "Enter a topic first."
	h.focus = focusTopic
	return h.applyFocus(), false
}

func (h *HomeScreen) startAssessment() tea.Cmd {
	if cmd, ok := h.requireTopic(); !ok {
		return cmd
	}
	next := assess.New(assess.Config{
		Source:        h.cfg.Source,
		Topic:         h.topicValue(),
		Subtopic:      strings.TrimSpace(h.subtopic.Value()),
		SessionLength: h.cfg.SessionLength,
		PoolSize:      h.cfg.PoolSize,
		Timeout:       h.cfg.Timeout,
		NewRand:       h.cfg.NewRand,
	})
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (h *HomeScreen) startQuiz() tea.Cmd {
	if cmd, ok := h.requireTopic(); !ok {
		return cmd
	}
	next := quizscreen.New(quizscreen.Config{
		Source:   h.cfg.Source,
		Topic:    h.topicValue(),
		Subtopic: strings.TrimSpace(h.subtopic.Value()),
		Length:   h.cfg.QuizLength,
		Timeout:  h.cfg.Timeout,
	})
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections,
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("What do you want to learn?"),
		"",
		h.topic.View(),
		h.subtopic.View(),
		"",
	)

	sections = append(sections, h.menu.View())

	if h.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render(h.errMsg))
	}

	card := theme.Panel.Width(min(width-4, 72)).Render(strings.Join(sections, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
