package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/questionsource"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screens/assess"
	quizscreen "github.com/abhisek/pathwise/internal/screens/quiz"
)

func typeText(h *HomeScreen, s string) {
	for _, r := range s {
		h.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func testConfig() Config {
	return Config{
		Source:        questionsource.MustTemplateSource(),
		SessionLength: 5,
		PoolSize:      15,
		QuizLength:    10,
	}
}

func TestHome_RequiresTopic(t *testing.T) {
	h := New(testConfig())
	h.focus = focusMenu
	h.applyFocus()

	h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if h.focus != focusTopic {
		t.Errorf("expected focus back on topic, got %d", h.focus)
	}
	if !strings.Contains(h.View(100, 30), "Enter a topic first") {
		t.Error("expected a hint to enter a topic")
	}
}

func TestHome_StartAssessment(t *testing.T) {
	h := New(testConfig())
	h.Init()
	typeText(h, "Go")

	// Topic -> subtopic -> menu.
	h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	typeText(h, "Generics")
	h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if h.focus != focusMenu {
		t.Fatalf("expected menu focus, got %d", h.focus)
	}

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command from the menu")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	a, ok := push.Screen.(*assess.AssessScreen)
	if !ok {
		t.Fatalf("expected assessment screen, got %T", push.Screen)
	}
	if a.Status() != "Go" {
		t.Errorf("expected topic Go, got %q", a.Status())
	}
}

func TestHome_TrimsTopic(t *testing.T) {
	h := New(testConfig())
	h.Init()
	typeText(h, "   ")
	h.focus = focusMenu
	h.applyFocus()

	h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if h.focus != focusTopic {
		t.Fatalf("a blank topic should not start anything, focus %d", h.focus)
	}

	typeText(h, "Go  ")
	h.focus = focusMenu
	h.applyFocus()
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command from the menu")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	a := push.Screen.(*assess.AssessScreen)
	if a.Status() != "Go" {
		t.Errorf("expected trimmed topic Go, got %q", a.Status())
	}
}

func TestHome_StartQuizWithPrefilledTopic(t *testing.T) {
	cfg := testConfig()
	cfg.Topic = "Java"
	h := New(cfg)
	if h.focus != focusMenu {
		t.Fatalf("prefilled topic should focus the menu, got %d", h.focus)
	}

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command from the menu")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := push.Screen.(*quizscreen.QuizScreen); !ok {
		t.Fatalf("expected quiz screen, got %T", push.Screen)
	}
}

func TestHome_TabCyclesFocus(t *testing.T) {
	h := New(testConfig())
	for i, want := range []int{focusSubtopic, focusMenu, focusTopic} {
		h.Update(tea.KeyPressMsg{Code: tea.KeyTab})
		if h.focus != want {
			t.Errorf("tab %d: expected focus %d, got %d", i+1, want, h.focus)
		}
	}
}
