package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

type pickedMsg struct{ label string }

func testMenu() Menu {
	pick := func(label string) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return pickedMsg{label} }
		}
	}
	return NewMenu([]MenuItem{
		{Label: "Off", Disabled: true},
		{Label: "Assess", Description: "adjusts to your answers", Action: pick("assess")},
		{Label: "Also off", Disabled: true},
		{Label: "Quiz", Action: pick("quiz")},
	})
}

func TestMenu_SkipsDisabledItems(t *testing.T) {
	m := testMenu()
	if m.Selected != 1 {
		t.Fatalf("expected first enabled item selected, got %d", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("down should skip the disabled item, got %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("down at the end should stay, got %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("up should stop at the first enabled item, got %d", m.Selected)
	}
}

func TestMenu_EnterRunsAction(t *testing.T) {
	m := testMenu()
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if got := cmd().(pickedMsg).label; got != "assess" {
		t.Errorf("expected assess, got %q", got)
	}
}

func TestMenu_UnfocusedIgnoresKeysAndHidesCursor(t *testing.T) {
	m := testMenu()
	m.Focused = false

	m, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("unfocused menu should not run actions")
	}
	if strings.Contains(m.View(), "▸") {
		t.Error("unfocused menu should hide the cursor")
	}

	m.Focused = true
	view := m.View()
	if !strings.Contains(view, "▸ Assess") {
		t.Error("focused menu should show the cursor on the selection")
	}
	if !strings.Contains(view, "adjusts to your answers") {
		t.Error("expected the item description")
	}
}

func TestMultiChoice_NumberKeyChoosesAndLocks(t *testing.T) {
	m := NewMultiChoice("Which keyword starts a goroutine?", []string{"go", "async", "spawn", "thread"})
	if m.HasChosen() {
		t.Fatal("nothing chosen yet")
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: '3', Text: "3"})
	if !m.HasChosen() || m.Chosen != 2 || m.Selected != 2 {
		t.Fatalf("expected option 2 chosen, got chosen=%d selected=%d", m.Chosen, m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: '1', Text: "1"})
	if m.Chosen != 2 {
		t.Error("a locked component should ignore further keys")
	}

	m.Reveal(0)
	view := m.View()
	if !strings.Contains(view, "go") || !strings.Contains(view, "spawn") {
		t.Error("expected options in the view")
	}

	m.Reset()
	if m.HasChosen() || m.Locked || m.Selected != 2 {
		t.Errorf("reset should unlock and keep the cursor, got %+v", m)
	}
}

func TestMultiChoice_OutOfRangeKeyIgnored(t *testing.T) {
	m := NewMultiChoice("q", []string{"a", "b"})
	m, _ = m.Update(tea.KeyPressMsg{Code: '9', Text: "9"})
	if m.HasChosen() {
		t.Error("9 is not an option for two choices")
	}
}

func TestOptionLabel(t *testing.T) {
	for i, want := range []string{"A", "B", "C", "D"} {
		if got := OptionLabel(i); got != want {
			t.Errorf("OptionLabel(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestStepDots(t *testing.T) {
	out := StepDots([]bool{true, false, false}, 1)
	if strings.Count(out, "●") != 1 || strings.Count(out, "◉") != 1 || strings.Count(out, "○") != 1 {
		t.Errorf("unexpected dots %q", out)
	}
}
