package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector component. The answer key is
// not known up front; Reveal marks the correct option once the caller has
// graded the choice.
type MultiChoice struct {
	Question string
	Options  []string
	Selected int
	Chosen   int
	Correct  int
	Locked   bool
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
		Chosen:   -1,
		Correct:  -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles arrow navigation, Enter, and the 1-9 shortcuts. A choice
// locks the component until Reset.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Locked {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.choose(m.Selected)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				m.Selected = i
				m.choose(i)
			}
		}
	}

	return m, nil
}

func (m *MultiChoice) choose(i int) {
	m.Chosen = i
	m.Locked = true
}

// HasChosen reports whether an option was picked.
func (m MultiChoice) HasChosen() bool {
	return m.Chosen >= 0
}

// Reveal marks the correct option for the feedback view.
func (m *MultiChoice) Reveal(correct int) {
	m.Correct = correct
}

// Reset unlocks the component and keeps the cursor, for flows that allow
// changing an answer.
func (m *MultiChoice) Reset() {
	m.Chosen = -1
	m.Correct = -1
	m.Locked = false
}

// Preselect moves the cursor without choosing.
func (m *MultiChoice) Preselect(i int) {
	if i >= 0 && i < len(m.Options) {
		m.Selected = i
	}
}

// OptionLabel returns "A" for 0, "B" for 1 and so on.
func OptionLabel(i int) string {
	return string(rune('A' + i))
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	revealed := m.Correct >= 0
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, OptionLabel(i), opt)

		var style lipgloss.Style
		switch {
		case revealed && i == m.Correct:
			style = theme.Correct
		case revealed && i == m.Chosen:
			style = theme.Incorrect
		case revealed:
			style = theme.Muted
		case i == m.Chosen || (i == m.Selected && !m.Locked):
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}
