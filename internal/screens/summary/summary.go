package summary

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/assessment"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// SummaryScreen displays the report for a finished assessment.
type SummaryScreen struct {
	result *assessment.Result
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.StatusProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(result *assessment.Result) *SummaryScreen {
	return &SummaryScreen{result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Assessment Results"
}

func (s *SummaryScreen) Status() string {
	if s.result == nil {
		return ""
	}
	return s.result.Topic
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "New assessment"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

// LevelColor returns the theme color for a skill level.
func LevelColor(l assessment.SkillLevel) color.Color {
	switch l {
	case assessment.SkillExpert:
		return theme.Primary
	case assessment.SkillAdvanced:
		return theme.Secondary
	case assessment.SkillIntermediate:
		return theme.Success
	case assessment.SkillBeginner:
		return theme.Warning
	default:
		return theme.Accent
	}
}

func (s *SummaryScreen) View(width, height int) string {
	res := s.result
	if res == nil {
		return ""
	}

	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}
	cw := min(width-8, 60)

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
		Render("Assessment complete!")))
	b.WriteString("\n\n")

	topic := res.Topic
	if res.Subtopic != "" {
		topic += " / " + res.Subtopic
	}
	b.WriteString(center(theme.Muted.Render(topic)))
	b.WriteString("\n\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("%d%%", res.Score))))
	b.WriteString("\n")
	bar := components.NewProgressBar("", float64(res.Score)/100, false, cw)
	b.WriteString(center(bar.View()))
	b.WriteString("\n\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(LevelColor(res.SkillLevel)).Bold(true).
		Render(res.SkillLevel.Title())))
	b.WriteString("\n")
	b.WriteString(center(theme.Muted.Render(
		fmt.Sprintf("%d of %d correct", res.CorrectAnswers, res.TotalQuestions))))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))

	b.WriteString(center(theme.Muted.Render("By difficulty")))
	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n")
	asked := askedByDifficulty(res.AnsweredQuestions)
	for _, d := range assessment.Difficulties {
		if asked[d] == 0 {
			continue
		}
		line := fmt.Sprintf("%-14s %d/%d", d.String(), res.CorrectByDifficulty.Of(d), asked[d])
		b.WriteString(center(theme.Body.Render(line)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(center(theme.Muted.Render("Recommended next")))
	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n")
	for _, r := range res.RecommendedResources {
		b.WriteString(center(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Render("• " + r)))
		b.WriteString("\n")
	}

	return b.String()
}

func askedByDifficulty(answered []assessment.AnsweredQuestion) assessment.DifficultyCounts {
	var c assessment.DifficultyCounts
	for _, a := range answered {
		c[a.Difficulty]++
	}
	return c
}
