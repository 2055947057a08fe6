package assess

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/assessment"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

func (s *AssessScreen) View(width, height int) string {
	switch {
	case s.err != nil:
		return renderError(width, s.err)
	case s.loading:
		return s.renderLoading(width)
	case s.session == nil:
		return ""
	case s.confirmQuit:
		return s.renderQuitConfirm(width)
	}
	return s.renderQuestion(width)
}

func centered(width int) lipgloss.Style {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
}

func (s *AssessScreen) renderLoading(width int) string {
	msg := fmt.Sprintf("%s Preparing questions on %s...", s.spinner.View(), s.cfg.Topic)
	return centered(width).Foreground(theme.TextDim).Render("\n\n\n" + msg)
}

func bandStyle(d assessment.Difficulty) lipgloss.Style {
	switch d {
	case assessment.Intermediate:
		return theme.BandIntermediate
	case assessment.Advanced:
		return theme.BandAdvanced
	default:
		return theme.BandBeginner
	}
}

func (s *AssessScreen) renderQuestion(width int) string {
	q := s.question
	if q == nil {
		return ""
	}

	var b strings.Builder

	answered := len(s.session.Answered())
	number := answered + 1
	if s.outcome != nil {
		number = answered
	}
	info := theme.Muted.Render(fmt.Sprintf("  Question %d of %d  ", number, s.session.Length())) +
		bandStyle(q.Difficulty).Render(q.Difficulty.String())
	b.WriteString(info)
	b.WriteString("\n")

	bar := components.NewProgressBar("", float64(answered)/float64(s.session.Length()), false, width-4)
	b.WriteString("  " + bar.View())
	b.WriteString("\n\n")

	body := lipgloss.NewStyle().Width(min(width-8, 72)).Render(s.choice.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, body))
	b.WriteString("\n")

	if s.outcome != nil {
		if s.outcome.Answer.IsCorrect {
			b.WriteString(centered(width).Inherit(theme.Correct).Render("Correct!"))
		} else {
			b.WriteString(centered(width).Inherit(theme.Incorrect).Render("Not quite"))
			b.WriteString("\n")
			b.WriteString(centered(width).Foreground(theme.TextDim).Render(
				fmt.Sprintf("Correct answer: %s) %s", components.OptionLabel(q.CorrectAnswer), q.Options[q.CorrectAnswer])))
		}
		b.WriteString("\n\n")
		hint := "Press any key for the next question"
		if s.outcome.Result != nil {
			hint = "Press any key to see your results"
		}
		b.WriteString(centered(width).Inherit(theme.Hint).Render(hint))
	}

	return b.String()
}

func (s *AssessScreen) renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centered(width).Foreground(theme.Text).Bold(true).Render("Finish the assessment now?"))
	b.WriteString("\n")

	sub := "Your score will use the questions answered so far."
	if len(s.session.Answered()) == 0 {
		sub = "Nothing has been answered yet, so there is no score."
	}
	b.WriteString(centered(width).Foreground(theme.TextDim).Render(sub))
	b.WriteString("\n\n")
	b.WriteString(centered(width).Foreground(theme.Success).Render("[Y] Yes, finish"))
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

func renderError(width int, err error) string {
	return centered(width).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press R to retry or any other key to go back.", err))
}
