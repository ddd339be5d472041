package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/thinkfast/internal/session"
	"github.com/abhisek/thinkfast/internal/ui/components"
	"github.com/abhisek/thinkfast/internal/ui/layout"
	"github.com/abhisek/thinkfast/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	a := s.machine.Attempt()
	if a == nil {
		return theme.Hint.Render("  No attempt in progress.")
	}
	cw := layout.ContentWidth(width)

	var b strings.Builder

	info := theme.Label.Render(a.Topic) + theme.Hint.Render("  ·  for "+a.Audience)
	b.WriteString(info)
	b.WriteString("\n")
	b.WriteString(theme.PromptCard.Width(cw).Render(a.Prompt))
	b.WriteString("\n")

	total := a.TimerDuration
	remaining := int(s.machine.Remaining().Seconds())
	if s.machine.Phase() != session.PhasePracticing {
		remaining = total - a.TimeUsed
	}
	clock := lipgloss.NewStyle().Foreground(theme.TimerColor(remaining, total)).Bold(true).
		Render("⏱ " + layout.FormatClock(remaining))
	words := theme.Hint.Render(fmt.Sprintf("%d words", s.machine.WordCount()))
	bar := components.ProgressBar{
		Percent: ratio(remaining, total),
		Color:   theme.TimerColor(remaining, total),
		Width:   cw - lipgloss.Width(clock) - lipgloss.Width(words) - 4,
	}
	b.WriteString(clock + "  " + bar.View() + "  " + words)
	b.WriteString("\n\n")

	editorHeight := height - lipgloss.Height(b.String()) - 4
	if editorHeight < 3 {
		editorHeight = 3
	}
	s.editor.SetSize(cw, editorHeight)
	b.WriteString(s.editor.View())
	b.WriteString("\n")

	b.WriteString(s.statusLine())

	return lipgloss.NewStyle().PaddingLeft(2).Render(b.String())
}

func (s *PracticeScreen) statusLine() string {
	switch {
	case s.machine.Scoring():
		return s.spinner.View() + theme.Body.Render(" Scoring your explanation...")
	case s.errMsg != "":
		return theme.ErrorText.Render(s.errMsg)
	case s.machine.InputLocked():
		return theme.WarningText.Render("Time's up and nothing was written. Press Esc to go back.")
	case s.machine.Phase() == session.PhaseSubmitted:
		return theme.Hint.Render("Submitted.")
	default:
		return ""
	}
}

func ratio(remaining, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(remaining) / float64(total)
}
