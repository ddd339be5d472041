// Package results shows the score report for the attempt just scored.
package results

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/thinkfast/internal/attempt"
	"github.com/abhisek/thinkfast/internal/router"
	"github.com/abhisek/thinkfast/internal/scoring"
	"github.com/abhisek/thinkfast/internal/screen"
	"github.com/abhisek/thinkfast/internal/session"
	"github.com/abhisek/thinkfast/internal/ui/components"
	"github.com/abhisek/thinkfast/internal/ui/layout"
	"github.com/abhisek/thinkfast/internal/ui/theme"
)

// Navigator builds the screens reachable from results.
type Navigator struct {
	Practice func() screen.Screen
	History  func() screen.Screen
}

// ResultsScreen renders one scored attempt.
type ResultsScreen struct {
	machine         *session.Machine
	nav             Navigator
	attempt         attempt.Attempt
	result          scoring.Result
	vp              viewport.Model
	showExplanation bool
	errMsg          string
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a results screen for the machine's scored attempt.
func New(m *session.Machine, nav Navigator) *ResultsScreen {
	s := &ResultsScreen{
		machine: m,
		nav:     nav,
		vp:      viewport.New(),
	}
	if a := m.Attempt(); a != nil {
		s.attempt = *a
	}
	if r := m.Result(); r != nil {
		s.result = *r
	}
	return s
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "R", Description: "Retry topic"},
		{Key: "N", Description: "New topic"},
	}
	if s.result.ModelExplanation != "" {
		hints = append(hints, layout.KeyHint{Key: "E", Description: "Model answer"})
	}
	return append(hints,
		layout.KeyHint{Key: "H", Description: "History"},
		layout.KeyHint{Key: "↑↓", Description: "Scroll"},
		layout.KeyHint{Key: "Esc", Description: "Setup"},
	)
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "r":
		return s, s.retry()
	case "n":
		return s, s.newTopic()
	case "e":
		s.showExplanation = !s.showExplanation
		return s, nil
	case "h":
		if s.nav.History != nil {
			next := s.nav.History()
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}
		return s, nil
	case "esc":
		if err := s.machine.NewTopic(); err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	}

	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	return s, cmd
}

// retry starts a new attempt on the same topic.
func (s *ResultsScreen) retry() tea.Cmd {
	if err := s.machine.Retry(); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	return s.replaceWithPractice()
}

// newTopic returns the machine to setup and immediately draws again.
func (s *ResultsScreen) newTopic() tea.Cmd {
	if err := s.machine.NewTopic(); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	if err := s.machine.Start(); err != nil {
		return func() tea.Msg { return router.PopToRootMsg{} }
	}
	return s.replaceWithPractice()
}

func (s *ResultsScreen) replaceWithPractice() tea.Cmd {
	if s.nav.Practice == nil {
		return func() tea.Msg { return router.PopToRootMsg{} }
	}
	next := s.nav.Practice()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *ResultsScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)
	s.vp.SetWidth(cw)
	s.vp.SetHeight(max(height-1, 1))
	s.vp.SetContent(Report(s.attempt, s.result, cw, s.showExplanation))

	out := s.vp.View()
	if s.errMsg != "" {
		out += "\n" + theme.ErrorText.Render(s.errMsg)
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(out)
}

// Report renders the full score report. It is shared with the history
// screen's detail view.
func Report(a attempt.Attempt, r scoring.Result, width int, withExplanation bool) string {
	var b strings.Builder

	b.WriteString(theme.Label.Render(a.Topic) + theme.Hint.Render("  ·  "+a.Concept+"  ·  for "+a.Audience))
	b.WriteString("\n")
	b.WriteString(theme.Body.Width(width).Render(a.Prompt))
	b.WriteString("\n\n")

	overall := lipgloss.NewStyle().Foreground(theme.ScoreColor(r.Overall.Score)).Bold(true).
		Render(fmt.Sprintf("%d/10", r.Overall.Score))
	grade := theme.Title.Render("Grade " + r.Overall.Grade)
	b.WriteString("Overall " + overall + "   " + grade)
	if r.Overall.ReportedScore != 0 && r.Overall.ReportedScore != float64(r.Overall.Score) {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("   (model said %g)", r.Overall.ReportedScore)))
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%s  ·  %d words  ·  %s timer",
		timeLine(a), a.Words(), scoring.BucketFor(a.TimerDuration))))
	b.WriteString("\n\n")

	if r.Overall.Summary != "" {
		b.WriteString(theme.Body.Width(width).Render(r.Overall.Summary))
		b.WriteString("\n\n")
	}

	for _, d := range r.Dimensions() {
		label := fmt.Sprintf("%s (%d%%)", d.Name, d.Weight)
		b.WriteString(components.NewScoreBar(label, d.Score, 20, min(width, 70)).View())
		b.WriteString("\n")
		if d.Feedback != "" {
			b.WriteString(theme.Hint.Width(width).Render("  " + d.Feedback))
			b.WriteString("\n")
		}
	}

	writeList(&b, "Strengths", r.Overall.Strengths, theme.Success, width)
	writeList(&b, "To improve", r.Overall.Improvements, theme.Accent, width)

	if withExplanation && r.ModelExplanation != "" {
		b.WriteString("\n")
		b.WriteString(theme.Label.Render("Model explanation"))
		b.WriteString("\n")
		b.WriteString(theme.Card.Width(width).Render(r.ModelExplanation))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Label.Render("Your explanation"))
	b.WriteString("\n")
	b.WriteString(theme.Card.Width(width).Render(a.Explanation))
	b.WriteString("\n")

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string, bullet color.Color, width int) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(theme.Label.Render(title))
	b.WriteString("\n")
	mark := lipgloss.NewStyle().Foreground(bullet).Render("•")
	for _, it := range items {
		b.WriteString(mark + " " + theme.Body.Width(width-2).Render(it))
		b.WriteString("\n")
	}
}

func timeLine(a attempt.Attempt) string {
	return fmt.Sprintf("%s of %s used", layout.FormatClock(a.TimeUsed), layout.FormatClock(a.TimerDuration))
}
