// Package history lists the attempts scored so far in this session.
package history

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	hist "github.com/abhisek/thinkfast/internal/history"
	"github.com/abhisek/thinkfast/internal/router"
	"github.com/abhisek/thinkfast/internal/screen"
	"github.com/abhisek/thinkfast/internal/screens/results"
	"github.com/abhisek/thinkfast/internal/ui/layout"
	"github.com/abhisek/thinkfast/internal/ui/theme"
)

// HistoryScreen displays scored attempts, most recent first.
type HistoryScreen struct {
	log      *hist.Log
	entries  []hist.Entry
	selected int
	detail   bool
	vp       viewport.Model
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen over the session log.
func New(log *hist.Log) *HistoryScreen {
	return &HistoryScreen{
		log: log,
		vp:  viewport.New(),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	s.entries = s.log.Recent(0)
	return nil
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.detail {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "Esc", Description: "List"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.detail {
		if kmsg.String() == "esc" {
			s.detail = false
			return s, nil
		}
		var cmd tea.Cmd
		s.vp, cmd = s.vp.Update(msg)
		return s, cmd
	}

	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.entries)-1 {
			s.selected++
		}
	case "enter":
		if len(s.entries) > 0 {
			s.detail = true
			s.vp.GotoTop()
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)

	if s.detail && s.selected < len(s.entries) {
		e := s.entries[s.selected]
		s.vp.SetWidth(cw)
		s.vp.SetHeight(max(height, 1))
		s.vp.SetContent(results.Report(e.Attempt, e.Result, cw, true))
		return lipgloss.NewStyle().PaddingLeft(2).Render(s.vp.View())
	}

	if len(s.entries) == 0 {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\nNo attempts scored yet this session.")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("%d attempt(s)", len(s.entries))))
	b.WriteString(theme.Hint.Render(fmt.Sprintf("   average %.1f/10", s.log.Average())))
	b.WriteString("\n\n")

	rows := max(height-4, 1)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(start+rows, len(s.entries))

	for i := start; i < end; i++ {
		b.WriteString(s.row(i, cw))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().PaddingLeft(2).Render(b.String())
}

func (s *HistoryScreen) row(i, width int) string {
	e := s.entries[i]
	score := lipgloss.NewStyle().Foreground(theme.ScoreColor(e.Score())).Bold(true).
		Render(fmt.Sprintf("%2d/10", e.Score()))
	grade := fmt.Sprintf("%-3s", e.Result.Overall.Grade)
	when := e.RecordedAt.Format("15:04")
	text := fmt.Sprintf("%s  %s  %s · %s → %s  (%s/%s)",
		when, grade, e.Attempt.Topic, e.Attempt.Concept, e.Attempt.Audience,
		layout.FormatClock(e.Attempt.TimeUsed), layout.FormatClock(e.Attempt.TimerDuration))

	prefix := "  "
	style := theme.Unselected
	if i == s.selected {
		prefix = "▸ "
		style = theme.Selected
	}
	line := style.Render(prefix+text) + "  " + score
	if lipgloss.Width(line) > width {
		line = style.MaxWidth(width-7).Render(prefix+text) + "  " + score
	}
	return line
}
