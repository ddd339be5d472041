// Package setup is the home screen: choose topics and a timer, then start.
package setup

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/thinkfast/internal/catalog"
	"github.com/abhisek/thinkfast/internal/persona"
	"github.com/abhisek/thinkfast/internal/router"
	"github.com/abhisek/thinkfast/internal/screen"
	"github.com/abhisek/thinkfast/internal/session"
	"github.com/abhisek/thinkfast/internal/ui/components"
	"github.com/abhisek/thinkfast/internal/ui/layout"
	"github.com/abhisek/thinkfast/internal/ui/theme"
)

// Navigator builds the screens reachable from setup.
type Navigator struct {
	Practice func() screen.Screen
	History  func() screen.Screen
	Settings func() screen.Screen
}

// SetupScreen lists preset topics and the timer options.
type SetupScreen struct {
	machine *session.Machine
	nav     Navigator
	topics  components.Checklist
	errMsg  string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)
var _ screen.Refresher = (*SetupScreen)(nil)

// New creates the setup screen.
func New(m *session.Machine, nav Navigator) *SetupScreen {
	s := &SetupScreen{machine: m, nav: nav}
	s.syncTopics()
	return s
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

// Refresh picks up settings changed on other screens.
func (s *SetupScreen) Refresh() tea.Cmd {
	s.syncTopics()
	return nil
}

func (s *SetupScreen) Title() string {
	return "Setup"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Space", Description: "Toggle"},
		{Key: "←→", Description: "Timer"},
		{Key: "Enter", Description: "Start"},
		{Key: "S", Description: "Settings"},
		{Key: "H", Description: "History"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "q":
		return s, tea.Quit
	case "enter":
		return s.start()
	case "left":
		s.cycleTimer(-1)
		return s, nil
	case "right":
		s.cycleTimer(1)
		return s, nil
	case "a":
		s.selectAll(true)
		return s, nil
	case "n":
		s.selectAll(false)
		return s, nil
	case "s":
		return s, s.push(s.nav.Settings)
	case "h":
		return s, s.push(s.nav.History)
	}

	var toggled bool
	s.topics, toggled = s.topics.Update(msg)
	if toggled {
		if item, ok := s.topics.Current(); ok {
			if _, err := s.machine.ToggleTopic(item.Label); err != nil {
				s.errMsg = err.Error()
			} else {
				s.errMsg = ""
			}
			s.syncTopics()
		}
	}
	return s, nil
}

func (s *SetupScreen) start() (screen.Screen, tea.Cmd) {
	if err := s.machine.Start(); err != nil {
		s.errMsg = describe(err)
		return s, nil
	}
	s.errMsg = ""
	return s, s.push(s.nav.Practice)
}

func (s *SetupScreen) push(factory func() screen.Screen) tea.Cmd {
	if factory == nil {
		return nil
	}
	next := factory()
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *SetupScreen) cycleTimer(delta int) {
	opts := s.machine.Catalog().Base.Timers.Options
	if len(opts) == 0 {
		return
	}
	i := slices.IndexFunc(opts, func(o catalog.TimerOption) bool { return o.Seconds == s.machine.Timer() })
	i = (i + delta + len(opts)) % len(opts)
	_ = s.machine.SetTimer(opts[i].Seconds)
}

func (s *SetupScreen) selectAll(on bool) {
	var names []string
	if on {
		names = s.machine.Catalog().Base.TopicNames()
	}
	_ = s.machine.SelectTopics(names)
	s.syncTopics()
}

func (s *SetupScreen) syncTopics() {
	cat := s.machine.Catalog()
	items := make([]components.CheckItem, 0, len(cat.Base.Topics))
	for _, t := range cat.Base.Topics {
		preset, custom := cat.Concepts(t.Name)
		note := fmt.Sprintf("%s · %d concepts", t.Category, len(preset))
		if len(custom) > 0 {
			note += fmt.Sprintf(" +%d custom", len(custom))
		}
		items = append(items, components.CheckItem{
			Label:   t.Name,
			Note:    note,
			Checked: s.machine.IsSelected(t.Name),
		})
	}
	s.topics.SetItems(items)
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Pick your topics"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("A random concept and audience is drawn from the selected topics."))
	b.WriteString("\n\n")

	rows := height - 14
	if rows < 3 {
		rows = 3
	}
	b.WriteString(s.topics.View(true, rows))

	if custom := s.customTopics(); len(custom) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Label.Render("Custom topics: "))
		b.WriteString(theme.Body.Render(strings.Join(custom, ", ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Label.Render("Timer: "))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render("◂ " + s.machine.Catalog().Base.TimerLabel(s.machine.Timer()) + " ▸"))
	b.WriteString("\n")

	b.WriteString(theme.Label.Render("Audience: "))
	if p := persona.Sanitize(s.machine.Persona()); p != "" {
		b.WriteString(theme.Body.Render(p))
	} else {
		b.WriteString(theme.Hint.Render("random default personas"))
	}
	b.WriteString("\n")

	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d topic(s) in the pool", len(s.machine.ActiveTopics()))))
	b.WriteString("\n")

	if !s.machine.ScoringEnabled() {
		b.WriteString("\n")
		b.WriteString(theme.WarningText.Render("No API key configured: scoring is disabled. Press S to add one."))
		b.WriteString("\n")
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render(s.errMsg))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(layout.ContentWidth(width)).PaddingLeft(2).Render(b.String())
}

// customTopics returns the custom topics in the active pool.
func (s *SetupScreen) customTopics() []string {
	var out []string
	for _, t := range s.machine.ActiveTopics() {
		if s.machine.Catalog().IsCustomTopic(t) {
			out = append(out, t)
		}
	}
	return out
}

func describe(err error) string {
	if errors.Is(err, session.ErrNoTopics) {
		return "Select at least one topic, or add a custom topic in settings."
	}
	return err.Error()
}
