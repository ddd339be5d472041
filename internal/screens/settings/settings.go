// Package settings edits the session's credential, audience and custom
// topics. Changes apply to the next attempt.
package settings

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/thinkfast/internal/persona"
	"github.com/abhisek/thinkfast/internal/router"
	"github.com/abhisek/thinkfast/internal/scoring"
	"github.com/abhisek/thinkfast/internal/screen"
	"github.com/abhisek/thinkfast/internal/session"
	"github.com/abhisek/thinkfast/internal/ui/components"
	"github.com/abhisek/thinkfast/internal/ui/layout"
	"github.com/abhisek/thinkfast/internal/ui/theme"
)

// Options supplies the side effects the screen cannot perform itself.
type Options struct {
	// OnAPIKey builds a scoring client for a newly entered key.
	OnAPIKey func(key string) (*scoring.Client, error)

	// Save persists the machine's settings. Nil disables the menu item.
	Save func(m *session.Machine) error
}

type field int

const (
	fieldNone field = iota
	fieldAPIKey
	fieldPersona
	fieldTopic
	fieldConcept
	fieldRemoveConcept
)

var fieldPrompts = map[field]string{
	fieldAPIKey:        "API key (kept for this session only)",
	fieldPersona:       "Audience, e.g. a new hire on the support team",
	fieldTopic:         "Custom topic name",
	fieldConcept:       "Topic: concept",
	fieldRemoveConcept: "Topic: concept to remove",
}

// SettingsScreen is a menu of settings with an inline input.
type SettingsScreen struct {
	machine *session.Machine
	opts    Options
	menu    components.Menu
	input   components.TextInput
	editing field
	status  string
	errMsg  string
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)
var _ screen.InputCapturer = (*SettingsScreen)(nil)

// New creates the settings screen.
func New(m *session.Machine, opts Options) *SettingsScreen {
	s := &SettingsScreen{machine: m, opts: opts}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "API key", Action: s.edit(fieldAPIKey), Disabled: opts.OnAPIKey == nil},
		{Label: "Audience", Action: s.edit(fieldPersona)},
		{Label: "Add custom topic", Action: s.edit(fieldTopic)},
		{Label: "Add custom concept", Action: s.edit(fieldConcept)},
		{Label: "Remove custom concept", Action: s.edit(fieldRemoveConcept)},
		{Label: "Save settings", Action: s.save, Disabled: opts.Save == nil},
	})
	return s
}

func (s *SettingsScreen) Init() tea.Cmd {
	return nil
}

func (s *SettingsScreen) Title() string {
	return "Settings"
}

// CapturingInput reports whether an input field is open.
func (s *SettingsScreen) CapturingInput() bool {
	return s.editing != fieldNone
}

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	if s.editing != fieldNone {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Edit"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.editing != fieldNone {
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	if s.editing != fieldNone {
		switch kmsg.String() {
		case "esc":
			s.closeInput()
			return s, nil
		case "enter":
			s.apply(s.editing, s.input.Value())
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	if kmsg.String() == "esc" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SettingsScreen) edit(f field) func() tea.Cmd {
	return func() tea.Cmd {
		s.editing = f
		s.status, s.errMsg = "", ""
		if f == fieldAPIKey {
			s.input = components.NewPasswordInput(fieldPrompts[f])
		} else {
			s.input = components.NewTextInput(fieldPrompts[f], 0)
			if f == fieldPersona {
				s.input.Model.SetValue(s.machine.Persona())
			}
		}
		return s.input.Focus()
	}
}

func (s *SettingsScreen) closeInput() {
	s.editing = fieldNone
	s.input.Blur()
}

// apply commits the input for f. The input stays open on error.
func (s *SettingsScreen) apply(f field, value string) {
	s.status, s.errMsg = "", ""
	var err error

	switch f {
	case fieldAPIKey:
		err = s.applyAPIKey(strings.TrimSpace(value))
	case fieldPersona:
		clean := s.machine.SetPersona(value)
		switch {
		case clean == "":
			s.status = "Using the default audiences."
		case persona.Filtered(value):
			s.status = fmt.Sprintf("Audience set to %q. Some words were filtered.", clean)
		default:
			s.status = fmt.Sprintf("Audience set to %q.", clean)
		}
	case fieldTopic:
		if err = s.machine.AddCustomTopic(value); err == nil {
			s.status = fmt.Sprintf("Added topic %q.", strings.TrimSpace(value))
		}
	case fieldConcept:
		topic, concept, ok := splitConcept(value)
		if !ok {
			err = errors.New(`use the form "Topic: concept"`)
			break
		}
		if err = s.machine.AddCustomConcept(topic, concept); err == nil {
			s.status = fmt.Sprintf("Added %q to %s.", concept, topic)
		}
	case fieldRemoveConcept:
		topic, concept, ok := splitConcept(value)
		if !ok {
			err = errors.New(`use the form "Topic: concept"`)
			break
		}
		if !s.machine.RemoveCustomConcept(topic, concept) {
			err = fmt.Errorf("%s has no custom concept %q", topic, concept)
			break
		}
		s.status = fmt.Sprintf("Removed %q from %s.", concept, topic)
	}

	if err != nil {
		s.errMsg = describe(err)
		s.input.Submit(false)
		return
	}
	s.closeInput()
}

func (s *SettingsScreen) applyAPIKey(key string) error {
	if key == "" {
		return errors.New("the API key is empty")
	}
	client, err := s.opts.OnAPIKey(key)
	if err != nil {
		return err
	}
	s.machine.SetScorer(client)
	s.status = "API key set. Scoring is enabled for this session."
	return nil
}

func (s *SettingsScreen) save() tea.Cmd {
	s.status, s.errMsg = "", ""
	if err := s.opts.Save(s.machine); err != nil {
		s.errMsg = "Could not save settings: " + err.Error()
		return nil
	}
	s.status = "Settings saved."
	return nil
}

func (s *SettingsScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Settings"))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())
	b.WriteString("\n")

	if s.editing != fieldNone {
		b.WriteString(theme.Label.Render(fieldPrompts[s.editing]))
		b.WriteString("\n")
		b.WriteString(s.input.View())
		b.WriteString("\n\n")
	}
	if s.status != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render(s.status))
		b.WriteString("\n\n")
	}
	if s.errMsg != "" {
		b.WriteString(theme.ErrorText.Render(s.errMsg))
		b.WriteString("\n\n")
	}

	b.WriteString(s.summary())

	return lipgloss.NewStyle().Width(layout.ContentWidth(width)).PaddingLeft(2).Render(b.String())
}

// summary lists the current values of every setting.
func (s *SettingsScreen) summary() string {
	var b strings.Builder

	b.WriteString(theme.Label.Render("Scoring: "))
	if s.machine.ScoringEnabled() {
		b.WriteString(theme.Body.Render("enabled (" + s.machine.Scorer().ModelID() + ")"))
	} else {
		b.WriteString(theme.WarningText.Render("disabled, no API key"))
	}
	b.WriteString("\n")

	b.WriteString(theme.Label.Render("Audience: "))
	if p := persona.Sanitize(s.machine.Persona()); p != "" {
		b.WriteString(theme.Body.Render(p))
	} else {
		b.WriteString(theme.Hint.Render("random default personas"))
	}
	b.WriteString("\n")

	overlay := s.machine.Overlay()
	if len(overlay.Topics) > 0 {
		b.WriteString(theme.Label.Render("Custom topics: "))
		b.WriteString(theme.Body.Render(strings.Join(overlay.Topics, ", ")))
		b.WriteString("\n")
	}
	if len(overlay.Concepts) > 0 {
		b.WriteString(theme.Label.Render("Custom concepts:"))
		b.WriteString("\n")
		topics := make([]string, 0, len(overlay.Concepts))
		for t := range overlay.Concepts {
			topics = append(topics, t)
		}
		sort.Strings(topics)
		for _, t := range topics {
			b.WriteString(theme.Body.Render("  " + t + ": " + strings.Join(overlay.Concepts[t], ", ")))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// splitConcept parses "Topic: concept".
func splitConcept(v string) (topic, concept string, ok bool) {
	topic, concept, ok = strings.Cut(v, ":")
	topic, concept = strings.TrimSpace(topic), strings.TrimSpace(concept)
	return topic, concept, ok && topic != "" && concept != ""
}

func describe(err error) string {
	switch {
	case errors.Is(err, session.ErrUnknownTopic):
		return "No topic by that name. Add it as a custom topic first."
	case errors.Is(err, session.ErrEmptyName):
		return "The name cannot be empty."
	}
	return err.Error()
}
