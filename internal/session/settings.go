package session

import (
	"slices"
	"strings"

	"github.com/abhisek/thinkfast/internal/catalog"
	"github.com/abhisek/thinkfast/internal/persona"
	"github.com/abhisek/thinkfast/internal/scoring"
)

// Settings changes take effect on the next attempt.

// Catalog returns the preset catalog layered with the user's additions.
func (m *Machine) Catalog() catalog.Layered {
	return catalog.Layered{Base: m.base, Custom: m.overlay}
}

// Overlay returns a copy of the user's custom topics and concepts.
func (m *Machine) Overlay() catalog.Overlay { return m.overlay.Clone() }

// SelectedTopics returns the selected preset topics in selection order.
func (m *Machine) SelectedTopics() []string { return slices.Clone(m.selected) }

// ActiveTopics returns the pool Start draws from: the selected presets
// followed by every custom topic.
func (m *Machine) ActiveTopics() []string {
	pool := slices.Clone(m.selected)
	for _, t := range m.overlay.Topics {
		if !slices.Contains(pool, t) {
			if _, preset := m.base.Topic(t); !preset {
				pool = append(pool, t)
			}
		}
	}
	return pool
}

// IsSelected reports whether a preset topic is selected.
func (m *Machine) IsSelected(name string) bool {
	return slices.Contains(m.selected, name)
}

// SelectTopics replaces the preset topic selection.
func (m *Machine) SelectTopics(names []string) error {
	var next []string
	for _, name := range names {
		if _, ok := m.base.Topic(name); !ok {
			return &ConfigurationError{Err: ErrUnknownTopic}
		}
		if !slices.Contains(next, name) {
			next = append(next, name)
		}
	}
	m.selected = next
	return nil
}

// ToggleTopic flips the selection of a preset topic and returns whether it
// is now selected.
func (m *Machine) ToggleTopic(name string) (bool, error) {
	if _, ok := m.base.Topic(name); !ok {
		return false, &ConfigurationError{Err: ErrUnknownTopic}
	}
	if i := slices.Index(m.selected, name); i >= 0 {
		m.selected = slices.Delete(m.selected, i, i+1)
		return false, nil
	}
	m.selected = append(m.selected, name)
	return true, nil
}

// AddCustomTopic adds a user topic. Names matching a preset or an existing
// custom topic are ignored.
func (m *Machine) AddCustomTopic(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ConfigurationError{Err: ErrEmptyName}
	}
	if _, preset := m.base.Topic(name); preset || slices.Contains(m.overlay.Topics, name) {
		return nil
	}
	m.overlay.Topics = append(m.overlay.Topics, name)
	return nil
}

// AddCustomConcept adds a concept to a preset or custom topic.
func (m *Machine) AddCustomConcept(topic, concept string) error {
	topic = strings.TrimSpace(topic)
	concept = strings.TrimSpace(concept)
	if topic == "" || concept == "" {
		return &ConfigurationError{Err: ErrEmptyName}
	}
	if !slices.Contains(m.Catalog().Topics(), topic) {
		return &ConfigurationError{Err: ErrUnknownTopic}
	}
	if m.overlay.Concepts == nil {
		m.overlay.Concepts = make(map[string][]string)
	}
	if !slices.Contains(m.overlay.Concepts[topic], concept) {
		m.overlay.Concepts[topic] = append(m.overlay.Concepts[topic], concept)
	}
	return nil
}

// RemoveCustomConcept removes a user concept and reports whether it existed.
// Preset concepts cannot be removed.
func (m *Machine) RemoveCustomConcept(topic, concept string) bool {
	list := m.overlay.Concepts[topic]
	i := slices.Index(list, concept)
	if i < 0 {
		return false
	}
	m.overlay.Concepts[topic] = slices.Delete(list, i, i+1)
	if len(m.overlay.Concepts[topic]) == 0 {
		delete(m.overlay.Concepts, topic)
	}
	return true
}

// Persona returns the raw custom audience text.
func (m *Machine) Persona() string { return m.persona }

// SetPersona stores the raw custom audience and returns its sanitized form,
// which is what prompts will use. An empty result means default personas.
func (m *Machine) SetPersona(raw string) string {
	m.persona = raw
	return persona.Sanitize(raw)
}

// Timer returns the countdown length in seconds.
func (m *Machine) Timer() int { return m.timer }

// SetTimer selects one of the catalog's timer options.
func (m *Machine) SetTimer(seconds int) error {
	if !m.base.HasTimer(seconds) {
		return &ConfigurationError{Err: ErrInvalidTimer}
	}
	m.timer = seconds
	return nil
}

// SetScorer swaps the scoring client, typically after the user enters a
// credential. A nil client disables scoring.
func (m *Machine) SetScorer(c *scoring.Client) {
	if c == nil {
		c = scoring.New(nil, scoring.DefaultConfig(), m.logger)
	}
	m.scorer = c
}
