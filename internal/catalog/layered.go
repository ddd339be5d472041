package catalog

import "slices"

// Overlay holds user-entered additions to the preset catalog.
type Overlay struct {
	// Topics are extra topic names with no preset concepts.
	Topics []string

	// Concepts maps a topic name (preset or custom) to extra concepts.
	Concepts map[string][]string
}

// Clone returns a deep copy of o.
func (o Overlay) Clone() Overlay {
	out := Overlay{Topics: slices.Clone(o.Topics)}
	if o.Concepts != nil {
		out.Concepts = make(map[string][]string, len(o.Concepts))
		for k, v := range o.Concepts {
			out.Concepts[k] = slices.Clone(v)
		}
	}
	return out
}

// Layered resolves lookups against the preset catalog first and then the
// user overlay. Overlay entries only ever add; a custom topic or concept
// that duplicates a preset one is ignored.
type Layered struct {
	Base   *Catalog
	Custom Overlay
}

// Topics returns preset topic names followed by custom ones.
func (l Layered) Topics() []string {
	names := l.Base.TopicNames()
	for _, t := range l.Custom.Topics {
		if t != "" && !slices.Contains(names, t) {
			names = append(names, t)
		}
	}
	return names
}

// IsCustomTopic reports whether name exists only in the overlay.
func (l Layered) IsCustomTopic(name string) bool {
	if _, ok := l.Base.Topic(name); ok {
		return false
	}
	return slices.Contains(l.Custom.Topics, name)
}

// Concepts returns the preset and custom concept pools for topic.
func (l Layered) Concepts(topic string) (preset, custom []string) {
	if t, ok := l.Base.Topic(topic); ok {
		preset = slices.Clone(t.Concepts)
	}
	for _, c := range l.Custom.Concepts[topic] {
		if c != "" && !slices.Contains(preset, c) && !slices.Contains(custom, c) {
			custom = append(custom, c)
		}
	}
	return preset, custom
}
