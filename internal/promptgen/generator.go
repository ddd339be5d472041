// Package promptgen turns a topic and its concept pools into a concrete
// practice prompt.
package promptgen

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/abhisek/thinkfast/internal/persona"
)

const (
	fallbackPersona  = "a non-technical adult"
	fallbackTemplate = "Explain {concept} to {audience}."
)

// Generator samples concepts, audiences and templates. A Generator is not
// safe for concurrent use; each session owns its own.
type Generator struct {
	rng    *rand.Rand
	config Config
}

// New creates a Generator seeded from the runtime's random source.
func New(cfg Config) *Generator {
	return NewWithSource(cfg, rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeeded creates a Generator whose output is reproducible for a seed.
func NewSeeded(cfg Config, seed uint64) *Generator {
	return NewWithSource(cfg, rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewWithSource creates a Generator drawing from src.
func NewWithSource(cfg Config, src rand.Source) *Generator {
	return &Generator{rng: rand.New(src), config: cfg}
}

// PlaceholderConcept is the concept used when a topic has no concepts.
func PlaceholderConcept(topic string) string {
	return fmt.Sprintf("a key concept from %s", topic)
}

// Generate produces a prompt for the input. It never fails: an empty
// concept pool yields PlaceholderConcept, and empty persona or template
// pools fall back to built-in values.
func (g *Generator) Generate(in Input) Prompt {
	concept := g.pickConcept(in)
	audience, custom := g.pickAudience(in.CustomPersona)
	template := g.pick(g.config.Templates, fallbackTemplate)

	r := strings.NewReplacer(
		"{concept}", concept,
		"{audience}", audience,
		"{topic}", in.Topic,
	)

	return Prompt{
		Text:           r.Replace(template),
		Topic:          in.Topic,
		Concept:        concept,
		Audience:       audience,
		CustomAudience: custom,
	}
}

// Pick returns a uniformly random element of items, or "" when empty.
// The session uses it to choose among selected topics.
func (g *Generator) Pick(items []string) string {
	return g.pick(items, "")
}

func (g *Generator) pickConcept(in Input) string {
	n := len(in.PresetConcepts) + len(in.CustomConcepts)
	if n == 0 {
		return PlaceholderConcept(in.Topic)
	}
	i := g.rng.IntN(n)
	if i < len(in.PresetConcepts) {
		return in.PresetConcepts[i]
	}
	return in.CustomConcepts[i-len(in.PresetConcepts)]
}

func (g *Generator) pickAudience(raw string) (string, bool) {
	if raw != "" {
		if s := persona.Sanitize(raw); s != "" {
			return s, true
		}
	}
	return g.pick(g.config.Personas, fallbackPersona), false
}

func (g *Generator) pick(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return items[g.rng.IntN(len(items))]
}
