// Package catalog holds the static practice content: topics and their
// concepts, default personas, prompt templates and timer options.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Topic is a named subject with its preset concept pool.
type Topic struct {
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"`
	Concepts []string `yaml:"concepts"`
}

// TimerOption is one selectable countdown length.
type TimerOption struct {
	Label   string `yaml:"label"`
	Seconds int    `yaml:"seconds"`
}

// Timers lists the selectable countdown lengths.
type Timers struct {
	Default int           `yaml:"default"`
	Options []TimerOption `yaml:"options"`
}

// Catalog is the full set of preset content.
type Catalog struct {
	Timers    Timers   `yaml:"timers"`
	Personas  []string `yaml:"personas"`
	Templates []string `yaml:"templates"`
	Topics    []Topic  `yaml:"topics"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		// The embedded file is covered by tests.
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that the catalog can drive prompt generation.
func (c *Catalog) Validate() error {
	if len(c.Personas) == 0 {
		return fmt.Errorf("at least one persona is required")
	}
	if len(c.Templates) == 0 {
		return fmt.Errorf("at least one template is required")
	}
	if len(c.Timers.Options) == 0 {
		return fmt.Errorf("at least one timer option is required")
	}
	seen := make(map[string]bool, len(c.Topics))
	for _, t := range c.Topics {
		if t.Name == "" {
			return fmt.Errorf("topic with empty name")
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate topic %q", t.Name)
		}
		seen[t.Name] = true
	}
	for _, o := range c.Timers.Options {
		if o.Seconds <= 0 {
			return fmt.Errorf("timer option %q must be positive", o.Label)
		}
	}
	if c.Timers.Default != 0 && !c.HasTimer(c.Timers.Default) {
		return fmt.Errorf("default timer %ds is not one of the options", c.Timers.Default)
	}
	return nil
}

// Topic returns the preset topic with the given name.
func (c *Catalog) Topic(name string) (Topic, bool) {
	for _, t := range c.Topics {
		if t.Name == name {
			return t, true
		}
	}
	return Topic{}, false
}

// TopicNames returns preset topic names in catalog order.
func (c *Catalog) TopicNames() []string {
	names := make([]string, len(c.Topics))
	for i, t := range c.Topics {
		names[i] = t.Name
	}
	return names
}

// HasTimer reports whether seconds is one of the timer options.
func (c *Catalog) HasTimer(seconds int) bool {
	for _, o := range c.Timers.Options {
		if o.Seconds == seconds {
			return true
		}
	}
	return false
}

// DefaultTimer returns the default countdown, falling back to the first option.
func (c *Catalog) DefaultTimer() int {
	if c.Timers.Default > 0 {
		return c.Timers.Default
	}
	return c.Timers.Options[0].Seconds
}

// TimerLabel returns the display label for seconds.
func (c *Catalog) TimerLabel(seconds int) string {
	for _, o := range c.Timers.Options {
		if o.Seconds == seconds {
			return o.Label
		}
	}
	return fmt.Sprintf("%d seconds", seconds)
}
