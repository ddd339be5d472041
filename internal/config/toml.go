// Package config reads and writes the user's TOML settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/abhisek/thinkfast/internal/catalog"
)

// FileConfig represents the TOML configuration file. Pointer fields are
// nil when the key is absent so callers can tell "unset" from zero.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Custom   CustomConfig   `toml:"custom"`
	LLM      LLMConfig      `toml:"llm"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Timer   *int     `toml:"timer,omitempty"`
	Topics  []string `toml:"topics,omitempty"`
	Persona *string  `toml:"persona,omitempty"`
}

// CustomConfig holds user additions to the preset catalog.
type CustomConfig struct {
	Topics   []string            `toml:"topics,omitempty"`
	Concepts map[string][]string `toml:"concepts,omitempty"`
}

// LLMConfig selects the scoring provider. API keys are read from the
// environment only and never written to this file.
type LLMConfig struct {
	Provider *string `toml:"provider,omitempty"`
	Model    *string `toml:"model,omitempty"`
}

// Load reads a TOML config from the given path. Missing file is not an error.
func Load(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return FileConfig{}, fmt.Errorf("decode config: unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg FileConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

// Overlay converts the custom section into a catalog overlay.
func (c FileConfig) Overlay() catalog.Overlay {
	o := catalog.Overlay{}
	for _, t := range c.Custom.Topics {
		t = strings.TrimSpace(t)
		if t != "" && !slices.Contains(o.Topics, t) {
			o.Topics = append(o.Topics, t)
		}
	}
	for topic, concepts := range c.Custom.Concepts {
		for _, cn := range concepts {
			cn = strings.TrimSpace(cn)
			if cn == "" {
				continue
			}
			if o.Concepts == nil {
				o.Concepts = make(map[string][]string)
			}
			if !slices.Contains(o.Concepts[topic], cn) {
				o.Concepts[topic] = append(o.Concepts[topic], cn)
			}
		}
	}
	return o
}

// SetOverlay replaces the custom section with o.
func (c *FileConfig) SetOverlay(o catalog.Overlay) {
	c.Custom = CustomConfig{Topics: slices.Clone(o.Topics)}
	if len(o.Concepts) > 0 {
		c.Custom.Concepts = o.Clone().Concepts
	}
}
