package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Providers lists the selectable provider names.
var Providers = []string{ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter}

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects the backend; one of the Provider* constants.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig

	// Timeout bounds a single scoring request. Default: 60s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-sonnet"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o"
	BaseURL string // Optional. Any OpenAI-compatible endpoint.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "anthropic/claude-sonnet-4.5"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// DefaultConfig returns a Config with defaults and no credentials.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-sonnet"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "anthropic/claude-sonnet-4.5"},
		Timeout:    60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from THINKFAST_* variables, falling back to
// the vendors' standard key variables and then to defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("THINKFAST_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	cfg.Anthropic.APIKey = firstEnv("THINKFAST_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	if m := os.Getenv("THINKFAST_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	cfg.OpenAI.APIKey = firstEnv("THINKFAST_OPENAI_API_KEY", "OPENAI_API_KEY")
	if m := os.Getenv("THINKFAST_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("THINKFAST_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	cfg.Gemini.APIKey = firstEnv("THINKFAST_GEMINI_API_KEY", "GEMINI_API_KEY")
	if m := os.Getenv("THINKFAST_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	cfg.OpenRouter.APIKey = firstEnv("THINKFAST_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")
	if m := os.Getenv("THINKFAST_OPENROUTER_MODEL"); m != "" {
		cfg.OpenRouter.Model = m
	}

	return cfg
}

// DiscoverConfig returns cfg switched to the first provider that has a key,
// probing Anthropic, OpenAI, Gemini and OpenRouter in that order. It is
// used when the configured provider has no key. Returns false if no
// provider has one.
func DiscoverConfig(cfg Config) (Config, bool) {
	if cfg.HasCredential() {
		return cfg, true
	}
	for _, p := range Providers {
		candidate := cfg
		candidate.Provider = p
		if candidate.HasCredential() {
			return candidate, true
		}
	}
	return cfg, false
}

// APIKey returns the key of the selected provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic.APIKey
	case ProviderOpenAI:
		return c.OpenAI.APIKey
	case ProviderGemini:
		return c.Gemini.APIKey
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey
	}
	return ""
}

// WithAPIKey returns a copy of c with the selected provider's key set.
func (c Config) WithAPIKey(key string) Config {
	switch c.Provider {
	case ProviderAnthropic:
		c.Anthropic.APIKey = key
	case ProviderOpenAI:
		c.OpenAI.APIKey = key
	case ProviderGemini:
		c.Gemini.APIKey = key
	case ProviderOpenRouter:
		c.OpenRouter.APIKey = key
	}
	return c
}

// WithModel returns a copy of c with the selected provider's model set.
// An empty model leaves the default in place.
func (c Config) WithModel(model string) Config {
	if model == "" {
		return c
	}
	switch c.Provider {
	case ProviderAnthropic:
		c.Anthropic.Model = model
	case ProviderOpenAI:
		c.OpenAI.Model = model
	case ProviderGemini:
		c.Gemini.Model = model
	case ProviderOpenRouter:
		c.OpenRouter.Model = model
	}
	return c
}

// HasCredential reports whether the selected provider can be constructed.
func (c Config) HasCredential() bool {
	return c.Provider == ProviderMock || c.APIKey() != ""
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.APIKey() == "" {
			return fmt.Errorf("an API key is required for the %s provider (set %s)", c.Provider, envKeyName(c.Provider))
		}
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}

func envKeyName(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return "THINKFAST_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		return "THINKFAST_OPENAI_API_KEY"
	case ProviderGemini:
		return "THINKFAST_GEMINI_API_KEY"
	default:
		return "THINKFAST_OPENROUTER_API_KEY"
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
