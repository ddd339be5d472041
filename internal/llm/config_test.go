package llm

import (
	"testing"
)

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"THINKFAST_LLM_PROVIDER",
		"THINKFAST_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY", "THINKFAST_ANTHROPIC_MODEL",
		"THINKFAST_OPENAI_API_KEY", "OPENAI_API_KEY", "THINKFAST_OPENAI_MODEL", "THINKFAST_OPENAI_BASE_URL",
		"THINKFAST_GEMINI_API_KEY", "GEMINI_API_KEY", "THINKFAST_GEMINI_MODEL",
		"THINKFAST_OPENROUTER_API_KEY", "OPENROUTER_API_KEY", "THINKFAST_OPENROUTER_MODEL",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	clearKeyEnv(t)
	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderAnthropic {
		t.Fatalf("expected anthropic default, got %q", cfg.Provider)
	}
	if cfg.Anthropic.Model != "claude-sonnet" {
		t.Fatalf("expected claude-sonnet, got %q", cfg.Anthropic.Model)
	}
	if cfg.HasCredential() {
		t.Fatal("expected no credential")
	}
}

func TestConfigFromEnv_PrefixedWinsOverVendor(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "vendor")
	t.Setenv("THINKFAST_ANTHROPIC_API_KEY", "prefixed")
	t.Setenv("OPENAI_API_KEY", "oa")
	t.Setenv("THINKFAST_OPENAI_MODEL", "gpt-4.1")

	cfg := ConfigFromEnv()
	if cfg.Anthropic.APIKey != "prefixed" {
		t.Fatalf("expected prefixed key, got %q", cfg.Anthropic.APIKey)
	}
	if cfg.OpenAI.APIKey != "oa" {
		t.Fatalf("expected vendor fallback, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.Model != "gpt-4.1" {
		t.Fatalf("expected model override, got %q", cfg.OpenAI.Model)
	}
}

func TestDiscoverConfig(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("GEMINI_API_KEY", "g")

	cfg, ok := DiscoverConfig(ConfigFromEnv())
	if !ok {
		t.Fatal("expected a provider to be discovered")
	}
	if cfg.Provider != ProviderGemini {
		t.Fatalf("expected gemini, got %q", cfg.Provider)
	}

	clearKeyEnv(t)
	if _, ok := DiscoverConfig(ConfigFromEnv()); ok {
		t.Fatal("expected no provider without keys")
	}
}

func TestConfig_WithAPIKeyAndModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenRouter
	cfg = cfg.WithAPIKey("sk-or").WithModel("meta-llama/llama-3-70b")

	if cfg.APIKey() != "sk-or" || cfg.OpenRouter.APIKey != "sk-or" {
		t.Fatalf("key not set on selected provider: %+v", cfg.OpenRouter)
	}
	if cfg.OpenRouter.Model != "meta-llama/llama-3-70b" {
		t.Fatalf("model not set: %q", cfg.OpenRouter.Model)
	}
	if cfg.Anthropic.APIKey != "" {
		t.Fatal("other providers must be untouched")
	}
	if got := cfg.WithModel("").OpenRouter.Model; got != "meta-llama/llama-3-70b" {
		t.Fatalf("empty model should keep current, got %q", got)
	}
}
