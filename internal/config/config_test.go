package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/thinkfast/internal/catalog"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Timer)
	assert.Empty(t, cfg.Custom.Topics)
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_ParsesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[practice]
timer = 90
topics = ["Databases", "Python"]
persona = "a sleepy cat"

[custom]
topics = ["Rust", " ", "Rust"]

[custom.concepts]
"Rust" = ["borrow checker", "lifetimes"]
"Databases" = ["WAL"]

[llm]
provider = "openai"
model = "gpt-4o-mini"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Timer)
	assert.Equal(t, 90, *cfg.Practice.Timer)
	assert.Equal(t, []string{"Databases", "Python"}, cfg.Practice.Topics)
	require.NotNil(t, cfg.Practice.Persona)
	assert.Equal(t, "a sleepy cat", *cfg.Practice.Persona)
	require.NotNil(t, cfg.LLM.Provider)
	assert.Equal(t, "openai", *cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", *cfg.LLM.Model)

	o := cfg.Overlay()
	assert.Equal(t, []string{"Rust"}, o.Topics)
	assert.Equal(t, []string{"borrow checker", "lifetimes"}, o.Concepts["Rust"])
	assert.Equal(t, []string{"WAL"}, o.Concepts["Databases"])
}

func TestLoad_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[practice]\ntimerr = 3\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "practice.timerr")
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[practice\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSave_RoundTripsOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	timer := 120

	var cfg FileConfig
	cfg.Practice.Timer = &timer
	cfg.SetOverlay(catalog.Overlay{
		Topics:   []string{"Rust"},
		Concepts: map[string][]string{"Rust": {"traits"}},
	})
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, got.Practice.Timer)
	assert.Equal(t, 120, *got.Practice.Timer)
	assert.Nil(t, got.Practice.Persona)
	assert.Equal(t, []string{"Rust"}, got.Overlay().Topics)
	assert.Equal(t, []string{"traits"}, got.Overlay().Concepts["Rust"])
}

func TestDefaultPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("THINKFAST_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))

	assert.Equal(t, filepath.Join(dir, "thinkfast", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join(dir, "data", "thinkfast", "thinkfast.log"), DefaultLogPath())

	t.Setenv("THINKFAST_CONFIG", "/tmp/x.toml")
	assert.Equal(t, "/tmp/x.toml", DefaultConfigPath())
}
