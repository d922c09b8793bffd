package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsWithoutFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	c, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, 320, c.Window.Width)
	assert.Equal(t, 240, c.Window.Height)
	assert.Equal(t, 30, c.Render.Hz)
	assert.True(t, c.Render.Depth)
	assert.Equal(t, 2000, c.Render.Stars)
	assert.Equal(t, 250*time.Millisecond, c.Script.Update)
	assert.Equal(t, ProviderOffline, c.LLM.Provider)
	assert.Equal(t, 90*time.Second, c.LLM.Timeout)
	assert.InDelta(t, 0.7, c.LLM.Temperature, 1e-9)
	assert.Equal(t, 64, c.Log.Ring)
}

func TestFileAndEnvOverrides(t *testing.T) {
	path := writeFile(t, `
[window]
width = 640
title = "Lab"

[render]
wireframe = true
clear_color = "#102030"

[script]
update = "100ms"

[llm]
provider = "openai"
model = "gpt-4.1"
`)
	t.Setenv("AXIOM_WINDOW_HEIGHT", "480")
	t.Setenv("AXIOM_LLM_MODEL", "from-env")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 640, c.Window.Width)
	assert.Equal(t, 480, c.Window.Height)
	assert.Equal(t, "Lab", c.Window.Title)
	assert.True(t, c.Render.Wireframe)
	assert.Equal(t, "#102030", c.Render.ClearColor)
	assert.Equal(t, 100*time.Millisecond, c.Script.Update)
	assert.Equal(t, ProviderOpenAI, c.LLM.Provider)
	assert.Equal(t, "from-env", c.LLM.Model)
	assert.Equal(t, "sk-test", c.LLM.APIKey)
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("AXIOM_CONFIG", "/tmp/elsewhere.toml")
	assert.Equal(t, "/tmp/elsewhere.toml", Path())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"provider", "[llm]\nprovider = \"gemini\"\n"},
		{"playlist without file", "[llm]\nprovider = \"playlist\"\n"},
		{"size", "[window]\nwidth = 0\n"},
		{"color", "[render]\nclear_color = \"blue\"\n"},
		{"level", "[log]\nlevel = \"loud\"\n"},
		{"syntax", "[window\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestParseHex(t *testing.T) {
	v, err := ParseHex("#05060c")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x05060c), v)

	v, err = ParseHex("FFFFFF")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xffffff), v)

	_, err = ParseHex("#fff")
	assert.Error(t, err)
}
