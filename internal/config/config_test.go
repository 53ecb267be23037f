package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "interpolated", cfg.Model.Kind)
	assert.Equal(t, 2, cfg.Model.ContextLength)
	assert.Zero(t, cfg.Model.Smoothing)
	assert.Equal(t, 600, cfg.Generate.Length)
	assert.Zero(t, cfg.Generate.Seed)
	assert.False(t, cfg.Corpus.Clean)
	assert.Equal(t, "auto", cfg.Corpus.HTML)
	assert.Equal(t, 2000, cfg.Corpus.ChunkSize)
	assert.Zero(t, cfg.Corpus.MaxChars)
	assert.Equal(t, "beginning", cfg.Corpus.Sizing)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[model]
kind = "base"
context_length = 4

[generate]
seed = 42

[corpus]
clean = true
html = "markdown"
max_chars = 5000
sizing = "middle"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "base", cfg.Model.Kind)
	assert.Equal(t, 4, cfg.Model.ContextLength)
	assert.Equal(t, uint64(42), cfg.Generate.Seed)
	assert.True(t, cfg.Corpus.Clean)
	assert.Equal(t, "markdown", cfg.Corpus.HTML)
	assert.Equal(t, 5000, cfg.Corpus.MaxChars)
	assert.Equal(t, "middle", cfg.Corpus.Sizing)

	// keys absent from the file keep their defaults
	assert.Equal(t, 600, cfg.Generate.Length)
	assert.Equal(t, 2000, cfg.Corpus.ChunkSize)
}

func TestLoad_UnknownKeysIgnored(t *testing.T) {
	path := writeConfig(t, `
[model]
context_length = 3
temperature = 0.7
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Model.ContextLength)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed toml", "[model\ncontext_length = 2"},
		{"wrong type", "[model]\ncontext_length = \"two\""},
		{"negative context length", "[model]\ncontext_length = -1"},
		{"negative smoothing", "[model]\nsmoothing = -0.5"},
		{"negative length", "[generate]\nlength = -10"},
		{"zero chunk size", "[corpus]\nchunk_size = 0"},
		{"negative max chars", "[corpus]\nmax_chars = -1"},
		{"unknown html mode", "[corpus]\nhtml = \"pdf\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadWithPriority(t *testing.T) {
	t.Run("custom path", func(t *testing.T) {
		path := writeConfig(t, "[generate]\nlength = 80\n")

		cfg, used, err := LoadWithPriority(path)
		require.NoError(t, err)
		assert.Equal(t, path, used)
		assert.Equal(t, 80, cfg.Generate.Length)
	})

	t.Run("missing custom path is an error", func(t *testing.T) {
		_, _, err := LoadWithPriority(filepath.Join(t.TempDir(), "absent.toml"))
		assert.Error(t, err)
	})

	t.Run("falls back to defaults", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("HOME", t.TempDir())

		cfg, used, err := LoadWithPriority("")
		require.NoError(t, err)
		assert.Empty(t, used)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("default path when present", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)
		t.Setenv("HOME", dir)

		path, err := DefaultPath()
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("[model]\nkind = \"base\"\n"), 0o644))

		cfg, used, err := LoadWithPriority("")
		require.NoError(t, err)
		assert.Equal(t, path, used)
		assert.Equal(t, "base", cfg.Model.Kind)
	})
}

func TestEncode(t *testing.T) {
	cfg := Default()
	cfg.Generate.Seed = 7

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	assert.Contains(t, buf.String(), "[model]")
	assert.Contains(t, buf.String(), "context_length = 2")

	loaded, err := Load(writeConfig(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
