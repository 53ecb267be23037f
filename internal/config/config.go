/*
Package config manages the optional TOML defaults file for babble.

Values in the file replace the built-in defaults; command-line flags that are
set explicitly replace both.
*/
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the entire config structure
type Config struct {
	Model    ModelConfig    `toml:"model"`
	Generate GenerateConfig `toml:"generate"`
	Corpus   CorpusConfig   `toml:"corpus"`
}

// ModelConfig selects and shapes the language model.
type ModelConfig struct {
	Kind          string  `toml:"kind"`
	ContextLength int     `toml:"context_length"`
	Smoothing     float64 `toml:"smoothing"`
}

// GenerateConfig holds text generation options.
type GenerateConfig struct {
	Length int    `toml:"length"`
	Seed   uint64 `toml:"seed"` // 0 = unseeded
}

// CorpusConfig controls how training sources become text.
type CorpusConfig struct {
	Clean     bool   `toml:"clean"` // drop boilerplate chunks
	HTML      string `toml:"html"`
	Selector  string `toml:"selector"`
	ChunkSize int    `toml:"chunk_size"`
	MaxChars  int    `toml:"max_chars"` // per source, 0 = no limit
	Sizing    string `toml:"sizing"`    // beginning, middle or end
}

var htmlModes = []string{"auto", "readability", "all", "markdown", "off"}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Kind:          "interpolated",
			ContextLength: 2,
			Smoothing:     0,
		},
		Generate: GenerateConfig{
			Length: 600,
		},
		Corpus: CorpusConfig{
			HTML:      "auto",
			ChunkSize: 2000,
			Sizing:    "beginning",
		},
	}
}

// DefaultPath returns [UserConfigDir]/babble/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(dir, "babble", "config.toml"), nil
}

// Load reads a TOML file over the defaults. Keys the file sets but Config does
// not know are logged and ignored.
func Load(path string) (*Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	for _, key := range meta.Undecoded() {
		slog.Warn("Ignoring unknown config key", "path", path, "key", key.String())
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	slog.Debug("Loaded config", "path", path)
	return cfg, nil
}

// LoadWithPriority loads config with priority:
// 1. Custom path from --config flag (must exist)
// 2. Default path, when the file exists
// 3. Builtin defaults
func LoadWithPriority(customPath string) (*Config, string, error) {
	if customPath != "" {
		cfg, err := Load(customPath)
		if err != nil {
			return nil, "", err
		}
		return cfg, customPath, nil
	}

	defaultPath, err := DefaultPath()
	if err != nil {
		slog.Debug("No default config path, using built-in defaults", "error", err)
		return Default(), "", nil
	}

	if _, err := os.Stat(defaultPath); errors.Is(err, os.ErrNotExist) {
		return Default(), "", nil
	}

	cfg, err := Load(defaultPath)
	if err != nil {
		return nil, "", err
	}
	return cfg, defaultPath, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Model.ContextLength < 0 {
		return fmt.Errorf("model.context_length must be non-negative, got %d", c.Model.ContextLength)
	}
	if c.Model.Smoothing < 0 {
		return fmt.Errorf("model.smoothing must be non-negative, got %g", c.Model.Smoothing)
	}
	if c.Generate.Length < 0 {
		return fmt.Errorf("generate.length must be non-negative, got %d", c.Generate.Length)
	}
	if c.Corpus.ChunkSize <= 0 {
		return fmt.Errorf("corpus.chunk_size must be positive, got %d", c.Corpus.ChunkSize)
	}
	if c.Corpus.MaxChars < 0 {
		return fmt.Errorf("corpus.max_chars must be non-negative, got %d", c.Corpus.MaxChars)
	}

	html := strings.ToLower(c.Corpus.HTML)
	for _, mode := range htmlModes {
		if html == mode {
			return nil
		}
	}
	return fmt.Errorf("corpus.html must be one of %s, got %q", strings.Join(htmlModes, ", "), c.Corpus.HTML)
}

// Encode writes the config as TOML.
func (c *Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
