// Package app contains the core application logic for the babble CLI tool.
// It handles training and querying separated from CLI concerns.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/chriscorrea/babble/internal/extract"
	"github.com/chriscorrea/babble/internal/model"
	"github.com/chriscorrea/babble/internal/spinner"
)

// HTMLMode decides how HTML sources are turned into text.
type HTMLMode int

const (
	// HTMLAuto extracts main content when a source looks like HTML (default)
	HTMLAuto HTMLMode = iota
	// HTMLReadability always extracts the main article text
	HTMLReadability
	// HTMLAll always keeps the text of every element
	HTMLAll
	// HTMLMarkdown always converts to Markdown
	HTMLMarkdown
	// HTMLOff trains on the raw bytes, markup included
	HTMLOff
)

// String returns the string representation of the mode.
func (m HTMLMode) String() string {
	switch m {
	case HTMLAuto:
		return "auto"
	case HTMLReadability:
		return "readability"
	case HTMLAll:
		return "all"
	case HTMLMarkdown:
		return "markdown"
	case HTMLOff:
		return "off"
	default:
		return "unknown"
	}
}

// ParseHTMLMode maps a mode name to an HTMLMode. Names other than auto and off
// are extraction modes understood by extract.ParseMode.
func ParseHTMLMode(name string) (HTMLMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return HTMLAuto, nil
	case "off", "none", "raw":
		return HTMLOff, nil
	}

	mode, err := extract.ParseMode(name)
	if err != nil {
		return HTMLAuto, fmt.Errorf("unknown html mode %q", name)
	}

	switch mode {
	case extract.All:
		return HTMLAll, nil
	case extract.Markdown:
		return HTMLMarkdown, nil
	default:
		return HTMLReadability, nil
	}
}

// Config holds all configuration options for the babble application.
type Config struct {
	Sources       []string   // URLs, file paths, or "-" for stdin
	Kind          model.Kind // base or interpolated
	ContextLength int        // c, characters of context
	Smoothing     float64    // k, stored by the model
	Seed          uint64     // 0 = unseeded
	Length        int        // characters to generate
	HTML          HTMLMode
	Selector      string         // CSS selector for HTML sources
	Clean         bool           // drop boilerplate chunks before training
	ChunkSize     int            // characters per chunk for filtering and evaluation
	MaxChars      int            // per-source character limit, 0 = none
	Sizing        SizingStrategy // which part of a source MaxChars keeps
	Quiet         bool           // suppress warnings and progress
	Debug         bool
}

// progressWriter is where spinners and bars go: stderr when it is a terminal
// and the run is not quiet, nowhere otherwise.
func progressWriter(cfg Config) io.Writer {
	if cfg.Quiet || !spinner.IsTerminal(os.Stderr) {
		return nil
	}
	return os.Stderr
}

// warn prints a non-fatal problem unless the run is quiet.
func warn(cfg Config, format string, args ...any) {
	if !cfg.Quiet {
		fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
	}
}

// NewModel creates an untrained model from the config.
func NewModel(cfg Config) (model.LanguageModel, error) {
	var opts []model.Option
	if cfg.Seed != 0 {
		opts = append(opts, model.WithSeed(cfg.Seed))
	}

	lm, err := model.NewLanguageModel(cfg.Kind, cfg.ContextLength, cfg.Smoothing, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	return lm, nil
}

// TrainModel creates a model and trains it on every corpus document in order.
// Each document is padded on its own, so no n-gram spans two sources.
// ctx allows cancellation between documents.
func TrainModel(ctx context.Context, cfg Config, corpus Corpus) (model.LanguageModel, error) {
	lm, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Training %s model (c=%d) on %d characters", cfg.Kind, cfg.ContextLength, corpus.Characters())
	err = spinner.Run(ctx, progressWriter(cfg), message, func(update func(string)) error {
		for i, doc := range corpus.Documents {
			if err := ctx.Err(); err != nil {
				return err
			}
			if len(corpus.Documents) > 1 {
				update(fmt.Sprintf("%s [%d/%d %s]", message, i+1, len(corpus.Documents), doc.Source))
			}
			lm.Update(doc.Text)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to train model: %w", err)
	}

	slog.Debug("Model trained", "kind", cfg.Kind.String(), "contextLength", cfg.ContextLength,
		"documents", len(corpus.Documents), "vocabulary", len(lm.Vocab()))
	return lm, nil
}

// Build loads the corpus named by cfg.Sources and trains a model on it.
func Build(ctx context.Context, cfg Config) (model.LanguageModel, Corpus, error) {
	corpus, err := LoadCorpus(ctx, cfg)
	if err != nil {
		return nil, Corpus{}, err
	}

	lm, err := TrainModel(ctx, cfg, corpus)
	if err != nil {
		return nil, Corpus{}, err
	}
	return lm, corpus, nil
}

// Generate samples length characters from lm.
func Generate(lm model.LanguageModel, length int) (string, error) {
	text, err := lm.RandomText(length)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	return text, nil
}

// Score returns the perplexity of text under lm.
func Score(lm model.LanguageModel, text string) (float64, error) {
	perplexity, err := lm.Perplexity(text)
	if err != nil {
		return 0, fmt.Errorf("failed to score text: %w", err)
	}
	return perplexity, nil
}

// Probability returns P(char | context). char must be exactly one character.
func Probability(lm model.LanguageModel, context, char string) (float64, error) {
	if utf8.RuneCountInString(char) != 1 {
		return 0, fmt.Errorf("expected a single character, got %q", char)
	}

	r, _ := utf8.DecodeRuneInString(char)
	return lm.Prob(context, r), nil
}
