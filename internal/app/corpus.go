package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/chriscorrea/babble/internal/chunk"
	"github.com/chriscorrea/babble/internal/classify"
	"github.com/chriscorrea/babble/internal/extract"
	"github.com/chriscorrea/babble/internal/fetch"
)

// Document is the training text taken from one source.
type Document struct {
	Source  string `json:"source"`
	Text    string `json:"-"`
	Chunks  int    `json:"chunks"`  // chunks seen by cleaning or the character limit
	Dropped int    `json:"dropped"` // chunks cleaning removed
}

// Corpus is the set of documents a model is trained on.
type Corpus struct {
	Documents []Document
}

// Text joins every document, separated by blank lines.
func (c Corpus) Text() string {
	texts := make([]string, len(c.Documents))
	for i, doc := range c.Documents {
		texts[i] = doc.Text
	}
	return strings.Join(texts, "\n\n")
}

// Characters counts the characters across all documents.
func (c Corpus) Characters() int {
	total := 0
	for _, doc := range c.Documents {
		total += utf8.RuneCountInString(doc.Text)
	}
	return total
}

// Dropped counts boilerplate chunks removed across all documents.
func (c Corpus) Dropped() int {
	total := 0
	for _, doc := range c.Documents {
		total += doc.Dropped
	}
	return total
}

// LoadCorpus reads every source into a Document. A source that fails is
// reported and skipped; an error is returned only when no source yields text.
func LoadCorpus(ctx context.Context, cfg Config) (Corpus, error) {
	if len(cfg.Sources) == 0 {
		return Corpus{}, fmt.Errorf("no sources provided")
	}

	var corpus Corpus
	for _, source := range cfg.Sources {
		if err := ctx.Err(); err != nil {
			return Corpus{}, err
		}

		doc, err := processSource(ctx, source, cfg)
		if err != nil {
			warn(cfg, "failed to process source %q: %v", source, err)
			continue
		}
		corpus.Documents = append(corpus.Documents, doc)
	}

	if len(corpus.Documents) == 0 {
		return Corpus{}, fmt.Errorf("no content extracted from any source")
	}

	slog.Debug("Corpus loaded", "documents", len(corpus.Documents), "characters", corpus.Characters(), "dropped", corpus.Dropped())
	return corpus, nil
}

// LoadText reads one source the way training sources are read, including HTML
// extraction, but without cleaning or a character limit. It is used for
// held-out text.
func LoadText(ctx context.Context, cfg Config, source string) (string, error) {
	cfg.Clean = false
	cfg.MaxChars = 0

	doc, err := processSource(ctx, source, cfg)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", source, err)
	}
	return doc.Text, nil
}

// processSource fetches one source, extracts text from HTML and prepares it for training
// TODO: stream large sources; ReadText loads the whole source into memory
func processSource(ctx context.Context, source string, cfg Config) (Document, error) {
	fetched, err := fetch.ReadText(ctx, source)
	if err != nil {
		return Document{}, fmt.Errorf("failed to fetch content: %w", err)
	}

	text := fetched.Text
	if mode, ok := extractionMode(cfg, fetched); ok {
		var baseURL *url.URL
		if fetch.IsURL(source) {
			baseURL, _ = url.Parse(source) // nil on parse errors
		}

		text, err = extract.ToText(strings.NewReader(text), extract.Options{
			Mode:     mode,
			Selector: cfg.Selector,
			BaseURL:  baseURL,
		})
		if err != nil {
			return Document{}, fmt.Errorf("failed to extract content: %w", err)
		}
	}

	doc := prepareText(Document{Source: source, Text: text}, cfg)

	if strings.TrimSpace(doc.Text) == "" {
		return Document{}, fmt.Errorf("no content extracted")
	}
	return doc, nil
}

// extractionMode picks the extract mode for a fetched source, or reports false
// when the text should be used as is.
func extractionMode(cfg Config, fetched fetch.Document) (extract.Mode, bool) {
	switch cfg.HTML {
	case HTMLOff:
		return 0, false
	case HTMLReadability:
		return extract.Readability, true
	case HTMLAll:
		return extract.All, true
	case HTMLMarkdown:
		return extract.Markdown, true
	default:
		if fetched.HTML || extract.LooksLikeHTML(fetched.Text) {
			return extract.Readability, true
		}
		return 0, false
	}
}

// prepareText removes boilerplate chunks when Clean is set, then applies the
// character limit. The text of kept chunks and the whitespace between them is
// left exactly as read; with nothing removed the document is returned as is.
func prepareText(doc Document, cfg Config) Document {
	if cfg.ChunkSize <= 0 || (!cfg.Clean && cfg.MaxChars <= 0) {
		return doc
	}

	spans := chunk.Spans(doc.Text, cfg.ChunkSize)
	doc.Chunks = len(spans)

	kept := spans
	if cfg.Clean {
		chunks := make([]string, len(spans))
		for i, span := range spans {
			chunks[i] = doc.Text[span.Start:span.End]
		}

		indices := classify.NewClassifier().Filter(chunks)
		kept = make([]chunk.Span, len(indices))
		for j, i := range indices {
			kept[j] = spans[i]
		}
		doc.Dropped = len(spans) - len(kept)
		slog.Debug("Boilerplate filtered", "source", doc.Source, "chunks", doc.Chunks, "dropped", doc.Dropped)
	}

	kept = limitSpans(doc.Text, kept, cfg.MaxChars, cfg.Sizing)
	if slices.Equal(kept, spans) {
		return doc
	}

	doc.Text = joinSpans(doc.Text, kept)
	return doc
}
