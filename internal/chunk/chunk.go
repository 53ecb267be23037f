// Package chunk splits corpus text into bounded segments.
//
// Text is broken at the largest semantic boundary that brings each piece under
// the size limit: paragraphs first, then sentences, then lines, then words.
// Adjacent small pieces are packed back together so chunks stay close to the
// limit instead of degenerating into single sentences. Sizes are counted in
// characters (runes), the unit the language model works in.
//
// Usage Example:
//
//	chunks := chunk.SplitText(corpus, 2000)
//
// Chunks come back in document order with surrounding whitespace trimmed. Each
// chunk is a contiguous slice of the input, so Spans can report where it came
// from and callers can cut chunks out without rewriting the text between them.
package chunk

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
)

// Span is a chunk's byte range [Start, End) in the text it was split from.
type Span struct {
	Start int
	End   int
}

// splitStrategy breaks the text of a span at one kind of boundary.
type splitStrategy struct {
	name  string
	split func(text string, span Span) []Span
}

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n`)

// strategies are ordered from the largest unit to the smallest
var strategies = []splitStrategy{
	{name: "paragraph", split: splitParagraphs},
	{name: "sentence", split: splitSentences},
	{name: "line", split: splitLines},
	{name: "word", split: splitWords},
}

// SplitText breaks text into chunks of at most maxRunes characters.
// A word longer than maxRunes is cut at the limit.
func SplitText(text string, maxRunes int) []string {
	spans := Spans(text, maxRunes)
	chunks := make([]string, len(spans))
	for i, span := range spans {
		chunks[i] = text[span.Start:span.End]
	}
	return chunks
}

// Spans returns the byte ranges of the chunks SplitText would produce, in order.
func Spans(text string, maxRunes int) []Span {
	slog.Debug("Spans called", "textLength", len(text), "maxRunes", maxRunes)

	if maxRunes <= 0 {
		return []Span{}
	}

	whole, ok := trim(text, Span{Start: 0, End: len(text)})
	if !ok {
		return []Span{}
	}

	spans := splitAt(text, whole, 0, maxRunes)
	slog.Debug("Spans completed", "chunks", len(spans))
	return spans
}

func splitAt(text string, span Span, level, maxRunes int) []Span {
	if utf8.RuneCountInString(text[span.Start:span.End]) <= maxRunes {
		return []Span{span}
	}
	if level >= len(strategies) {
		return hardSplit(text, span, maxRunes)
	}

	strategy := strategies[level]
	segments := strategy.split(text, span)
	if len(segments) <= 1 {
		return splitAt(text, span, level+1, maxRunes)
	}

	slog.Debug("Applying strategy", "strategy", strategy.name, "segments", len(segments))

	var spans []Span
	for _, packed := range packSpans(text, segments, maxRunes) {
		spans = append(spans, splitAt(text, packed, level+1, maxRunes)...)
	}
	return spans
}

// packSpans greedily merges consecutive segments while the merged range, gaps
// included, fits in maxRunes. An oversized segment is passed through alone for
// the next strategy to split.
func packSpans(text string, segments []Span, maxRunes int) []Span {
	var packed []Span
	current := segments[0]
	currentRunes := utf8.RuneCountInString(text[current.Start:current.End])

	for _, segment := range segments[1:] {
		extra := utf8.RuneCountInString(text[current.End:segment.End])
		if currentRunes+extra > maxRunes {
			packed = append(packed, current)
			current = segment
			currentRunes = utf8.RuneCountInString(text[segment.Start:segment.End])
			continue
		}
		current.End = segment.End
		currentRunes += extra
	}

	return append(packed, current)
}

func splitParagraphs(text string, span Span) []Span {
	var parts []Span
	start := span.Start
	for _, brk := range paragraphBreak.FindAllStringIndex(text[span.Start:span.End], -1) {
		parts = append(parts, Span{Start: start, End: span.Start + brk[0]})
		start = span.Start + brk[1]
	}
	parts = append(parts, Span{Start: start, End: span.End})
	return nonEmpty(text, parts)
}

func splitLines(text string, span Span) []Span {
	var parts []Span
	start := span.Start
	for i := span.Start; i < span.End; i++ {
		if text[i] == '\n' {
			parts = append(parts, Span{Start: start, End: i})
			start = i + 1
		}
	}
	parts = append(parts, Span{Start: start, End: span.End})
	return nonEmpty(text, parts)
}

func splitWords(text string, span Span) []Span {
	var parts []Span
	start := -1
	for i, r := range text[span.Start:span.End] {
		switch {
		case unicode.IsSpace(r) && start >= 0:
			parts = append(parts, Span{Start: span.Start + start, End: span.Start + i})
			start = -1
		case !unicode.IsSpace(r) && start < 0:
			start = i
		}
	}
	if start >= 0 {
		parts = append(parts, Span{Start: span.Start + start, End: span.End})
	}
	return parts
}

// splitSentences segments text with prose's sentence tokenizer and locates each
// sentence in the source. Tagging and entity extraction are switched off; only
// segmentation is needed. If a sentence cannot be found verbatim the span is
// returned whole and the next strategy takes over.
func splitSentences(text string, span Span) []Span {
	segment := text[span.Start:span.End]
	doc, err := prose.NewDocument(segment,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		slog.Debug("Sentence segmentation failed", "error", err)
		return []Span{span}
	}

	var parts []Span
	cursor := 0
	for _, s := range doc.Sentences() {
		sentence := strings.TrimSpace(s.Text)
		if sentence == "" {
			continue
		}
		offset := strings.Index(segment[cursor:], sentence)
		if offset < 0 {
			slog.Debug("Sentence not found in source", "sentence", sentence)
			return []Span{span}
		}
		start := span.Start + cursor + offset
		parts = append(parts, Span{Start: start, End: start + len(sentence)})
		cursor += offset + len(sentence)
	}
	return parts
}

// hardSplit cuts a span into pieces of exactly maxRunes characters (the last may be shorter).
func hardSplit(text string, span Span, maxRunes int) []Span {
	var pieces []Span
	start, count := span.Start, 0
	for i := range text[span.Start:span.End] {
		if count == maxRunes {
			pieces = append(pieces, Span{Start: start, End: span.Start + i})
			start, count = span.Start+i, 0
		}
		count++
	}
	return append(pieces, Span{Start: start, End: span.End})
}

// trim narrows span to exclude surrounding whitespace and reports whether
// anything is left.
func trim(text string, span Span) (Span, bool) {
	segment := text[span.Start:span.End]
	left := len(segment) - len(strings.TrimLeftFunc(segment, unicode.IsSpace))
	right := len(strings.TrimRightFunc(segment, unicode.IsSpace))
	if left >= right {
		return Span{}, false
	}
	return Span{Start: span.Start + left, End: span.Start + right}, true
}

func nonEmpty(text string, parts []Span) []Span {
	out := make([]Span, 0, len(parts))
	for _, part := range parts {
		if trimmed, ok := trim(text, part); ok {
			out = append(out, trimmed)
		}
	}
	return out
}
