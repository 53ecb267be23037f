package chunk_test

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/chriscorrea/babble/internal/chunk"
)

const passage = `It was the best of times, it was the worst of times, it was the age of wisdom, it was the age of foolishness.

There were a king with a large jaw and a queen with a plain face, on the throne of England.
There were a king with a large jaw and a queen with a fair face, on the throne of France.

In both countries it was clearer than crystal to the lords of the State preserves of loaves and fishes, that things in general were settled for ever.`

func TestSplitText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxRunes int
		expected []string
	}{
		{
			name:     "empty string",
			text:     "",
			maxRunes: 100,
			expected: []string{},
		},
		{
			name:     "whitespace only",
			text:     "   \n\t   ",
			maxRunes: 100,
			expected: []string{},
		},
		{
			name:     "zero limit",
			text:     "Some text",
			maxRunes: 0,
			expected: []string{},
		},
		{
			name:     "text fits in single chunk",
			text:     "  A short line.  ",
			maxRunes: 100,
			expected: []string{"A short line."},
		},
		{
			name:     "paragraphs split one per chunk",
			text:     "aaa\n\nbbb\n\nccc",
			maxRunes: 5,
			expected: []string{"aaa", "bbb", "ccc"},
		},
		{
			name:     "paragraphs packed up to the limit",
			text:     "aaa\n\nbbb\n\nccc",
			maxRunes: 8,
			expected: []string{"aaa\n\nbbb", "ccc"},
		},
		{
			name:     "packed chunks keep source whitespace",
			text:     "aaa\n \nbbb\n\nccc",
			maxRunes: 9,
			expected: []string{"aaa\n \nbbb", "ccc"},
		},
		{
			name:     "words packed with their own spacing",
			text:     "one\ttwo three",
			maxRunes: 7,
			expected: []string{"one\ttwo", "three"},
		},
		{
			name:     "words packed",
			text:     "one two three four five",
			maxRunes: 9,
			expected: []string{"one two", "three", "four five"},
		},
		{
			name:     "oversized word is cut",
			text:     "abcdefghij",
			maxRunes: 4,
			expected: []string{"abcd", "efgh", "ij"},
		},
		{
			name:     "limit counts characters not bytes",
			text:     "ééééé",
			maxRunes: 5,
			expected: []string{"ééééé"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := chunk.SplitText(tt.text, tt.maxRunes)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("SplitText(%q, %d) = %q, want %q", tt.text, tt.maxRunes, result, tt.expected)
			}
		})
	}
}

func TestSplitTextRespectsLimitAndOrder(t *testing.T) {
	wantWords := strings.Fields(passage)

	for _, maxRunes := range []int{15, 40, 80, 150, 400, 2000} {
		chunks := chunk.SplitText(passage, maxRunes)
		if len(chunks) == 0 {
			t.Fatalf("SplitText(passage, %d) returned no chunks", maxRunes)
		}

		for i, c := range chunks {
			if n := utf8.RuneCountInString(c); n > maxRunes {
				t.Errorf("maxRunes=%d: chunk %d has %d runes", maxRunes, i, n)
			}
			if strings.TrimSpace(c) != c {
				t.Errorf("maxRunes=%d: chunk %d is not trimmed: %q", maxRunes, i, c)
			}
		}

		gotWords := strings.Fields(strings.Join(chunks, " "))
		if !reflect.DeepEqual(gotWords, wantWords) {
			t.Errorf("maxRunes=%d: chunks lost or reordered words", maxRunes)
		}
	}
}

func TestSplitTextWholePassage(t *testing.T) {
	chunks := chunk.SplitText(passage, 10000)
	if len(chunks) != 1 || chunks[0] != strings.TrimSpace(passage) {
		t.Errorf("SplitText() split a passage that fits: %d chunks", len(chunks))
	}
}

func TestSpans(t *testing.T) {
	for _, maxRunes := range []int{15, 40, 80, 150, 2000} {
		spans := chunk.Spans(passage, maxRunes)
		chunks := chunk.SplitText(passage, maxRunes)

		if len(spans) != len(chunks) {
			t.Fatalf("maxRunes=%d: %d spans, %d chunks", maxRunes, len(spans), len(chunks))
		}

		prevEnd := 0
		for i, span := range spans {
			if span.Start < prevEnd || span.End <= span.Start || span.End > len(passage) {
				t.Fatalf("maxRunes=%d: span %d = %+v out of order or bounds", maxRunes, i, span)
			}
			if got := passage[span.Start:span.End]; got != chunks[i] {
				t.Errorf("maxRunes=%d: span %d covers %q, chunk is %q", maxRunes, i, got, chunks[i])
			}
			if gap := passage[prevEnd:span.Start]; i > 0 && strings.TrimSpace(gap) != "" {
				t.Errorf("maxRunes=%d: text %q between spans belongs to no chunk", maxRunes, gap)
			}
			prevEnd = span.End
		}
	}
}

func TestSpansEmpty(t *testing.T) {
	if spans := chunk.Spans(" \n\t ", 10); len(spans) != 0 {
		t.Errorf("Spans(whitespace) = %v, want none", spans)
	}
	if spans := chunk.Spans("text", 0); len(spans) != 0 {
		t.Errorf("Spans(text, 0) = %v, want none", spans)
	}
}
