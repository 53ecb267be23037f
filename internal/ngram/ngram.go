// Package ngram extracts character n-grams from text.
//
// An n-gram here is a pair of a fixed-length context and the character that
// follows it. Text is padded at the front with the Sentinel character so that
// every character of the original text, including the first, gets a full-length
// context.
//
// Usage Example:
//
//	grams := ngram.Extract(2, "abc")
//	// [{"~~" 'a'} {"~a" 'b'} {"ab" 'c'}]
//
// All lengths and positions are measured in runes, not bytes.
package ngram

import (
	"strings"
)

// Sentinel pads the start of text before n-gram extraction.
const Sentinel = '~'

// Gram is a single (context, next character) observation.
type Gram struct {
	Context string // the c characters preceding Char
	Char    rune   // the observed character
}

// StartPad returns c sentinel characters. Non-positive c yields an empty string.
func StartPad(c int) string {
	if c <= 0 {
		return ""
	}
	return strings.Repeat(string(Sentinel), c)
}

// Extract returns every overlapping n-gram of context length c in text.
//
// The text is padded with StartPad(c), then for each rune position i from c to
// the end of the padded text the gram (padded[i-c:i], padded[i]) is produced, so
// the result always holds exactly one gram per rune of text.
func Extract(c int, text string) []Gram {
	if c < 0 {
		c = 0
	}

	padded := []rune(StartPad(c) + text)
	if len(padded) <= c {
		return nil
	}

	grams := make([]Gram, 0, len(padded)-c)
	for i := c; i < len(padded); i++ {
		grams = append(grams, Gram{
			Context: string(padded[i-c : i]),
			Char:    padded[i],
		})
	}

	return grams
}

// Tail returns the last n characters of context, the whole context when it is
// shorter than n, and an empty string for n <= 0.
func Tail(context string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(context)
	if len(runes) <= n {
		return context
	}
	return string(runes[len(runes)-n:])
}

// Slide drops the first character of window and appends next, keeping the window
// length constant. An empty window has nothing to drop and grows to next alone.
func Slide(window string, next rune) string {
	runes := []rune(window)
	if len(runes) == 0 {
		return string(next)
	}
	return string(append(runes[1:], next))
}
