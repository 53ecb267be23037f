package counter

import (
	"cmp"
	"log/slog"
	"slices"
	"unicode/utf8"
)

// CharCounter implements character counting using UTF-8 rune counting.
type CharCounter struct{}

// NewCharCounter creates a new CharCounter instance.
func NewCharCounter() *CharCounter {
	return &CharCounter{}
}

// Count returns the number of UTF-8 characters (runes) in the given text.
func (cc *CharCounter) Count(text string) int {
	if text == "" {
		return 0
	}

	charCount := utf8.RuneCountInString(text)

	slog.Debug("Character count calculated", "textLength", len(text), "charCount", charCount)
	return charCount
}

// Name returns the name of this counting method for logging and debugging.
func (cc *CharCounter) Name() string {
	return "characters"
}

// CharFrequency is a character and the number of times it occurs.
type CharFrequency struct {
	Char  rune `json:"char"`
	Count int  `json:"count"`
}

// Frequencies counts each distinct character in text.
func (cc *CharCounter) Frequencies(text string) map[rune]int {
	freqs := make(map[rune]int)
	for _, r := range text {
		freqs[r]++
	}
	return freqs
}

// Top returns the n most frequent characters, most frequent first.
// Ties are broken by character order. n <= 0 returns every character.
func (cc *CharCounter) Top(text string, n int) []CharFrequency {
	freqs := cc.Frequencies(text)

	top := make([]CharFrequency, 0, len(freqs))
	for r, count := range freqs {
		top = append(top, CharFrequency{Char: r, Count: count})
	}
	slices.SortFunc(top, func(a, b CharFrequency) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Char, b.Char)
	})

	if n > 0 && n < len(top) {
		top = top[:n]
	}
	return top
}
