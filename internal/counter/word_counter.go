package counter

import (
	"log/slog"
	"strings"
)

// WordCounter implements word counting using whitespace splitting.
type WordCounter struct{}

// NewWordCounter creates a new WordCounter instance.
func NewWordCounter() *WordCounter {
	return &WordCounter{}
}

// Count returns the number of whitespace-separated words in the given text.
func (wc *WordCounter) Count(text string) int {
	if text == "" {
		return 0
	}

	wordCount := len(strings.Fields(text))

	slog.Debug("Word count calculated", "textLength", len(text), "wordCount", wordCount)
	return wordCount
}

// Name returns the name of this counting method for logging and debugging.
func (wc *WordCounter) Name() string {
	return "words"
}
