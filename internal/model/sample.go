package model

import (
	"fmt"
	"strings"

	"github.com/chriscorrea/babble/internal/ngram"
)

// sample draws one character from vocab.
//
// vocab must already be in lexicographic order: the running sum of prob is
// compared against a single uniform draw, so the order decides which character
// wins on ties and rounding. When rounding keeps the sum at or below the draw,
// a character is picked uniformly instead.
func sample(src Source, vocab []rune, prob func(rune) float64) (rune, error) {
	if len(vocab) == 0 {
		return 0, ErrEmptyVocabulary
	}

	r := src.Float64()
	sum := 0.0
	for _, char := range vocab {
		sum += prob(char)
		if sum > r {
			return char, nil
		}
	}

	return vocab[src.IntN(len(vocab))], nil
}

// generate produces length characters, starting from a fully padded context of
// c sentinels and sliding the window after each sampled character. For c = 0 the
// window holds the previous character after the first draw.
func generate(c, length int, next func(context string) (rune, error)) (string, error) {
	if length < 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	var text strings.Builder
	text.Grow(length)

	context := ngram.StartPad(c)
	for i := 0; i < length; i++ {
		char, err := next(context)
		if err != nil {
			return "", fmt.Errorf("failed to sample character %d: %w", i, err)
		}

		text.WriteRune(char)
		context = ngram.Slide(context, char)
	}

	return text.String(), nil
}
