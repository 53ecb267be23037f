// Package counter measures corpus text.
//
// Characters are the unit the language model learns from, so the character
// counter also reports per-character frequencies. Words and tiktoken tokens
// (cl100k_base) are reported alongside to make corpus sizes comparable with
// other tools.
//
// Usage Example:
//
//	measures, err := counter.Summarize(corpus, counter.Characters, counter.Words)
//	for _, m := range measures {
//		fmt.Printf("%s: %d\n", m.Name, m.Count)
//	}
package counter

import (
	"fmt"
	"strings"
)

// Counter defines the interface for different text counting strategies.
type Counter interface {
	// Count returns the number of units (tokens, words, or characters) in given text.
	Count(text string) int

	// Name returns a human-readable name for this counting method (for logging)
	Name() string
}

// CountingMethod represents the different available counting strategies.
type CountingMethod int

const (
	// Characters counts Unicode characters including whitespace (default)
	Characters CountingMethod = iota
	// Words counts words using whitespace splitting
	Words
	// Tokens uses tiktoken with cl100k_base encoding
	Tokens
)

// String returns the string representation of the counting method.
func (cm CountingMethod) String() string {
	switch cm {
	case Characters:
		return "characters"
	case Words:
		return "words"
	case Tokens:
		return "tokens"
	default:
		return "unknown"
	}
}

// ParseMethod maps a method name to a CountingMethod.
func ParseMethod(name string) (CountingMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "characters", "chars", "runes":
		return Characters, nil
	case "words":
		return Words, nil
	case "tokens":
		return Tokens, nil
	default:
		return Characters, fmt.Errorf("unknown counting method %q", name)
	}
}

// NewCounter creates a new Counter instance based on the specified method.
// Returns an error if the counter cannot be initialized (e.g., tiktoken encoding fails).
func NewCounter(method CountingMethod) (Counter, error) {
	switch method {
	case Characters:
		return NewCharCounter(), nil
	case Words:
		return NewWordCounter(), nil
	case Tokens:
		tc, err := NewTokenCounter()
		if err != nil {
			return nil, err
		}
		return tc, nil
	default:
		return nil, fmt.Errorf("unknown counting method %d", int(method))
	}
}

// Measure is one counter's result.
type Measure struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summarize counts text with every requested method, in order.
func Summarize(text string, methods ...CountingMethod) ([]Measure, error) {
	measures := make([]Measure, 0, len(methods))
	for _, method := range methods {
		c, err := NewCounter(method)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s counter: %w", method, err)
		}
		measures = append(measures, Measure{Name: c.Name(), Count: c.Count(text)})
	}
	return measures, nil
}
