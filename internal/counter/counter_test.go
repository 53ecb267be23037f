package counter

import (
	"reflect"
	"testing"
)

func TestWordCounter(t *testing.T) {
	counter := NewWordCounter()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty string", "", 0},
		{"single word", "hello", 1},
		{"multiple words", "hello world test", 3},
		{"whitespace handling", "  hello   world  ", 2},
		{"newlines and tabs", "one\ntwo\tthree", 3},
		{"unicode words", "café naïve résumé", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := counter.Count(tt.text)
			if result != tt.expected {
				t.Errorf("WordCounter.Count(%q) = %d, want %d", tt.text, result, tt.expected)
			}
		})
	}

	if counter.Name() != "words" {
		t.Errorf("WordCounter.Name() = %q, want %q", counter.Name(), "words")
	}
}

func TestCharCounter(t *testing.T) {
	counter := NewCharCounter()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty string", "", 0},
		{"single char", "a", 1},
		{"multiple chars", "hello", 5},
		{"unicode chars", "café", 4}, // é is one rune
		{"whitespace included", "a b", 3},
		{"emoji", "hello 👋", 7}, // emoji is one rune
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := counter.Count(tt.text)
			if result != tt.expected {
				t.Errorf("CharCounter.Count(%q) = %d, want %d", tt.text, result, tt.expected)
			}
		})
	}

	if counter.Name() != "characters" {
		t.Errorf("CharCounter.Name() = %q, want %q", counter.Name(), "characters")
	}
}

func TestCharCounter_Frequencies(t *testing.T) {
	counter := NewCharCounter()

	result := counter.Frequencies("abracadabra é")
	expected := map[rune]int{'a': 5, 'b': 2, 'r': 2, 'c': 1, 'd': 1, ' ': 1, 'é': 1}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Frequencies() = %v, want %v", result, expected)
	}

	if got := counter.Frequencies(""); len(got) != 0 {
		t.Errorf("Frequencies(\"\") = %v, want empty", got)
	}
}

func TestCharCounter_Top(t *testing.T) {
	counter := NewCharCounter()

	tests := []struct {
		name     string
		text     string
		n        int
		expected []CharFrequency
	}{
		{
			name:     "most frequent first",
			text:     "abracadabra",
			n:        2,
			expected: []CharFrequency{{'a', 5}, {'b', 2}},
		},
		{
			name:     "ties broken by character",
			text:     "abracadabra",
			n:        3,
			expected: []CharFrequency{{'a', 5}, {'b', 2}, {'r', 2}},
		},
		{
			name:     "n larger than vocabulary",
			text:     "aab",
			n:        10,
			expected: []CharFrequency{{'a', 2}, {'b', 1}},
		},
		{
			name:     "non-positive n returns everything",
			text:     "cba",
			n:        0,
			expected: []CharFrequency{{'a', 1}, {'b', 1}, {'c', 1}},
		},
		{
			name:     "empty text",
			text:     "",
			n:        5,
			expected: []CharFrequency{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := counter.Top(tt.text, tt.n)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Top(%q, %d) = %v, want %v", tt.text, tt.n, result, tt.expected)
			}
		})
	}
}

func TestTokenCounter(t *testing.T) {
	counter, err := NewTokenCounter()
	if err != nil {
		// the cl100k_base ranks are fetched over the network on first use
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}

	tests := []struct {
		name string
		text string
	}{
		{"empty string", ""},
		{"simple text", "hello world"},
		{"punctuation", "Hello, world!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := counter.Count(tt.text)
			// exact token counts can vary with encoding versions
			if tt.text == "" {
				if result != 0 {
					t.Errorf("TokenCounter.Count(%q) = %d, want 0 for empty string", tt.text, result)
				}
			} else if result <= 0 {
				t.Errorf("TokenCounter.Count(%q) = %d, want positive number for non-empty text", tt.text, result)
			}
		})
	}

	if counter.Name() != "tokens (cl100k_base)" {
		t.Errorf("TokenCounter.Name() = %q, want %q", counter.Name(), "tokens (cl100k_base)")
	}
}

func TestNewCounter(t *testing.T) {
	tests := []struct {
		name         string
		method       CountingMethod
		expectedName string
		expectError  bool
	}{
		{"words", Words, "words", false},
		{"characters", Characters, "characters", false},
		{"invalid", CountingMethod(999), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter, err := NewCounter(tt.method)

			if tt.expectError {
				if err == nil {
					t.Errorf("NewCounter(%v) expected error, got nil", tt.method)
				}
				if counter != nil {
					t.Errorf("NewCounter(%v) returned non-nil counter with error", tt.method)
				}
				return
			}

			if err != nil {
				t.Errorf("NewCounter(%v) unexpected error: %v", tt.method, err)
				return
			}

			if counter.Name() != tt.expectedName {
				t.Errorf("NewCounter(%v).Name() = %q, want %q", tt.method, counter.Name(), tt.expectedName)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	measures, err := Summarize("the cat sat", Characters, Words)
	if err != nil {
		t.Fatalf("Summarize() unexpected error: %v", err)
	}

	expected := []Measure{{Name: "characters", Count: 11}, {Name: "words", Count: 3}}
	if !reflect.DeepEqual(measures, expected) {
		t.Errorf("Summarize() = %v, want %v", measures, expected)
	}

	if _, err := Summarize("text", CountingMethod(42)); err == nil {
		t.Error("Summarize() with invalid method expected error, got nil")
	}
}

func TestCountingMethodString(t *testing.T) {
	tests := []struct {
		method   CountingMethod
		expected string
	}{
		{Tokens, "tokens"},
		{Words, "words"},
		{Characters, "characters"},
		{CountingMethod(999), "unknown"}, // invalid method
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := tt.method.String()
			if result != tt.expected {
				t.Errorf("CountingMethod(%d).String() = %q, want %q", int(tt.method), result, tt.expected)
			}
		})
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    CountingMethod
		wantErr bool
	}{
		{"characters", Characters, false},
		{"Chars", Characters, false},
		{" words ", Words, false},
		{"TOKENS", Tokens, false},
		{"sentences", Characters, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMethod(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMethod(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMethod(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
