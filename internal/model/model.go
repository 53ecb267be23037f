// Package model implements character-level n-gram language models.
//
// Model keeps raw counts for one fixed context length and answers unsmoothed
// probability, sampling and perplexity queries. Interpolated blends one Model
// per context length from 0 to c with uniform weights.
//
// Usage Example:
//
//	m, err := model.New(2, 0, model.WithSeed(42))
//	if err != nil {
//		return err
//	}
//	m.Update(corpus)
//	text, err := m.RandomText(600)
//
// Both model kinds satisfy LanguageModel, so callers can switch between them
// without caring which one they hold.
package model

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/chriscorrea/babble/internal/ngram"
)

// LanguageModel is the query and training surface shared by Model and Interpolated.
type LanguageModel interface {
	// Update trains the model on text, accumulating onto existing counts.
	Update(text string)

	// Prob returns the probability of char following context.
	Prob(context string, char rune) float64

	// RandomChar samples a character to follow context.
	RandomChar(context string) (rune, error)

	// RandomText samples length characters starting from an empty (padded) context.
	RandomText(length int) (string, error)

	// Perplexity scores text; lower is better.
	Perplexity(text string) (float64, error)

	// ContextLength returns c, the number of characters the model conditions on.
	ContextLength() int

	// Vocab returns the known characters in lexicographic order.
	Vocab() []rune
}

// gramKey is the composite key of the n-gram count table.
type gramKey struct {
	context string
	char    rune
}

// Model is an n-gram model for a single context length.
//
// Count tables only grow: Update adds to them and nothing removes from them.
// Queries may run concurrently with each other; Update is serialized with
// everything else.
type Model struct {
	c int
	k float64

	vocab         map[rune]struct{}
	charCounts    map[rune]int
	contextCounts map[string]int
	gramCounts    map[gramKey]int
	grams         []ngram.Gram // every observation, duplicates included

	src  Source
	lock sync.RWMutex
}

// Stats summarizes the size of a model's count tables.
type Stats struct {
	ContextLength  int     `json:"context_length"`
	Smoothing      float64 `json:"smoothing"`
	VocabularySize int     `json:"vocabulary_size"`
	Contexts       int     `json:"contexts"`
	NGrams         int     `json:"ngrams"`
	Observations   int     `json:"observations"`
}

// New returns an empty model with context length c and smoothing constant k.
// The character counts start with c sentinels, matching the padding placed in
// front of every training text.
func New(c int, k float64, opts ...Option) (*Model, error) {
	if err := validate(c, k); err != nil {
		return nil, err
	}

	return newModel(c, k, buildOptions(opts).src), nil
}

func newModel(c int, k float64, src Source) *Model {
	return &Model{
		c:             c,
		k:             k,
		vocab:         make(map[rune]struct{}),
		charCounts:    map[rune]int{ngram.Sentinel: c},
		contextCounts: make(map[string]int),
		gramCounts:    make(map[gramKey]int),
		src:           src,
	}
}

func validate(c int, k float64) error {
	if c < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidContextLength, c)
	}
	if k < 0 || math.IsNaN(k) {
		return fmt.Errorf("%w: got %v", ErrInvalidSmoothing, k)
	}
	return nil
}

// ContextLength returns c.
func (m *Model) ContextLength() int {
	return m.c
}

// K returns the add-k smoothing constant. It is stored for callers but Prob
// does not apply it.
func (m *Model) K() float64 {
	return m.k
}

// Update counts the characters and n-grams of text.
//
// Character counts and the vocabulary come from the unpadded text; n-grams come
// from the padded text, so padding only ever shows up inside contexts. Padding is
// applied again on every call, which means Update(a) followed by Update(b) is not
// the same as Update(a+b).
func (m *Model) Update(text string) {
	grams := ngram.Extract(m.c, text)

	m.lock.Lock()
	defer m.lock.Unlock()

	for _, char := range text {
		m.charCounts[char]++
		m.vocab[char] = struct{}{}
	}

	for _, g := range grams {
		m.gramCounts[gramKey{context: g.Context, char: g.Char}]++
		m.contextCounts[g.Context]++
	}
	m.grams = append(m.grams, grams...)

	slog.Debug("Model updated", "contextLength", m.c, "grams", len(grams), "vocabularySize", len(m.vocab), "contexts", len(m.contextCounts))
}

// Prob returns the unsmoothed probability of char following context.
//
// An unseen context falls back to 1/|vocabulary|; with an empty vocabulary that is
// undefined and NaN is returned. A seen context with an unseen character yields 0.
func (m *Model) Prob(context string, char rune) float64 {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.prob(context, char)
}

func (m *Model) prob(context string, char rune) float64 {
	contextCount, ok := m.contextCounts[context]
	if !ok {
		if len(m.vocab) == 0 {
			return math.NaN()
		}
		return 1 / float64(len(m.vocab))
	}
	if contextCount == 0 {
		return 0
	}

	return float64(m.gramCounts[gramKey{context: context, char: char}]) / float64(contextCount)
}

// RandomChar samples the next character for context, walking the vocabulary in
// lexicographic order. It returns ErrEmptyVocabulary for an untrained model.
func (m *Model) RandomChar(context string) (rune, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return sample(m.src, m.sortedVocab(), func(char rune) float64 {
		return m.prob(context, char)
	})
}

// RandomText samples exactly length characters.
func (m *Model) RandomText(length int) (string, error) {
	return generate(m.c, length, m.RandomChar)
}

// Perplexity returns the geometric mean of the inverse probabilities of the
// n-grams in text, or +Inf when one of them has probability zero.
//
// The product leaves out the first n-gram while the root is taken over all of
// them. Scores depend on this, so it is kept as is; Interpolated.Perplexity does
// not share the quirk.
func (m *Model) Perplexity(text string) (float64, error) {
	grams := ngram.Extract(m.c, text)
	if len(grams) == 0 {
		return 0, ErrNoNgrams
	}

	m.lock.RLock()
	defer m.lock.RUnlock()

	product := 1.0
	for _, g := range grams[1:] {
		p := m.prob(g.Context, g.Char)
		if math.IsNaN(p) {
			return 0, ErrEmptyVocabulary
		}
		if p == 0 {
			return math.Inf(1), nil
		}
		product *= 1 / p
	}

	return math.Pow(product, 1/float64(len(grams))), nil
}

// Vocab returns the vocabulary in lexicographic order.
func (m *Model) Vocab() []rune {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.sortedVocab()
}

func (m *Model) sortedVocab() []rune {
	vocab := make([]rune, 0, len(m.vocab))
	for char := range m.vocab {
		vocab = append(vocab, char)
	}
	slices.Sort(vocab)
	return vocab
}

// CharCount returns how often char was seen. The sentinel count includes the
// c padding characters the model starts with.
func (m *Model) CharCount(char rune) int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.charCounts[char]
}

// ContextCount returns how many n-grams had the given context.
func (m *Model) ContextCount(context string) int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.contextCounts[context]
}

// NgramCount returns how often char followed context.
func (m *Model) NgramCount(context string, char rune) int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.gramCounts[gramKey{context: context, char: char}]
}

// Contexts returns every observed context in lexicographic order.
func (m *Model) Contexts() []string {
	m.lock.RLock()
	defer m.lock.RUnlock()

	contexts := make([]string, 0, len(m.contextCounts))
	for context := range m.contextCounts {
		contexts = append(contexts, context)
	}
	slices.Sort(contexts)
	return contexts
}

// Grams returns a copy of every n-gram observed so far, in training order.
func (m *Model) Grams() []ngram.Gram {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return slices.Clone(m.grams)
}

// Stats reports table sizes.
func (m *Model) Stats() Stats {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return Stats{
		ContextLength:  m.c,
		Smoothing:      m.k,
		VocabularySize: len(m.vocab),
		Contexts:       len(m.contextCounts),
		NGrams:         len(m.gramCounts),
		Observations:   len(m.grams),
	}
}
